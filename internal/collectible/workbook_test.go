package collectible

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows ...[]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	header := []any{"name", "uid", "value", "latitude", "longitude", "picture"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseWorkbook(t *testing.T) {
	buf := workbook(t,
		[]any{"Gold coin", "a1b2", 10, 55.7512, 37.6184, "https://example.com/coin.png"},
		[]any{"Broken", "c3d4", "ten", 55.0, 37.0, "https://example.com/x.png"},
		[]any{"Far north", "e5f6", 5, 95.0, 10.0, "https://example.com/y.png"},
		[]any{"No picture", "g7h8", 5, 10.0, 10.0, "not a url"},
	)

	valid, invalid, err := ParseWorkbook(buf)
	require.NoError(t, err)

	require.Len(t, valid, 1)
	assert.Equal(t, ItemInput{
		Name:      "Gold coin",
		UID:       "a1b2",
		Value:     10,
		Latitude:  55.7512,
		Longitude: 37.6184,
		Picture:   "https://example.com/coin.png",
	}, valid[0])

	require.Len(t, invalid, 3)
	assert.Equal(t, "Broken", invalid[0][0])
	assert.Equal(t, "ten", invalid[0][2])
	assert.Equal(t, "Far north", invalid[1][0])
	assert.Equal(t, "not a url", invalid[2][5])
	for _, row := range invalid {
		assert.Len(t, row, rowColumns)
	}
}

func TestParseWorkbookShortRow(t *testing.T) {
	buf := workbook(t, []any{"Only name"})

	valid, invalid, err := ParseWorkbook(buf)
	require.NoError(t, err)
	assert.Empty(t, valid)
	assert.Equal(t, [][]string{{"Only name", "", "", "", "", ""}}, invalid)
}

func TestParseWorkbookNotXLSX(t *testing.T) {
	_, _, err := ParseWorkbook(bytes.NewReader([]byte("name,uid\n")))
	assert.Error(t, err)
}

func TestParseInt(t *testing.T) {
	n, err := parseInt("12")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	n, err = parseInt("7.0")
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = parseInt("7.5")
	assert.Error(t, err)
}

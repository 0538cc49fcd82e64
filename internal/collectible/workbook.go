package collectible

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/zzenku/project-run/internal/shared/validate"

	"github.com/xuri/excelize/v2"
)

const rowColumns = 6

var errCell = errors.New("invalid cell")

// ParseWorkbook reads collectible rows from the active sheet of an xlsx document,
// skipping the header row. Rows that fail to parse or validate are returned as read,
// padded with empty cells to the full column count.
func ParseWorkbook(r io.Reader) ([]ItemInput, [][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	if err != nil {
		return nil, nil, fmt.Errorf("read rows: %w", err)
	}

	valid := []ItemInput{}
	invalid := [][]string{}
	for i, row := range rows {
		if i == 0 || blank(row) {
			continue
		}
		item, err := parseRow(row)
		if err == nil {
			err = validate.Struct(item)
		}
		if err != nil {
			invalid = append(invalid, padRow(row))
			continue
		}
		valid = append(valid, item)
	}
	return valid, invalid, nil
}

func parseRow(row []string) (ItemInput, error) {
	cells := make([]string, rowColumns)
	copy(cells, row)
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}

	value, err := parseInt(cells[2])
	if err != nil {
		return ItemInput{}, err
	}
	lat, err := strconv.ParseFloat(cells[3], 64)
	if err != nil {
		return ItemInput{}, errCell
	}
	lng, err := strconv.ParseFloat(cells[4], 64)
	if err != nil {
		return ItemInput{}, errCell
	}

	return ItemInput{
		Name:      cells[0],
		UID:       cells[1],
		Value:     value,
		Latitude:  lat,
		Longitude: lng,
		Picture:   cells[5],
	}, nil
}

// parseInt accepts "12" as well as spreadsheet renderings such as "12.0".
func parseInt(cell string) (int, error) {
	if n, err := strconv.Atoi(cell); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, errCell
	}
	return int(f), nil
}

// padRow restores the trailing empty cells excelize drops from GetRows.
func padRow(row []string) []string {
	if len(row) >= rowColumns {
		return row
	}
	padded := make([]string, rowColumns)
	copy(padded, row)
	return padded
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

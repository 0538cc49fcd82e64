package collectible

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
	"go.uber.org/zap"
)

func passThrough(c *fiber.Ctx) error { return c.Next() }

func uploadRequest(t *testing.T, field string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, "items.xlsx")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	_, _ = part.Write(content)
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload_file/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadHandler(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO collectible_items`).
		WithArgs("Coin", "a1", 3, 10.0, 20.0, "https://example.com/c.png").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	app := fiber.New()
	RegisterRoutes(app.Group("/api"), NewService(mock, zap.NewNop()), passThrough)

	buf := workbook(t,
		[]any{"Coin", "a1", 3, 10.0, 20.0, "https://example.com/c.png"},
		[]any{"Bad", "b2", -1, 10.0, 20.0, "https://example.com/b.png"},
	)
	resp, err := app.Test(uploadRequest(t, "file", buf.Bytes()))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("upload status: %v", err)
	}

	var invalid [][]string
	if err := json.NewDecoder(resp.Body).Decode(&invalid); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(invalid) != 1 || invalid[0][1] != "b2" {
		t.Fatalf("unexpected invalid rows: %v", invalid)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUploadHandlerMissingFile(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/api"), NewService(nil, zap.NewNop()), passThrough)

	resp, err := app.Test(uploadRequest(t, "other", []byte("x")))
	if err != nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400")
	}

	resp, err = app.Test(uploadRequest(t, "file", []byte("not a workbook")))
	if err != nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unreadable workbook")
	}
}

func TestListHandler(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`FROM collectible_items`).
		WillReturnRows(pgxmock.NewRows(itemColumns).
			AddRow(int64(1), "Coin", "a1", 3, 1.5, 2.5, "https://example.com/c.png"))

	app := fiber.New()
	RegisterRoutes(app.Group("/api"), NewService(mock, zap.NewNop()), passThrough)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/collectible_item/", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("list status: %v", err)
	}
	var items []Item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil || len(items) != 1 {
		t.Fatalf("decode items: %v", err)
	}
}

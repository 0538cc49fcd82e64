package challenge

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
	"go.uber.org/zap"
)

func TestChallengeHandlers(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	app := fiber.New()
	RegisterRoutes(app.Group("/api"), NewService(mock, zap.NewNop()))

	mock.ExpectQuery(`SELECT id, full_name, athlete_id FROM challenges ORDER BY id`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "full_name", "athlete_id"}).
			AddRow(int64(1), RunTenTimes, "athlete-1").
			AddRow(int64(2), RunFiftyKm, "athlete-2"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/challenges/", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("list status: %v", err)
	}
	var challenges []Challenge
	if err := json.NewDecoder(resp.Body).Decode(&challenges); err != nil || len(challenges) != 2 {
		t.Fatalf("decode challenges: %v (%d)", err, len(challenges))
	}

	mock.ExpectQuery(`SELECT c.full_name`).
		WillReturnRows(pgxmock.NewRows([]string{"full_name", "id", "first_name", "last_name", "username"}))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/challenges_summary/", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("summary status: %v", err)
	}
	var summary []Summary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil || len(summary) != len(Badges) {
		t.Fatalf("decode summary: %v", err)
	}
}

func TestChallengeListError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	app := fiber.New()
	RegisterRoutes(app.Group("/api"), NewService(mock, zap.NewNop()))

	mock.ExpectQuery(`SELECT id, full_name, athlete_id FROM challenges`).
		WithArgs("athlete-1").
		WillReturnError(errBoom)

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/challenges?athlete=athlete-1", nil))
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
}

var errBoom = errors.New("boom")

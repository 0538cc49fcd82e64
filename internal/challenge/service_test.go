package challenge

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"go.uber.org/zap"
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name  string
		stats Stats
		want  []string
	}{
		{"nothing", Stats{FinishedRuns: 3, TotalDistanceKm: 12}, nil},
		// stats include the run being stopped, so the 10th finish awards the badge
		{"ninth run", Stats{FinishedRuns: 9, TotalDistanceKm: 12}, nil},
		{"tenth run", Stats{FinishedRuns: 10, TotalDistanceKm: 12}, []string{RunTenTimes}},
		{"past ten runs", Stats{FinishedRuns: 11}, []string{RunTenTimes}},
		{"fifty km", Stats{FinishedRuns: 4, TotalDistanceKm: 50}, []string{RunFiftyKm}},
		{"fast run", Stats{FinishedRuns: 1, TotalDistanceKm: 2.5, RunPositions: 5, RunTimeSeconds: 540, RunDistanceKm: 2.5}, []string{TwoKmInTenMinutes}},
		{"fast run too slow", Stats{FinishedRuns: 1, RunPositions: 5, RunTimeSeconds: 601, RunDistanceKm: 2.5}, nil},
		{"fast run too short", Stats{FinishedRuns: 1, RunPositions: 5, RunTimeSeconds: 300, RunDistanceKm: 1.9999}, nil},
		{"single position", Stats{FinishedRuns: 1, RunPositions: 1, RunDistanceKm: 3}, nil},
		{"everything", Stats{FinishedRuns: 10, TotalDistanceKm: 51, RunPositions: 2, RunTimeSeconds: 600, RunDistanceKm: 2}, []string{RunTenTimes, RunFiftyKm, TwoKmInTenMinutes}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.stats)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Evaluate(%+v) = %v, want %v", tc.stats, got, tc.want)
			}
		})
	}
}

func TestAwardSkipsExisting(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO challenges`).
		WithArgs("athlete-1", RunTenTimes).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectExec(`INSERT INTO challenges`).
		WithArgs("athlete-1", RunFiftyKm).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	svc := NewService(mock, zap.NewNop())
	awarded, err := svc.Award(context.Background(), mock, "athlete-1", []string{RunTenTimes, RunFiftyKm})
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if len(awarded) != 1 || awarded[0] != RunFiftyKm {
		t.Fatalf("unexpected awarded badges: %v", awarded)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAwardError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	boom := errors.New("boom")
	mock.ExpectExec(`INSERT INTO challenges`).
		WithArgs("athlete-1", RunTenTimes).
		WillReturnError(boom)

	svc := NewService(mock, zap.NewNop())
	if _, err := svc.Award(context.Background(), mock, "athlete-1", []string{RunTenTimes}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestListFiltersByAthlete(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, full_name, athlete_id FROM challenges WHERE athlete_id=\$1`).
		WithArgs("athlete-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "full_name", "athlete_id"}).
			AddRow(int64(1), RunTenTimes, "athlete-1"))

	svc := NewService(mock, zap.NewNop())
	challenges, err := svc.List(context.Background(), "athlete-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(challenges) != 1 || challenges[0].FullName != RunTenTimes {
		t.Fatalf("unexpected challenges: %+v", challenges)
	}
}

func TestSummaryGroupsByBadge(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT c.full_name, u.id, u.first_name, u.last_name, u.username`).
		WillReturnRows(pgxmock.NewRows([]string{"full_name", "id", "first_name", "last_name", "username"}).
			AddRow(RunFiftyKm, "a-1", "Anna", "Petrova", "anna").
			AddRow(RunTenTimes, "a-1", "Anna", "Petrova", "anna").
			AddRow(RunTenTimes, "a-2", "Boris", "", "boris"))

	svc := NewService(mock, zap.NewNop())
	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(summary) != 3 {
		t.Fatalf("expected every badge listed, got %d", len(summary))
	}
	if summary[0].NameToDisplay != RunTenTimes || len(summary[0].Athletes) != 2 {
		t.Fatalf("unexpected first entry: %+v", summary[0])
	}
	if summary[0].Athletes[1].FullName != "Boris" {
		t.Fatalf("expected trimmed full name, got %q", summary[0].Athletes[1].FullName)
	}
	if summary[2].NameToDisplay != TwoKmInTenMinutes || len(summary[2].Athletes) != 0 {
		t.Fatalf("expected empty fast run entry, got %+v", summary[2])
	}
}

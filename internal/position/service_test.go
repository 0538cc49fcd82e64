package position

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/zzenku/project-run/internal/collectible"
	"github.com/zzenku/project-run/internal/run"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"go.uber.org/zap"
)

const (
	runID     = "7d7c1b2e-4c1a-4c55-9a43-0d9c0b1e6f10"
	athleteID = "1f0a9c3e-2b7d-4d8e-8f61-6a2b9c4d5e70"
)

var (
	itemColumns     = []string{"id", "name", "uid", "value", "latitude", "longitude", "picture"}
	positionColumns = []string{"id", "run_id", "latitude", "longitude", "date_time", "speed", "distance"}
)

type recorder struct {
	mu       sync.Mutex
	runIDs   []string
	payloads [][]byte
}

func (r *recorder) Broadcast(runID string, payload []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runIDs = append(r.runIDs, runID)
	r.payloads = append(r.payloads, payload)
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func newService(mock pgxmock.PgxPoolIface, stream Broadcaster) *Service {
	logger := zap.NewNop()
	return NewService(mock, collectible.NewService(mock, logger), stream, logger)
}

func float(v float64) *float64 { return &v }

func TestCreateSecondPoint(t *testing.T) {
	mock := newMock(t)
	t0 := time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)
	at := t0.Add(300 * time.Second)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT athlete_id, status FROM runs WHERE id=\$1 FOR UPDATE`).
		WithArgs(runID).
		WillReturnRows(pgxmock.NewRows([]string{"athlete_id", "status"}).AddRow(athleteID, run.StatusInProgress))
	mock.ExpectQuery(`ORDER BY date_time DESC, id DESC`).
		WithArgs(runID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "latitude", "longitude", "date_time", "speed", "distance"}).
			AddRow(int64(1), 0.0, 0.0, t0, 0.0, 0.0))
	mock.ExpectQuery(`INSERT INTO positions`).
		WithArgs(runID, 0.0, 0.01, at, 3.71, 1.1132).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(2)))
	mock.ExpectQuery(`FROM collectible_items`).
		WillReturnRows(pgxmock.NewRows(itemColumns).
			AddRow(int64(9), "Coin", "coin", 5, 0.0, 0.0105, "https://example.com/c.png"))
	mock.ExpectExec(`INSERT INTO athlete_items`).
		WithArgs(athleteID, int64(9)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	stream := &recorder{}
	p, err := newService(mock, stream).Create(context.Background(), CreateRequest{
		RunID: runID, Latitude: float(0), Longitude: float(0.01), DateTime: &at,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID != 2 || p.Distance != 1.1132 || p.Speed != 3.71 {
		t.Fatalf("unexpected position: %+v", p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}

	if len(stream.runIDs) != 1 || stream.runIDs[0] != runID {
		t.Fatalf("expected one broadcast for the run, got %v", stream.runIDs)
	}
	var sent Position
	if err := json.Unmarshal(stream.payloads[0], &sent); err != nil || sent.ID != 2 {
		t.Fatalf("unexpected payload %s (%v)", stream.payloads[0], err)
	}
}

func TestCreateFirstPoint(t *testing.T) {
	mock := newMock(t)
	at := time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT athlete_id, status FROM runs`).
		WithArgs(runID).
		WillReturnRows(pgxmock.NewRows([]string{"athlete_id", "status"}).AddRow(athleteID, run.StatusInProgress))
	mock.ExpectQuery(`ORDER BY date_time DESC`).WithArgs(runID).WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO positions`).
		WithArgs(runID, 55.75, 37.61, at, 0.0, 0.0).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery(`FROM collectible_items`).WillReturnRows(pgxmock.NewRows(itemColumns))
	mock.ExpectCommit()

	p, err := newService(mock, nil).Create(context.Background(), CreateRequest{
		RunID: runID, Latitude: float(55.75), Longitude: float(37.61), DateTime: &at,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Distance != 0 || p.Speed != 0 {
		t.Fatalf("expected zero distance and speed, got %+v", p)
	}
}

func TestCreateRejectsRunNotInProgress(t *testing.T) {
	mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT athlete_id, status FROM runs`).
		WithArgs(runID).
		WillReturnRows(pgxmock.NewRows([]string{"athlete_id", "status"}).AddRow(athleteID, run.StatusFinished))
	mock.ExpectRollback()

	_, err := newService(mock, nil).Create(context.Background(), CreateRequest{RunID: runID, Latitude: float(1), Longitude: float(1)})
	if !errors.Is(err, ErrRunNotInProgress) {
		t.Fatalf("expected ErrRunNotInProgress, got %v", err)
	}
}

func TestCreateRejectsUnknownRun(t *testing.T) {
	mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT athlete_id, status FROM runs`).WithArgs(runID).WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := newService(mock, nil).Create(context.Background(), CreateRequest{RunID: runID, Latitude: float(1), Longitude: float(1)})
	if !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestCreateValidatesCoordinates(t *testing.T) {
	svc := newService(newMock(t), nil)

	cases := []CreateRequest{
		{RunID: runID, Latitude: float(90.5), Longitude: float(0)},
		{RunID: runID, Latitude: float(0), Longitude: float(-180.01)},
		{RunID: runID, Longitude: float(0)},
		{Latitude: float(0), Longitude: float(0)},
	}
	for _, req := range cases {
		if _, err := svc.Create(context.Background(), req); err == nil {
			t.Fatalf("expected validation error for %+v", req)
		}
	}
}

func TestListAndDelete(t *testing.T) {
	mock := newMock(t)
	svc := newService(mock, nil)
	at := time.Now()

	mock.ExpectQuery(`FROM positions WHERE run_id=\$1 ORDER BY date_time, id`).
		WithArgs(runID).
		WillReturnRows(pgxmock.NewRows(positionColumns).
			AddRow(int64(1), runID, 1.0, 2.0, at, 0.0, 0.0).
			AddRow(int64(2), runID, 1.001, 2.0, at.Add(time.Minute), 1.85, 0.1112))
	positions, err := svc.List(context.Background(), runID)
	if err != nil || len(positions) != 2 {
		t.Fatalf("list: %v (%d)", err, len(positions))
	}

	if _, err := svc.List(context.Background(), "abc"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound for malformed run, got %v", err)
	}

	mock.ExpectExec(`DELETE FROM positions`).WithArgs(int64(2)).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	if err := svc.Delete(context.Background(), 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

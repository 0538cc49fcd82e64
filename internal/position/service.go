package position

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zzenku/project-run/internal/collectible"
	"github.com/zzenku/project-run/internal/db"
	"github.com/zzenku/project-run/internal/metrics"
	"github.com/zzenku/project-run/internal/run"
	"github.com/zzenku/project-run/internal/shared/geo"
	"github.com/zzenku/project-run/internal/shared/validate"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var (
	ErrNotFound         = errors.New("position not found")
	ErrRunNotFound      = errors.New("run not found")
	ErrRunNotInProgress = errors.New("run is not in progress")
)

// Broadcaster delivers stored positions to live watchers of a run.
type Broadcaster interface {
	Broadcast(runID string, payload []byte)
}

type Service struct {
	db     db.Pool
	items  *collectible.Service
	stream Broadcaster
	logger *zap.Logger
}

func NewService(db db.Pool, items *collectible.Service, stream Broadcaster, logger *zap.Logger) *Service {
	return &Service{db: db, items: items, stream: stream, logger: logger}
}

// Create stores a GPS point for an in-progress run, picks up nearby collectibles
// for the run's athlete and publishes the point to live watchers.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Position, error) {
	if err := validate.Struct(req); err != nil {
		return Position{}, err
	}
	at := time.Now()
	if req.DateTime != nil {
		at = *req.DateTime
	}
	point := geo.Point{Lat: *req.Latitude, Lng: *req.Longitude}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return Position{}, fmt.Errorf("begin: %w", err)
	}
	defer db.SafeRollback(ctx, tx, s.logger)

	var athleteID, status string
	err = tx.QueryRow(ctx, `SELECT athlete_id, status FROM runs WHERE id=$1 FOR UPDATE`, req.RunID).Scan(&athleteID, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return Position{}, ErrRunNotFound
	}
	if err != nil {
		return Position{}, err
	}
	if status != run.StatusInProgress {
		return Position{}, ErrRunNotInProgress
	}

	prev, err := latest(ctx, tx, req.RunID)
	if err != nil {
		return Position{}, err
	}

	p := Position{RunID: req.RunID, Latitude: point.Lat, Longitude: point.Lng, DateTime: at}
	p.Distance, p.Speed = Advance(prev, point, at)

	err = tx.QueryRow(ctx, `
		INSERT INTO positions (run_id, latitude, longitude, date_time, speed, distance)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`, p.RunID, p.Latitude, p.Longitude, p.DateTime, p.Speed, p.Distance).Scan(&p.ID)
	if err != nil {
		return Position{}, fmt.Errorf("insert position: %w", err)
	}

	if _, err := s.items.CollectNear(ctx, tx, athleteID, point); err != nil {
		return Position{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Position{}, fmt.Errorf("commit: %w", err)
	}
	metrics.PositionsIngested.Inc()

	if s.stream != nil {
		payload, err := json.Marshal(p)
		if err != nil {
			s.logger.Warn("encode position", zap.Error(err))
		} else {
			s.stream.Broadcast(p.RunID, payload)
		}
	}
	return p, nil
}

func latest(ctx context.Context, q db.Querier, runID string) (*Position, error) {
	var p Position
	err := q.QueryRow(ctx, `
		SELECT id, latitude, longitude, date_time, speed, distance
		FROM positions WHERE run_id=$1
		ORDER BY date_time DESC, id DESC
		LIMIT 1
	`, runID).Scan(&p.ID, &p.Latitude, &p.Longitude, &p.DateTime, &p.Speed, &p.Distance)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest position: %w", err)
	}
	p.RunID = runID
	return &p, nil
}

// List returns positions ordered by time, optionally only those of one run.
func (s *Service) List(ctx context.Context, runID string) ([]Position, error) {
	query := `SELECT id, run_id, latitude, longitude, date_time, speed, distance FROM positions`
	var args []any
	if runID != "" {
		if _, err := uuid.Parse(runID); err != nil {
			return nil, ErrRunNotFound
		}
		query += ` WHERE run_id=$1`
		args = append(args, runID)
	}
	query += ` ORDER BY date_time, id`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	positions := []Position{}
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

func (s *Service) Get(ctx context.Context, id int64) (Position, error) {
	p, err := scanPosition(s.db.QueryRow(ctx, `
		SELECT id, run_id, latitude, longitude, date_time, speed, distance
		FROM positions WHERE id=$1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Position{}, ErrNotFound
	}
	return p, err
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM positions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPosition(row pgx.Row) (Position, error) {
	var p Position
	if err := row.Scan(&p.ID, &p.RunID, &p.Latitude, &p.Longitude, &p.DateTime, &p.Speed, &p.Distance); err != nil {
		return Position{}, err
	}
	return p, nil
}

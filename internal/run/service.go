package run

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zzenku/project-run/internal/challenge"
	"github.com/zzenku/project-run/internal/db"
	"github.com/zzenku/project-run/internal/metrics"
	"github.com/zzenku/project-run/internal/shared/paging"
	"github.com/zzenku/project-run/internal/shared/validate"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var (
	ErrNotFound        = errors.New("run not found")
	ErrInvalidStatus   = errors.New("run status does not allow this transition")
	ErrAthleteNotFound = errors.New("athlete not found")
)

const selectRuns = `
	SELECT r.id, r.athlete_id, u.username, u.last_name, u.first_name,
	       r.comment, r.status, r.distance, r.run_time_seconds, r.speed, r.created_at
	FROM runs r
	JOIN users u ON u.id = r.athlete_id`

var orderings = map[string]string{"created_at": "r.created_at"}

type Service struct {
	db         db.Pool
	challenges *challenge.Service
	logger     *zap.Logger
}

func NewService(db db.Pool, challenges *challenge.Service, logger *zap.Logger) *Service {
	return &Service{db: db, challenges: challenges, logger: logger}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Run, error) {
	if err := validate.Struct(req); err != nil {
		return Run{}, err
	}
	id := uuid.NewString()
	_, err := s.db.Exec(ctx, `
		INSERT INTO runs (id, athlete_id, comment, status)
		VALUES ($1,$2,$3,$4)
	`, id, req.AthleteID, req.Comment, StatusInit)
	if db.IsForeignKeyViolation(err) {
		return Run{}, ErrAthleteNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (Run, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Run{}, ErrNotFound
	}
	run, err := scanRun(s.db.QueryRow(ctx, selectRuns+` WHERE r.id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	return run, err
}

// List returns runs matching f. Without page every match is returned and the
// total is the number of results.
func (s *Service) List(ctx context.Context, f Filter, page *paging.Params) ([]Run, int, error) {
	if err := validate.Struct(f); err != nil {
		return nil, 0, err
	}
	order, err := paging.Order(f.Ordering, orderings, "r.created_at ASC")
	if err != nil {
		return nil, 0, err
	}

	var conds []string
	var args []any
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("r.status = $%d", len(args)))
	}
	if f.AthleteID != "" {
		args = append(args, f.AthleteID)
		conds = append(conds, fmt.Sprintf("r.athlete_id = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	total := -1
	query := selectRuns + where + " ORDER BY " + order + ", r.id"
	if page != nil {
		if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM runs r`+where, args...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("count runs: %w", err)
		}
		if page.OutOfRange(total) {
			return nil, 0, paging.ErrInvalidPage
		}
		args = append(args, page.Limit(), page.Offset())
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if total < 0 {
		total = len(runs)
	}
	return runs, total, nil
}

// Update changes the comment. Status and measurements only move through Start and Stop.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (Run, error) {
	if err := validate.Struct(req); err != nil {
		return Run{}, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return Run{}, ErrNotFound
	}
	tag, err := s.db.Exec(ctx, `UPDATE runs SET comment=$2 WHERE id=$1`, id, req.Comment)
	if err != nil {
		return Run{}, err
	}
	if tag.RowsAffected() == 0 {
		return Run{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM runs WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Start moves a run from init to in_progress.
func (s *Service) Start(ctx context.Context, id string) (Run, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Run{}, ErrNotFound
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE runs SET status=$2
		WHERE id=$1 AND status=$3
	`, id, StatusInProgress, StatusInit)
	if err != nil {
		return Run{}, err
	}
	if tag.RowsAffected() == 0 {
		if _, err := s.Get(ctx, id); err != nil {
			return Run{}, err
		}
		return Run{}, ErrInvalidStatus
	}
	return s.Get(ctx, id)
}

// Stop finishes an in-progress run: it stores distance, time and average speed
// computed from the run's positions and awards any challenge the athlete now qualifies for.
func (s *Service) Stop(ctx context.Context, id string) (Run, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Run{}, ErrNotFound
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return Run{}, fmt.Errorf("begin: %w", err)
	}
	defer db.SafeRollback(ctx, tx, s.logger)

	run, err := scanRun(tx.QueryRow(ctx, selectRuns+` WHERE r.id=$1 FOR UPDATE OF r`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	if err != nil {
		return Run{}, err
	}
	if run.Status != StatusInProgress {
		return Run{}, ErrInvalidStatus
	}

	samples, err := loadSamples(ctx, tx, id)
	if err != nil {
		return Run{}, err
	}
	totals := Summarize(samples)

	_, err = tx.Exec(ctx, `
		UPDATE runs SET status=$2, distance=$3, run_time_seconds=$4, speed=$5
		WHERE id=$1
	`, id, StatusFinished, totals.DistanceKm, totals.RunTimeSeconds, totals.Speed)
	if err != nil {
		return Run{}, fmt.Errorf("finish run: %w", err)
	}

	stats := challenge.Stats{
		RunPositions:   len(samples),
		RunTimeSeconds: totals.RunTimeSeconds,
		RunDistanceKm:  totals.DistanceKm,
	}
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(distance), 0)
		FROM runs WHERE athlete_id=$1 AND status=$2
	`, run.AthleteID, StatusFinished).Scan(&stats.FinishedRuns, &stats.TotalDistanceKm)
	if err != nil {
		return Run{}, fmt.Errorf("athlete totals: %w", err)
	}

	if _, err := s.challenges.Award(ctx, tx, run.AthleteID, challenge.Evaluate(stats)); err != nil {
		return Run{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Run{}, fmt.Errorf("commit: %w", err)
	}

	metrics.RunsFinished.Inc()
	s.logger.Info("run finished",
		zap.String("run_id", id),
		zap.Float64("distance_km", totals.DistanceKm),
		zap.Int("run_time_seconds", totals.RunTimeSeconds))

	run.Status = StatusFinished
	run.Distance = totals.DistanceKm
	run.RunTimeSeconds = totals.RunTimeSeconds
	run.Speed = totals.Speed
	return run, nil
}

func loadSamples(ctx context.Context, q db.Querier, runID string) ([]Sample, error) {
	rows, err := q.Query(ctx, `
		SELECT latitude, longitude, date_time, speed
		FROM positions WHERE run_id=$1
		ORDER BY date_time, id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("load positions: %w", err)
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var sample Sample
		if err := rows.Scan(&sample.Latitude, &sample.Longitude, &sample.DateTime, &sample.Speed); err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}

func scanRun(row pgx.Row) (Run, error) {
	var r Run
	err := row.Scan(&r.ID, &r.AthleteID, &r.AthleteData.Username, &r.AthleteData.LastName, &r.AthleteData.FirstName,
		&r.Comment, &r.Status, &r.Distance, &r.RunTimeSeconds, &r.Speed, &r.CreatedAt)
	if err != nil {
		return Run{}, err
	}
	r.AthleteData.ID = r.AthleteID
	return r, nil
}

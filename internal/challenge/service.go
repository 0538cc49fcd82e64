package challenge

import (
	"context"
	"fmt"
	"strings"

	"github.com/zzenku/project-run/internal/db"
	"github.com/zzenku/project-run/internal/metrics"

	"go.uber.org/zap"
)

const (
	runCountThreshold   = 10
	totalKmThreshold    = 50.0
	fastRunMaxSeconds   = 600
	fastRunMinKm        = 2.0
	fastRunMinPositions = 2
)

type Service struct {
	db     db.Querier
	logger *zap.Logger
}

func NewService(db db.Querier, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Evaluate returns the badges an athlete qualifies for given their stats.
func Evaluate(s Stats) []string {
	var earned []string
	if s.FinishedRuns >= runCountThreshold {
		earned = append(earned, RunTenTimes)
	}
	if s.TotalDistanceKm >= totalKmThreshold {
		earned = append(earned, RunFiftyKm)
	}
	if s.RunPositions >= fastRunMinPositions && s.RunTimeSeconds <= fastRunMaxSeconds && s.RunDistanceKm >= fastRunMinKm {
		earned = append(earned, TwoKmInTenMinutes)
	}
	return earned
}

// Award inserts each badge the athlete does not hold yet and returns the new ones.
// q is usually the transaction finishing the run.
func (s *Service) Award(ctx context.Context, q db.Querier, athleteID string, names []string) ([]string, error) {
	var awarded []string
	for _, name := range names {
		tag, err := q.Exec(ctx, `
			INSERT INTO challenges (athlete_id, full_name)
			VALUES ($1,$2)
			ON CONFLICT (athlete_id, full_name) DO NOTHING
		`, athleteID, name)
		if err != nil {
			return nil, fmt.Errorf("award %q: %w", name, err)
		}
		if tag.RowsAffected() == 0 {
			continue
		}
		metrics.ChallengesAwarded.WithLabelValues(name).Inc()
		s.logger.Info("challenge awarded", zap.String("athlete_id", athleteID), zap.String("challenge", name))
		awarded = append(awarded, name)
	}
	return awarded, nil
}

func (s *Service) List(ctx context.Context, athleteID string) ([]Challenge, error) {
	query := `SELECT id, full_name, athlete_id FROM challenges`
	var args []any
	if athleteID != "" {
		query += ` WHERE athlete_id=$1`
		args = append(args, athleteID)
	}
	query += ` ORDER BY id`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	challenges := []Challenge{}
	for rows.Next() {
		var c Challenge
		if err := rows.Scan(&c.ID, &c.FullName, &c.AthleteID); err != nil {
			return nil, err
		}
		challenges = append(challenges, c)
	}
	return challenges, rows.Err()
}

// Summary groups badge holders by badge name. Badges nobody holds are listed with no athletes.
func (s *Service) Summary(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.Query(ctx, `
		SELECT c.full_name, u.id, u.first_name, u.last_name, u.username
		FROM challenges c
		JOIN users u ON u.id = c.athlete_id
		ORDER BY c.full_name, u.username
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byName := map[string][]Athlete{}
	for rows.Next() {
		var name, first, last string
		var a Athlete
		if err := rows.Scan(&name, &a.ID, &first, &last, &a.Username); err != nil {
			return nil, err
		}
		a.FullName = strings.TrimSpace(first + " " + last)
		byName[name] = append(byName[name], a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(byName))
	for _, name := range Badges {
		athletes := byName[name]
		if athletes == nil {
			athletes = []Athlete{}
		}
		summaries = append(summaries, Summary{NameToDisplay: name, Athletes: athletes})
		delete(byName, name)
	}
	// badges granted under names no longer in Badges
	for name, athletes := range byName {
		summaries = append(summaries, Summary{NameToDisplay: name, Athletes: athletes})
	}
	return summaries, nil
}

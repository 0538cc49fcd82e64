package analytics

import (
	"context"
	"errors"
	"fmt"

	"github.com/zzenku/project-run/internal/db"
	"github.com/zzenku/project-run/internal/shared/units"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrCoachNotFound = errors.New("coach not found")

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) ForCoach(ctx context.Context, coachID string) (CoachAnalytics, error) {
	if _, err := uuid.Parse(coachID); err != nil {
		return CoachAnalytics{}, ErrCoachNotFound
	}
	var isCoach bool
	err := s.db.QueryRow(ctx, `SELECT is_coach FROM users WHERE id=$1 AND NOT is_admin`, coachID).Scan(&isCoach)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && !isCoach) {
		return CoachAnalytics{}, ErrCoachNotFound
	}
	if err != nil {
		return CoachAnalytics{}, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT r.athlete_id, MAX(r.distance)::float8, SUM(r.distance)::float8, AVG(r.speed)::float8
		FROM runs r
		JOIN subscriptions s ON s.athlete_id = r.athlete_id
		WHERE s.coach_id=$1 AND r.status='finished'
		GROUP BY r.athlete_id
		ORDER BY r.athlete_id
	`, coachID)
	if err != nil {
		return CoachAnalytics{}, fmt.Errorf("athlete totals: %w", err)
	}
	defer rows.Close()

	var totals []AthleteTotals
	for rows.Next() {
		var t AthleteTotals
		if err := rows.Scan(&t.AthleteID, &t.LongestKm, &t.TotalKm, &t.AvgSpeedMS); err != nil {
			return CoachAnalytics{}, err
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return CoachAnalytics{}, err
	}
	return Best(totals), nil
}

// Best picks the leading athlete per metric. Ties go to the earlier entry.
func Best(totals []AthleteTotals) CoachAnalytics {
	var out CoachAnalytics
	for i := range totals {
		t := &totals[i]
		longest := units.RoundDistance(t.LongestKm)
		total := units.RoundDistance(t.TotalKm)
		speed := units.RoundSpeed(t.AvgSpeedMS)

		if out.LongestRunValue == nil || longest > *out.LongestRunValue {
			out.LongestRunUser, out.LongestRunValue = &t.AthleteID, &longest
		}
		if out.TotalRunValue == nil || total > *out.TotalRunValue {
			out.TotalRunUser, out.TotalRunValue = &t.AthleteID, &total
		}
		if out.SpeedAvgValue == nil || speed > *out.SpeedAvgValue {
			out.SpeedAvgUser, out.SpeedAvgValue = &t.AthleteID, &speed
		}
	}
	return out
}
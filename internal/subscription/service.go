package subscription

import (
	"context"
	"errors"
	"fmt"

	"github.com/zzenku/project-run/internal/db"
	"github.com/zzenku/project-run/internal/shared/validate"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var (
	ErrInvalidAthlete    = errors.New("athlete does not exist or cannot subscribe")
	ErrInvalidCoach      = errors.New("coach does not exist")
	ErrAlreadySubscribed = errors.New("athlete is already subscribed to this coach")
	ErrNotSubscribed     = errors.New("athlete is not subscribed to this coach")
)

type Service struct {
	db     db.Querier
	logger *zap.Logger
}

func NewService(db db.Querier, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Subscribe links an athlete to a coach. Only regular athletes can subscribe, only to coaches.
func (s *Service) Subscribe(ctx context.Context, coachID string, req SubscribeRequest) error {
	if err := validate.Struct(req); err != nil {
		return ErrInvalidAthlete
	}
	if _, err := uuid.Parse(coachID); err != nil {
		return ErrInvalidCoach
	}

	isCoach, isAdmin, err := s.role(ctx, req.AthleteID)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && (isCoach || isAdmin)) {
		return ErrInvalidAthlete
	}
	if err != nil {
		return err
	}

	isCoach, isAdmin, err = s.role(ctx, coachID)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && (!isCoach || isAdmin)) {
		return ErrInvalidCoach
	}
	if err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx, `
		INSERT INTO subscriptions (coach_id, athlete_id)
		VALUES ($1,$2)
		ON CONFLICT (coach_id, athlete_id) DO NOTHING
	`, coachID, req.AthleteID)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadySubscribed
	}
	s.logger.Info("athlete subscribed", zap.String("coach_id", coachID), zap.String("athlete_id", req.AthleteID))
	return nil
}

// Rate stores an athlete's 1..5 rating of a coach they are subscribed to.
func (s *Service) Rate(ctx context.Context, coachID string, req RateRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	if _, err := uuid.Parse(coachID); err != nil {
		return ErrNotSubscribed
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE subscriptions SET rating=$3
		WHERE coach_id=$1 AND athlete_id=$2
	`, coachID, req.AthleteID, req.Rating)
	if err != nil {
		return fmt.Errorf("rate coach: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotSubscribed
	}
	return nil
}

func (s *Service) role(ctx context.Context, userID string) (isCoach, isAdmin bool, err error) {
	err = s.db.QueryRow(ctx, `SELECT is_coach, is_admin FROM users WHERE id=$1`, userID).Scan(&isCoach, &isAdmin)
	return isCoach, isAdmin, err
}

package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zzenku/project-run/internal/collectible"
	"github.com/zzenku/project-run/internal/db"
	"github.com/zzenku/project-run/internal/shared/paging"
	"github.com/zzenku/project-run/internal/shared/validate"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("user not found")

const selectUsers = `
	SELECT u.id, u.date_joined, u.username, u.last_name, u.first_name, u.is_coach,
	       (SELECT COUNT(*) FROM runs r WHERE r.athlete_id = u.id AND r.status = 'finished')
	FROM users u`

var orderings = map[string]string{"date_joined": "u.date_joined"}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type Service struct {
	db    db.Querier
	items *collectible.Service
}

func NewService(db db.Querier, items *collectible.Service) *Service {
	return &Service{db: db, items: items}
}

// List returns non-admin users. Without page every match is returned.
func (s *Service) List(ctx context.Context, f Filter, page *paging.Params) ([]User, int, error) {
	order, err := paging.Order(f.Ordering, orderings, "u.date_joined ASC")
	if err != nil {
		return nil, 0, err
	}

	conds := []string{"NOT u.is_admin"}
	var args []any
	switch f.Type {
	case TypeCoach:
		conds = append(conds, "u.is_coach")
	case TypeAthlete:
		conds = append(conds, "NOT u.is_coach")
	}
	// every whitespace-separated term must match one of the name fields
	for _, term := range strings.Fields(f.Search) {
		args = append(args, "%"+likeEscaper.Replace(term)+"%")
		conds = append(conds, fmt.Sprintf("(u.first_name ILIKE $%d OR u.last_name ILIKE $%d)", len(args), len(args)))
	}
	where := " WHERE " + strings.Join(conds, " AND ")

	total := -1
	query := selectUsers + where + " ORDER BY " + order + ", u.id"
	if page != nil {
		if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM users u`+where, args...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("count users: %w", err)
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

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if total < 0 {
		total = len(users)
	}
	return users, total, nil
}

// Get returns a CoachDetail or an AthleteDetail depending on the user's type.
func (s *Service) Get(ctx context.Context, id string) (any, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	u, err := scanUser(s.db.QueryRow(ctx, selectUsers+` WHERE u.id=$1 AND NOT u.is_admin`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if u.Type == TypeCoach {
		return s.coachDetail(ctx, u)
	}
	return s.athleteDetail(ctx, u)
}

func (s *Service) coachDetail(ctx context.Context, u User) (CoachDetail, error) {
	rows, err := s.db.Query(ctx, `
		SELECT athlete_id FROM subscriptions
		WHERE coach_id=$1
		ORDER BY created_at, id
	`, u.ID)
	if err != nil {
		return CoachDetail{}, err
	}
	defer rows.Close()

	detail := CoachDetail{User: u, Athletes: []string{}}
	for rows.Next() {
		var athleteID string
		if err := rows.Scan(&athleteID); err != nil {
			return CoachDetail{}, err
		}
		detail.Athletes = append(detail.Athletes, athleteID)
	}
	if err := rows.Err(); err != nil {
		return CoachDetail{}, err
	}

	err = s.db.QueryRow(ctx, `
		SELECT COALESCE(AVG(rating), 0)::float8
		FROM subscriptions
		WHERE coach_id=$1 AND rating IS NOT NULL
	`, u.ID).Scan(&detail.Rating)
	if err != nil {
		return CoachDetail{}, fmt.Errorf("coach rating: %w", err)
	}
	return detail, nil
}

func (s *Service) athleteDetail(ctx context.Context, u User) (AthleteDetail, error) {
	detail := AthleteDetail{User: u}

	var coachID string
	err := s.db.QueryRow(ctx, `
		SELECT coach_id FROM subscriptions
		WHERE athlete_id=$1
		ORDER BY created_at, id
		LIMIT 1
	`, u.ID).Scan(&coachID)
	switch {
	case err == nil:
		detail.Coach = &coachID
	case !errors.Is(err, pgx.ErrNoRows):
		return AthleteDetail{}, fmt.Errorf("athlete coach: %w", err)
	}

	items, err := s.items.ForAthlete(ctx, u.ID)
	if err != nil {
		return AthleteDetail{}, err
	}
	detail.Items = items
	return detail, nil
}

// AthleteInfo returns the stored info of a user, creating an empty record on first access.
func (s *Service) AthleteInfo(ctx context.Context, userID string) (AthleteInfo, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return AthleteInfo{}, ErrNotFound
	}
	info := AthleteInfo{UserID: userID}
	err := s.db.QueryRow(ctx, `
		INSERT INTO athlete_infos (user_id, weight, goals)
		VALUES ($1, 0, '')
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING weight, goals
	`, userID).Scan(&info.Weight, &info.Goals)
	if db.IsForeignKeyViolation(err) {
		return AthleteInfo{}, ErrNotFound
	}
	if err != nil {
		return AthleteInfo{}, fmt.Errorf("athlete info: %w", err)
	}
	return info, nil
}

func (s *Service) PutAthleteInfo(ctx context.Context, userID string, req AthleteInfoRequest) (AthleteInfo, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return AthleteInfo{}, ErrNotFound
	}
	if err := validate.Struct(req); err != nil {
		return AthleteInfo{}, err
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO athlete_infos (user_id, weight, goals)
		VALUES ($1,$2,$3)
		ON CONFLICT (user_id) DO UPDATE SET weight=EXCLUDED.weight, goals=EXCLUDED.goals
	`, userID, req.Weight, req.Goals)
	if db.IsForeignKeyViolation(err) {
		return AthleteInfo{}, ErrNotFound
	}
	if err != nil {
		return AthleteInfo{}, fmt.Errorf("save athlete info: %w", err)
	}
	return AthleteInfo{UserID: userID, Weight: req.Weight, Goals: req.Goals}, nil
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	var isCoach bool
	if err := row.Scan(&u.ID, &u.DateJoined, &u.Username, &u.LastName, &u.FirstName, &isCoach, &u.RunsFinished); err != nil {
		return User{}, err
	}
	u.Type = TypeAthlete
	if isCoach {
		u.Type = TypeCoach
	}
	return u, nil
}

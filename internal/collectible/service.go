package collectible

import (
	"context"
	"fmt"

	"github.com/zzenku/project-run/internal/db"
	"github.com/zzenku/project-run/internal/metrics"
	"github.com/zzenku/project-run/internal/shared/geo"

	"go.uber.org/zap"
)

// PickupRadiusM is how close a position must be to an item to collect it.
const PickupRadiusM = 100.0

type Service struct {
	db     db.Querier
	logger *zap.Logger
}

func NewService(db db.Querier, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]Item, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, uid, value, latitude, longitude, picture
		FROM collectible_items
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanItems(rows)
}

// ForAthlete returns the items an athlete has collected.
func (s *Service) ForAthlete(ctx context.Context, athleteID string) ([]Item, error) {
	rows, err := s.db.Query(ctx, `
		SELECT i.id, i.name, i.uid, i.value, i.latitude, i.longitude, i.picture
		FROM athlete_items ai
		JOIN collectible_items i ON i.id = ai.item_id
		WHERE ai.athlete_id=$1
		ORDER BY ai.collected_at, i.id
	`, athleteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanItems(rows)
}

// Import upserts items by uid.
func (s *Service) Import(ctx context.Context, items []ItemInput) error {
	for _, item := range items {
		_, err := s.db.Exec(ctx, `
			INSERT INTO collectible_items (name, uid, value, latitude, longitude, picture)
			VALUES ($1,$2,$3,$4,$5,$6)
			ON CONFLICT (uid) DO UPDATE
			SET name=EXCLUDED.name, value=EXCLUDED.value, latitude=EXCLUDED.latitude,
			    longitude=EXCLUDED.longitude, picture=EXCLUDED.picture
		`, item.Name, item.UID, item.Value, item.Latitude, item.Longitude, item.Picture)
		if err != nil {
			return fmt.Errorf("import item %q: %w", item.UID, err)
		}
	}
	return nil
}

// CollectNear adds every item within PickupRadiusM of p to the athlete's collection
// and returns the ones that were not collected before.
func (s *Service) CollectNear(ctx context.Context, q db.Querier, athleteID string, p geo.Point) ([]Item, error) {
	rows, err := q.Query(ctx, `
		SELECT id, name, uid, value, latitude, longitude, picture
		FROM collectible_items
	`)
	if err != nil {
		return nil, err
	}
	items, err := scanItems(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	collected := []Item{}
	for _, item := range items {
		if !geo.Within(p, geo.Point{Lat: item.Latitude, Lng: item.Longitude}, PickupRadiusM) {
			continue
		}
		tag, err := q.Exec(ctx, `
			INSERT INTO athlete_items (athlete_id, item_id)
			VALUES ($1,$2)
			ON CONFLICT (athlete_id, item_id) DO NOTHING
		`, athleteID, item.ID)
		if err != nil {
			return nil, fmt.Errorf("collect item %d: %w", item.ID, err)
		}
		if tag.RowsAffected() == 0 {
			continue
		}
		metrics.ItemsCollected.Inc()
		s.logger.Info("item collected", zap.String("athlete_id", athleteID), zap.String("uid", item.UID))
		collected = append(collected, item)
	}
	return collected, nil
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanItems(rows rowScanner) ([]Item, error) {
	items := []Item{}
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.Name, &item.UID, &item.Value, &item.Latitude, &item.Longitude, &item.Picture); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

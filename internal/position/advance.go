package position

import (
	"time"

	"github.com/zzenku/project-run/internal/shared/geo"
	"github.com/zzenku/project-run/internal/shared/units"
)

// Advance returns the cumulative distance in km and the speed in m/s of a point
// recorded at `at`, given the run's latest stored position (nil for the first one).
// A point with no elapsed time or no movement keeps the previous speed.
func Advance(prev *Position, next geo.Point, at time.Time) (distanceKm, speed float64) {
	if prev == nil {
		return 0, 0
	}

	stepM := geo.DistanceM(geo.Point{Lat: prev.Latitude, Lng: prev.Longitude}, next)
	cumulativeM := prev.Distance*1000 + stepM
	elapsed := at.Sub(prev.DateTime).Seconds()

	speed = prev.Speed
	if elapsed > 0 && stepM > 0 {
		speed = stepM / elapsed
	}
	if cumulativeM == 0 {
		speed = 0
	}
	return units.RoundDistance(cumulativeM / 1000), units.RoundSpeed(speed)
}

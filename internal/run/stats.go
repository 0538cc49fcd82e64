package run

import (
	"github.com/zzenku/project-run/internal/shared/geo"
	"github.com/zzenku/project-run/internal/shared/units"
)

// Summarize computes run totals from positions ordered by time.
// Time and speed stay zero unless there are two positions spanning a positive interval.
func Summarize(samples []Sample) Totals {
	path := make([]geo.Point, len(samples))
	for i, s := range samples {
		path[i] = geo.Point{Lat: s.Latitude, Lng: s.Longitude}
	}
	totals := Totals{DistanceKm: units.RoundDistance(geo.PathKm(path))}

	if len(samples) < 2 {
		return totals
	}
	elapsed := samples[len(samples)-1].DateTime.Sub(samples[0].DateTime).Seconds()
	if elapsed <= 0 {
		return totals
	}

	sum := 0.0
	for _, s := range samples {
		sum += s.Speed
	}
	totals.RunTimeSeconds = int(elapsed)
	totals.Speed = units.RoundAverageSpeed(sum / float64(len(samples)))
	return totals
}

// Package units rounds stored run measurements the way they are persisted:
// distances in kilometres to 4 places, speeds in m/s to 2 places. Per-position values
// round halves away from zero; a run's average speed rounds halves to even.
package units

import "github.com/shopspring/decimal"

const (
	distancePlaces = 4
	speedPlaces    = 2
)

func RoundDistance(km float64) float64 {
	return round(km, distancePlaces)
}

func RoundSpeed(mps float64) float64 {
	return round(mps, speedPlaces)
}

// RoundAverageSpeed rounds a run's mean speed to 2 places, halves to even.
func RoundAverageSpeed(mps float64) float64 {
	return decimal.NewFromFloat(mps).RoundBank(speedPlaces).InexactFloat64()
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

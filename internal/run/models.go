package run

import "time"

const (
	StatusInit       = "init"
	StatusInProgress = "in_progress"
	StatusFinished   = "finished"
)

type AthleteData struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	LastName  string `json:"last_name"`
	FirstName string `json:"first_name"`
}

type Run struct {
	ID             string      `json:"id"`
	AthleteID      string      `json:"athlete"`
	AthleteData    AthleteData `json:"athlete_data"`
	Comment        string      `json:"comment"`
	Status         string      `json:"status"`
	Distance       float64     `json:"distance"`
	RunTimeSeconds int         `json:"run_time_seconds"`
	Speed          float64     `json:"speed"`
	CreatedAt      time.Time   `json:"created_at"`
}

type CreateRequest struct {
	AthleteID string `json:"athlete" validate:"required,uuid"`
	Comment   string `json:"comment" validate:"max=2000"`
}

type UpdateRequest struct {
	Comment string `json:"comment" validate:"max=2000"`
}

type Filter struct {
	Status    string `validate:"omitempty,oneof=init in_progress finished"`
	AthleteID string `validate:"omitempty,uuid"`
	Ordering  string
}

// Sample is the part of a stored position needed to finish a run.
type Sample struct {
	Latitude  float64
	Longitude float64
	DateTime  time.Time
	Speed     float64
}

// Totals are the aggregates written to a run when it finishes.
type Totals struct {
	DistanceKm     float64
	RunTimeSeconds int
	Speed          float64
}

package users

import (
	"time"

	"github.com/zzenku/project-run/internal/collectible"
)

const (
	TypeCoach   = "coach"
	TypeAthlete = "athlete"
)

type User struct {
	ID           string    `json:"id"`
	DateJoined   time.Time `json:"date_joined"`
	Username     string    `json:"username"`
	LastName     string    `json:"last_name"`
	FirstName    string    `json:"first_name"`
	Type         string    `json:"type"`
	RunsFinished int       `json:"runs_finished"`
}

type AthleteDetail struct {
	User
	Coach *string            `json:"coach"`
	Items []collectible.Item `json:"items"`
}

type CoachDetail struct {
	User
	Athletes []string `json:"athletes"`
	Rating   float64  `json:"rating"`
}

type Filter struct {
	Type     string
	Search   string
	Ordering string
}

type AthleteInfo struct {
	UserID string `json:"user_id"`
	Weight int    `json:"weight"`
	Goals  string `json:"goals"`
}

type AthleteInfoRequest struct {
	Weight int    `json:"weight" validate:"gt=0,lt=900"`
	Goals  string `json:"goals" validate:"max=2000"`
}

package position

import "time"

type Position struct {
	ID        int64     `json:"id"`
	RunID     string    `json:"run"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	DateTime  time.Time `json:"date_time"`
	Speed     float64   `json:"speed"`
	Distance  float64   `json:"distance"`
}

type CreateRequest struct {
	RunID     string     `json:"run" validate:"required,uuid"`
	Latitude  *float64   `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64   `json:"longitude" validate:"required,gte=-180,lte=180"`
	DateTime  *time.Time `json:"date_time"`
}

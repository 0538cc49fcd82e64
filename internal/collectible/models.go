package collectible

type Item struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	UID       string  `json:"uid"`
	Value     int     `json:"value"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Picture   string  `json:"picture"`
}

// ItemInput is one spreadsheet row after parsing.
type ItemInput struct {
	Name      string  `json:"name" validate:"required,max=255"`
	UID       string  `json:"uid" validate:"required,max=255"`
	Value     int     `json:"value" validate:"gte=0"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Picture   string  `json:"picture" validate:"required,url"`
}

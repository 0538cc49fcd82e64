package subscription

type SubscribeRequest struct {
	AthleteID string `json:"athlete" validate:"required,uuid"`
}

type RateRequest struct {
	AthleteID string `json:"athlete" validate:"required,uuid"`
	Rating    int    `json:"rating" validate:"gte=1,lte=5"`
}

package analytics

// CoachAnalytics names the best of a coach's athletes per metric. Fields are null
// when no subscribed athlete has finished a run.
type CoachAnalytics struct {
	LongestRunUser  *string  `json:"longest_run_user"`
	LongestRunValue *float64 `json:"longest_run_value"`
	TotalRunUser    *string  `json:"total_run_user"`
	TotalRunValue   *float64 `json:"total_run_value"`
	SpeedAvgUser    *string  `json:"speed_avg_user"`
	SpeedAvgValue   *float64 `json:"speed_avg_value"`
}

// AthleteTotals aggregates one athlete's finished runs.
type AthleteTotals struct {
	AthleteID  string
	LongestKm  float64
	TotalKm    float64
	AvgSpeedMS float64
}

package challenge

const (
	RunTenTimes       = "Run 10 times!"
	RunFiftyKm        = "Run 50 kilometers!"
	TwoKmInTenMinutes = "2 kilometers in 10 minutes!"
)

// Badges lists every badge name in display order.
var Badges = []string{RunTenTimes, RunFiftyKm, TwoKmInTenMinutes}

type Challenge struct {
	ID        int64  `json:"id"`
	FullName  string `json:"full_name"`
	AthleteID string `json:"athlete"`
}

// Stats describes an athlete's history right after a run was finished.
// FinishedRuns and TotalDistanceKm include the run itself.
type Stats struct {
	FinishedRuns    int64
	TotalDistanceKm float64
	RunPositions    int
	RunTimeSeconds  int
	RunDistanceKm   float64
}

type Athlete struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Username string `json:"username"`
}

type Summary struct {
	NameToDisplay string    `json:"name_to_display"`
	Athletes      []Athlete `json:"athletes"`
}

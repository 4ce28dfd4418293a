package model

import "time"

// SeasonQuery filters stored match-days for reporting.
type SeasonQuery struct {
	ClubID      string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// MatchDaySummary is a stored match-day row used by season reports.
type MatchDaySummary struct {
	ID            string
	ClubID        string
	MatchDay      int
	PlayedAt      time.Time
	Opponent      string
	Home          bool
	GoalsFor      int
	GoalsAgainst  int
	PossessionFor float64
	XGFor         float64
	XGAgainst     float64
	MVP           string
	Seed          string
	FinanceNet    string
}

// Points returns league points earned in the match.
func (m MatchDaySummary) Points() int {
	switch {
	case m.GoalsFor > m.GoalsAgainst:
		return 3
	case m.GoalsFor == m.GoalsAgainst:
		return 1
	default:
		return 0
	}
}

// PlayerAggregate sums stored per-player match lines.
type PlayerAggregate struct {
	PlayerID  string
	Name      string
	Position  string
	Apps      int
	Minutes   int
	Goals     int
	Assists   int
	RatingSum float64
	MVPs      int
}

// AverageRating returns the mean match rating.
func (p PlayerAggregate) AverageRating() float64 {
	if p.Apps == 0 {
		return 0
	}
	return p.RatingSum / float64(p.Apps)
}

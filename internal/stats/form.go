package stats

import (
	"strings"

	"github.com/verte-zerg/touchline/internal/model"
)

// FormGuide returns the last n results, oldest first, as W/D/L letters.
func FormGuide(days []model.MatchDaySummary, n int) string {
	if n <= 0 || len(days) == 0 {
		return ""
	}
	if len(days) > n {
		days = days[len(days)-n:]
	}
	var b strings.Builder
	for _, d := range days {
		b.WriteString(outcome(d))
	}
	return b.String()
}

// UnbeatenRun counts consecutive matches without a loss, ending at the latest.
func UnbeatenRun(days []model.MatchDaySummary) int {
	run := 0
	for i := len(days) - 1; i >= 0; i-- {
		if days[i].GoalsFor < days[i].GoalsAgainst {
			break
		}
		run++
	}
	return run
}

func outcome(d model.MatchDaySummary) string {
	switch d.Points() {
	case 3:
		return "W"
	case 1:
		return "D"
	default:
		return "L"
	}
}

// Package stats contains season calculations and text reports.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/touchline/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates stored match-days.
type Summary struct {
	Played        int
	Wins          int
	Draws         int
	Losses        int
	Points        int
	GoalsFor      int
	GoalsAgainst  int
	AvgPossession float64
	XGFor         float64
	XGAgainst     float64
	Form          string
}

// GoalDifference returns goals for minus goals against.
func (s Summary) GoalDifference() int {
	return s.GoalsFor - s.GoalsAgainst
}

// PointsPerGame returns the mean points per played match.
func (s Summary) PointsPerGame() float64 {
	if s.Played == 0 {
		return 0
	}
	return float64(s.Points) / float64(s.Played)
}

// Summarize folds match-days (in play order) into season totals.
func Summarize(days []model.MatchDaySummary) Summary {
	var s Summary
	var possession float64
	for _, d := range days {
		s.Played++
		switch d.Points() {
		case 3:
			s.Wins++
		case 1:
			s.Draws++
		default:
			s.Losses++
		}
		s.Points += d.Points()
		s.GoalsFor += d.GoalsFor
		s.GoalsAgainst += d.GoalsAgainst
		s.XGFor += d.XGFor
		s.XGAgainst += d.XGAgainst
		possession += d.PossessionFor
	}
	if s.Played > 0 {
		s.AvgPossession = possession / float64(s.Played)
	}
	s.Form = FormGuide(days, 5)
	return s
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(len(sparkChars)-1, idx))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints season totals.
func RenderSummary(w io.Writer, days []model.MatchDaySummary) error {
	if len(days) == 0 {
		_, err := fmt.Fprintln(w, "No match-days found.")
		return err
	}
	s := Summarize(days)
	lines := []string{
		"Season",
		fmt.Sprintf("Played: %d  W %d  D %d  L %d", s.Played, s.Wins, s.Draws, s.Losses),
		fmt.Sprintf("Points: %d (%.2f per game)", s.Points, s.PointsPerGame()),
		fmt.Sprintf("Goals: %d-%d (%+d)", s.GoalsFor, s.GoalsAgainst, s.GoalDifference()),
		fmt.Sprintf("xG: %.2f-%.2f", s.XGFor, s.XGAgainst),
		fmt.Sprintf("Avg possession: %.1f%%", s.AvgPossession),
		fmt.Sprintf("Form: %s", s.Form),
		fmt.Sprintf("Goal trend: %s", Sparkline(goalDiffs(days))),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints points-per-game and possession curves.
func RenderCurves(w io.Writer, days []model.MatchDaySummary, window int) error {
	return RenderCurvesWithSize(w, days, window, 0, defaultChartHeight, false)
}

// RenderCurvesWithSize prints the season curves sized to a given total width.
// Points per game are drawn on a 0-3 scale and possession on the 25-75 band a
// single match can produce.
func RenderCurvesWithSize(w io.Writer, days []model.MatchDaySummary, window, totalWidth, height int, useColor bool) error {
	if len(days) == 0 {
		return nil
	}
	points := make([]float64, len(days))
	possession := make([]float64, len(days))
	for i, d := range days {
		points[i] = float64(d.Points())
		possession[i] = d.PossessionFor
	}
	suffix := ""
	if window > 1 {
		suffix = fmt.Sprintf(" (%d-match average)", window)
	}

	width := 0
	if totalWidth > 0 {
		width = ChartWidthFor(totalWidth)
	}
	return RenderChart(w, "Season Curves", []Curve{
		{
			Name:   "Points/game" + suffix,
			Values: MovingAverage(points, window),
			Min:    0,
			Max:    3,
			Format: "%.1f",
			Color:  lipgloss.Color("#C89A3A"),
		},
		{
			Name:   "Possession %" + suffix,
			Values: MovingAverage(possession, window),
			Min:    25,
			Max:    75,
			Format: "%.0f",
			Color:  lipgloss.Color("#5FAF5F"),
		},
	}, width, height, useColor)
}

// RenderSquadTable prints per-player season aggregates.
func RenderSquadTable(w io.Writer, aggs []model.PlayerAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No player stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Squad"); err != nil {
		return err
	}
	headers, rows := SquadRows(aggs)
	rightAlign := map[int]bool{2: true, 3: true, 4: true, 5: true, 6: true, 7: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// SquadRows formats player aggregates as table cells.
func SquadRows(aggs []model.PlayerAggregate) ([]string, [][]string) {
	headers := []string{"Player", "Pos", "Apps", "Min", "Goals", "Assists", "Avg Rating", "MVP"}
	rows := make([][]string, 0, len(aggs))
	for _, a := range aggs {
		rows = append(rows, []string{
			a.Name,
			a.Position,
			fmt.Sprintf("%d", a.Apps),
			fmt.Sprintf("%d", a.Minutes),
			fmt.Sprintf("%d", a.Goals),
			fmt.Sprintf("%d", a.Assists),
			fmt.Sprintf("%.2f", a.AverageRating()),
			fmt.Sprintf("%d", a.MVPs),
		})
	}
	return headers, rows
}

// RenderResults prints one line per match-day.
func RenderResults(w io.Writer, days []model.MatchDaySummary) error {
	if len(days) == 0 {
		_, err := fmt.Fprintln(w, "No match-days found.")
		return err
	}
	headers := []string{"Day", "Opponent", "H/A", "Score", "Res", "Poss", "xG", "MVP"}
	rows := make([][]string, 0, len(days))
	for _, d := range days {
		venue := "A"
		if d.Home {
			venue = "H"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", d.MatchDay),
			d.Opponent,
			venue,
			fmt.Sprintf("%d-%d", d.GoalsFor, d.GoalsAgainst),
			outcome(d),
			fmt.Sprintf("%.1f", d.PossessionFor),
			fmt.Sprintf("%.2f-%.2f", d.XGFor, d.XGAgainst),
			d.MVP,
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{0: true, 5: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func goalDiffs(days []model.MatchDaySummary) []float64 {
	out := make([]float64, len(days))
	for i, d := range days {
		out[i] = float64(d.GoalsFor - d.GoalsAgainst)
	}
	return out
}

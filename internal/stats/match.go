package stats

import (
	"fmt"
	"io"

	"github.com/verte-zerg/touchline/internal/model"
)

// RenderMatch prints a finished match: score, team statistics, player lines
// and the narrative.
func RenderMatch(w io.Writer, clubName string, res model.MatchResult) error {
	venue := "away"
	if res.Home {
		venue = "home"
	}
	header := []string{
		fmt.Sprintf("%s %d-%d %s (%s)", clubName, res.GoalsFor, res.GoalsAgainst, res.Opponent, venue),
		fmt.Sprintf("Formation %s  Seed %s  Subs used %d", res.Formation, res.Seed, res.SubstitutionsUsed),
		"",
	}
	for _, line := range header {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	st := res.Statistics
	headers := []string{"", clubName, res.Opponent}
	rows := [][]string{
		{"Possession", fmt.Sprintf("%.1f%%", st.Possession.For), fmt.Sprintf("%.1f%%", st.Possession.Against)},
		{"Shots", intCell(st.Shots.For), intCell(st.Shots.Against)},
		{"On target", intCell(st.ShotsOnTarget.For), intCell(st.ShotsOnTarget.Against)},
		{"xG", fmt.Sprintf("%.2f", st.ExpectedGoals.For), fmt.Sprintf("%.2f", st.ExpectedGoals.Against)},
		{"Passes", fmt.Sprintf("%d/%d", st.PassesCompleted.For, st.PassesAttempted.For), fmt.Sprintf("%d/%d", st.PassesCompleted.Against, st.PassesAttempted.Against)},
		{"Fouls", intCell(st.Fouls.For), intCell(st.Fouls.Against)},
		{"Yellow cards", intCell(st.YellowCards.For), intCell(st.YellowCards.Against)},
		{"Red cards", intCell(st.RedCards.For), intCell(st.RedCards.Against)},
		{"Saves", intCell(st.Saves.For), intCell(st.Saves.Against)},
		{"Injuries", intCell(st.Injuries.For), intCell(st.Injuries.Against)},
	}
	if err := writeTable(w, headers, rows, map[int]bool{1: true, 2: true}); err != nil {
		return err
	}

	playerHeaders := []string{"Player", "Pos", "Min", "G", "A", "Shots", "Passes", "Rating", ""}
	playerRows := make([][]string, 0, len(res.Contributions))
	for _, c := range res.Contributions {
		if c.Minutes == 0 {
			continue
		}
		flag := ""
		switch {
		case c.PlayerID == res.MVP:
			flag = "MVP"
		case c.SentOff:
			flag = "sent off"
		case c.Injury != "":
			flag = c.Injury + " injury"
		}
		playerRows = append(playerRows, []string{
			c.Name,
			string(c.Position),
			intCell(c.Minutes),
			intCell(c.Goals),
			intCell(c.Assists),
			fmt.Sprintf("%d/%d", c.ShotsOnTarget, c.Shots),
			fmt.Sprintf("%d/%d", c.PassesCompleted, c.PassesAttempted),
			fmt.Sprintf("%.2f", c.Rating),
			flag,
		})
	}
	if err := writeTable(w, playerHeaders, playerRows, map[int]bool{2: true, 3: true, 4: true, 5: true, 6: true, 7: true}); err != nil {
		return err
	}

	for _, line := range res.Narrative {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderFinance prints a finance breakdown.
func RenderFinance(w io.Writer, fin model.FinanceReport) error {
	rows := make([][]string, 0, len(fin.IncomeBreakdown)+len(fin.ExpenseBreakdown)+1)
	for _, item := range fin.IncomeBreakdown {
		rows = append(rows, []string{item.Label, "+" + item.Amount.StringFixed(2)})
	}
	for _, item := range fin.ExpenseBreakdown {
		rows = append(rows, []string{item.Label, "-" + item.Amount.StringFixed(2)})
	}
	rows = append(rows, []string{"Net", fin.Net.StringFixed(2)})
	if _, err := fmt.Fprintf(w, "Finance (attendance %d)\n", fin.Attendance); err != nil {
		return err
	}
	if err := writeTable(w, []string{"Item", "Amount"}, rows, map[int]bool{1: true}); err != nil {
		return err
	}
	for _, note := range fin.Notes {
		if _, err := fmt.Fprintf(w, "- %s\n", note); err != nil {
			return err
		}
	}
	if fin.StaffImpact != nil {
		for _, note := range fin.StaffImpact.Notes {
			if _, err := fmt.Fprintf(w, "- %s\n", note); err != nil {
				return err
			}
		}
	}
	return nil
}

// RenderMatchDay prints a full match-day report.
func RenderMatchDay(w io.Writer, report model.MatchDayReport) error {
	if _, err := fmt.Fprintf(w, "Match-day %d\n", report.MatchDay); err != nil {
		return err
	}
	if err := RenderMatch(w, report.Club.Name, report.Result); err != nil {
		return err
	}
	if d := report.DecisionOutcome; d != nil {
		status := "failed"
		if d.Success {
			status = "succeeded"
		}
		if _, err := fmt.Fprintf(w, "Decision %s %s (%s risk): %s\n", d.DecisionID, status, d.RiskLevel, d.Narrative); err != nil {
			return err
		}
		if d.Sanctions != "" {
			if _, err := fmt.Fprintf(w, "Sanctions: %s\n", d.Sanctions); err != nil {
				return err
			}
		}
	}
	if err := RenderFinance(w, report.Finance); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Budget: %s (%s)\n", report.Club.Budget.StringFixed(2), signed(report.FinanceDelta.StringFixed(2)))
	return err
}

func writeTable(w io.Writer, headers []string, rows [][]string, rightAlign map[int]bool) error {
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func intCell(v int) string {
	return fmt.Sprintf("%d", v)
}

func signed(s string) string {
	if len(s) > 0 && s[0] != '-' {
		return "+" + s
	}
	return s
}

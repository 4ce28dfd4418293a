package stats

import (
	"fmt"
	"io"

	"github.com/verte-zerg/touchline/internal/model"
)

// RenderRoster prints the current squad with condition and availability.
func RenderRoster(w io.Writer, players []model.Player) error {
	if len(players) == 0 {
		_, err := fmt.Fprintln(w, "No players match.")
		return err
	}
	headers := []string{"ID", "Player", "Pos", "Age", "Fitness", "Morale", "Apps", "Goals", "Status"}
	rows := make([][]string, 0, len(players))
	for _, p := range players {
		rows = append(rows, []string{
			p.ID,
			p.Name,
			string(p.Position),
			intCell(p.Age),
			fmt.Sprintf("%.0f", p.Fitness),
			fmt.Sprintf("%.0f", p.Morale),
			intCell(p.Season.Matches),
			intCell(p.Season.Goals),
			availability(p.Availability),
		})
	}
	return writeTable(w, headers, rows, map[int]bool{3: true, 4: true, 5: true, 6: true, 7: true})
}

func availability(a model.Availability) string {
	switch {
	case a.InjuryMatches > 0 && a.SuspensionMatches > 0:
		return fmt.Sprintf("injured %d, banned %d", a.InjuryMatches, a.SuspensionMatches)
	case a.InjuryMatches > 0:
		return fmt.Sprintf("injured %d", a.InjuryMatches)
	case a.SuspensionMatches > 0:
		return fmt.Sprintf("banned %d", a.SuspensionMatches)
	default:
		return "fit"
	}
}

// RenderClubs prints stored clubs.
func RenderClubs(w io.Writer, clubs []model.ClubSummary) error {
	if len(clubs) == 0 {
		_, err := fmt.Fprintln(w, "No clubs found. Create one with: touchline init")
		return err
	}
	rows := make([][]string, 0, len(clubs))
	for _, c := range clubs {
		rows = append(rows, []string{c.ID, c.Name, intCell(c.MatchDay), c.UpdatedAt.Local().Format("2006-01-02 15:04")})
	}
	return writeTable(w, []string{"ID", "Club", "Match-day", "Updated"}, rows, map[int]bool{2: true})
}

package roster

import (
	"strings"

	"github.com/verte-zerg/touchline/internal/model"
)

// FilterFunc returns true when a player should be kept.
type FilterFunc func(model.Player) bool

// ParsePosition accepts short or long position names in any case.
func ParsePosition(s string) (model.Position, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gk", "goalkeeper", "keeper":
		return model.Goalkeeper, true
	case "def", "defender", "d":
		return model.Defender, true
	case "mid", "midfielder", "m":
		return model.Midfielder, true
	case "fwd", "forward", "striker", "f":
		return model.Forward, true
	default:
		return "", false
	}
}

// ByPosition keeps players in the given position.
func ByPosition(pos model.Position) FilterFunc {
	return func(p model.Player) bool { return p.Position == pos }
}

// Available keeps players free of injury and suspension.
func Available(p model.Player) bool {
	return p.Availability.Eligible()
}

// Filter returns the players accepted by every filter.
func Filter(players []model.Player, filters ...FilterFunc) []model.Player {
	var out []model.Player
	for _, p := range players {
		keep := true
		for _, f := range filters {
			if !f(p) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, p)
		}
	}
	return out
}

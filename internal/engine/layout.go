package engine

import (
	"strconv"
	"strings"
)

// Pitch dimensions used by Layout.
const (
	PitchLength = 100.0
	PitchWidth  = 64.0
)

// Slot is a position on the pitch, X along the length from our goal.
type Slot struct {
	X float64
	Y float64
}

// Layout converts a formation string into lines of slots, goalkeeper line
// first. Unparseable formations, or ones that do not add up to ten outfield
// players, fall back to 4-4-2.
func Layout(formation string) [][]Slot {
	lines, ok := parseFormation(formation)
	if !ok {
		lines, _ = parseFormation(defaultFormation)
	}
	out := make([][]Slot, 0, len(lines)+1)
	out = append(out, []Slot{{X: 5, Y: PitchWidth / 2}})
	step := (PitchLength*0.8 - 20) / float64(max(1, len(lines)-1))
	for i, n := range lines {
		x := 20 + step*float64(i)
		if len(lines) == 1 {
			x = PitchLength / 2
		}
		row := make([]Slot, n)
		for j := range row {
			row[j] = Slot{X: x, Y: PitchWidth * float64(j+1) / float64(n+1)}
		}
		out = append(out, row)
	}
	return out
}

func parseFormation(formation string) ([]int, bool) {
	parts := strings.Split(strings.TrimSpace(formation), "-")
	lines := make([]int, 0, len(parts))
	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n <= 0 {
			return nil, false
		}
		lines = append(lines, n)
		total += n
	}
	if total != fullSide-1 {
		return nil, false
	}
	return lines, true
}

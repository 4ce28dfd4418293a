package engine

import "testing"

func lineSizes(lines [][]Slot) []int {
	out := make([]int, len(lines))
	for i, l := range lines {
		out[i] = len(l)
	}
	return out
}

func TestLayout(t *testing.T) {
	cases := map[string][]int{
		"4-3-3":   {1, 4, 3, 3},
		"4-2-3-1": {1, 4, 2, 3, 1},
		"bogus":   {1, 4, 4, 2},
		"4-4-3":   {1, 4, 4, 2},
	}
	for formation, want := range cases {
		got := lineSizes(Layout(formation))
		if len(got) != len(want) {
			t.Fatalf("%s: expected %v, got %v", formation, want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("%s: expected %v, got %v", formation, want, got)
			}
		}
	}
}

func TestLayoutWithinPitch(t *testing.T) {
	lines := Layout("3-5-2")
	prevX := -1.0
	for _, line := range lines {
		for _, s := range line {
			if s.X < 0 || s.X > PitchLength || s.Y <= 0 || s.Y >= PitchWidth {
				t.Fatalf("slot outside the pitch: %+v", s)
			}
		}
		if line[0].X <= prevX {
			t.Fatalf("lines should advance up the pitch")
		}
		prevX = line[0].X
	}
}

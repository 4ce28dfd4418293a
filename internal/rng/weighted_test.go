package rng

import "testing"

func TestSelectWeightedRespectsWeights(t *testing.T) {
	items := []string{"a", "b", "c"}
	weights := map[string]float64{"a": 1, "b": 0, "c": 3}
	weight := func(s string) float64 { return weights[s] }

	cases := []struct {
		draw float64
		want string
	}{
		{0.0, "a"},
		{0.24, "a"},
		{0.26, "c"},
		{0.99, "c"},
	}
	for _, tc := range cases {
		got, ok := SelectWeighted(items, weight, Func(func() float64 { return tc.draw }))
		if !ok {
			t.Fatalf("expected selection for draw %v", tc.draw)
		}
		if got != tc.want {
			t.Fatalf("draw %v: expected %s, got %s", tc.draw, tc.want, got)
		}
	}
}

func TestSelectWeightedEmpty(t *testing.T) {
	calls := 0
	src := Func(func() float64 { calls++; return 0.5 })
	if _, ok := SelectWeighted([]int{}, func(int) float64 { return 1 }, src); ok {
		t.Fatalf("expected no selection from empty slice")
	}
	if calls != 0 {
		t.Fatalf("expected no draws for empty slice, got %d", calls)
	}
}

func TestSelectWeightedAllZeroIsUniform(t *testing.T) {
	items := []int{10, 20, 30, 40}
	got, ok := SelectWeighted(items, func(int) float64 { return 0 }, Func(func() float64 { return 0.6 }))
	if !ok || got != 30 {
		t.Fatalf("expected uniform fallback to pick 30, got %d", got)
	}
}

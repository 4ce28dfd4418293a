package rng

// SelectWeighted picks one candidate with probability proportional to its
// weight. Non-positive weights are never chosen unless every weight is
// non-positive, in which case the pick is uniform. It consumes exactly one
// draw for a non-empty slice and none for an empty one.
func SelectWeighted[T any](candidates []T, weight func(T) float64, src Source) (T, bool) {
	var zero T
	if len(candidates) == 0 {
		return zero, false
	}
	weights := make([]float64, len(candidates))
	total := 0.0
	for i, c := range candidates {
		w := weight(c)
		if w < 0 {
			w = 0
		}
		weights[i] = w
		total += w
	}
	r := src.Float64()
	if total <= 0 {
		return candidates[Intn(Func(func() float64 { return r }), len(candidates))], true
	}
	target := r * total
	acc := 0.0
	for i, w := range weights {
		if w == 0 {
			continue
		}
		acc += w
		if target < acc {
			return candidates[i], true
		}
	}
	for i := len(candidates) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return candidates[i], true
		}
	}
	return candidates[len(candidates)-1], true
}

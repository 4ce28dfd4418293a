// Package forecast estimates match outcomes by running many independent
// seeded simulations.
package forecast

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/touchline/internal/engine"
	"github.com/verte-zerg/touchline/internal/model"
	"github.com/verte-zerg/touchline/internal/rng"
)

const (
	// DefaultRuns is used when runs is not positive.
	DefaultRuns = 200
	// MaxRuns caps a single forecast.
	MaxRuns = 20000
)

// Scoreline is a final score and how often it came up.
type Scoreline struct {
	GoalsFor     int     `json:"goalsFor"`
	GoalsAgainst int     `json:"goalsAgainst"`
	Count        int     `json:"count"`
	Share        float64 `json:"share"`
}

// String formats the score as "2-1".
func (s Scoreline) String() string {
	return fmt.Sprintf("%d-%d", s.GoalsFor, s.GoalsAgainst)
}

// Result summarises a forecast.
type Result struct {
	Seed            string      `json:"seed"`
	Runs            int         `json:"runs"`
	Wins            int         `json:"wins"`
	Draws           int         `json:"draws"`
	Losses          int         `json:"losses"`
	WinProb         float64     `json:"winProb"`
	DrawProb        float64     `json:"drawProb"`
	LossProb        float64     `json:"lossProb"`
	AvgGoalsFor     float64     `json:"avgGoalsFor"`
	AvgGoalsAgainst float64     `json:"avgGoalsAgainst"`
	AvgPossession   float64     `json:"avgPossession"`
	AvgXGFor        float64     `json:"avgXgFor"`
	AvgXGAgainst    float64     `json:"avgXgAgainst"`
	Scorelines      []Scoreline `json:"scorelines"`
}

// MostLikely returns the most frequent scoreline.
func (r Result) MostLikely() Scoreline {
	if len(r.Scorelines) == 0 {
		return Scoreline{}
	}
	return r.Scorelines[0]
}

// RunSeed is the seed of the i-th simulation of a forecast.
func RunSeed(base string, i int) string {
	return fmt.Sprintf("%s#%d", base, i)
}

type sample struct {
	goalsFor     int
	goalsAgainst int
	possession   float64
	xgFor        float64
	xgAgainst    float64
}

// Run simulates the match runs times on up to workers goroutines. Each run
// owns its own RNG seeded from the base seed and the run index, so the result
// does not depend on scheduling.
func Run(ctx context.Context, club model.Club, cfg model.MatchConfig, runs, workers int) (Result, error) {
	if len(club.Squad) == 0 {
		return Result{}, engine.ErrEmptySquad
	}
	if runs <= 0 {
		runs = DefaultRuns
	}
	if runs > MaxRuns {
		return Result{}, fmt.Errorf("too many runs: %d (max %d)", runs, MaxRuns)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	base := rng.ResolveSeed(cfg.Seed)
	sim := engine.New(nil, nil, zerolog.Nop())

	samples := make([]sample, runs)
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < runs; i++ {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			res, err := sim.SimulateMatch(club, cfg, engine.Options{Seed: RunSeed(base, i)})
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			samples[i] = sample{
				goalsFor:     res.GoalsFor,
				goalsAgainst: res.GoalsAgainst,
				possession:   res.Statistics.Possession.For,
				xgFor:        res.Statistics.ExpectedGoals.For,
				xgAgainst:    res.Statistics.ExpectedGoals.Against,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("failed to run forecast: %w", err)
	}
	return summarize(base, samples), nil
}

func summarize(seed string, samples []sample) Result {
	r := Result{Seed: seed, Runs: len(samples)}
	counts := map[[2]int]int{}
	for _, s := range samples {
		switch {
		case s.goalsFor > s.goalsAgainst:
			r.Wins++
		case s.goalsFor < s.goalsAgainst:
			r.Losses++
		default:
			r.Draws++
		}
		r.AvgGoalsFor += float64(s.goalsFor)
		r.AvgGoalsAgainst += float64(s.goalsAgainst)
		r.AvgPossession += s.possession
		r.AvgXGFor += s.xgFor
		r.AvgXGAgainst += s.xgAgainst
		counts[[2]int{s.goalsFor, s.goalsAgainst}]++
	}
	n := float64(len(samples))
	if n == 0 {
		return r
	}
	r.WinProb = float64(r.Wins) / n
	r.DrawProb = float64(r.Draws) / n
	r.LossProb = float64(r.Losses) / n
	r.AvgGoalsFor /= n
	r.AvgGoalsAgainst /= n
	r.AvgPossession /= n
	r.AvgXGFor /= n
	r.AvgXGAgainst /= n

	for score, count := range counts {
		r.Scorelines = append(r.Scorelines, Scoreline{
			GoalsFor:     score[0],
			GoalsAgainst: score[1],
			Count:        count,
			Share:        float64(count) / n,
		})
	}
	sort.Slice(r.Scorelines, func(i, j int) bool {
		a, b := r.Scorelines[i], r.Scorelines[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.GoalsAgainst < b.GoalsAgainst
	})
	return r
}

package forecast

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/touchline/internal/engine"
	"github.com/verte-zerg/touchline/internal/model"
	"github.com/verte-zerg/touchline/internal/roster"
)

func testClub(t *testing.T) model.Club {
	t.Helper()
	club, err := roster.Generate("Forecast FC", "forecast")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return club
}

func TestRunIsReproducible(t *testing.T) {
	club := testClub(t)
	cfg := model.MatchConfig{Opponent: "Rivals", Home: true, Seed: "fixed", OpponentStrength: 65}

	a, err := Run(context.Background(), club, cfg, 40, 1)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	b, err := Run(context.Background(), club, cfg, 40, 8)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected the same forecast regardless of workers")
	}
	if a.Runs != 40 || a.Wins+a.Draws+a.Losses != 40 {
		t.Fatalf("unexpected counts %+v", a)
	}
	if sum := a.WinProb + a.DrawProb + a.LossProb; math.Abs(sum-1) > 1e-9 {
		t.Fatalf("probabilities sum to %.4f", sum)
	}
	total := 0
	for _, s := range a.Scorelines {
		total += s.Count
	}
	if total != 40 {
		t.Fatalf("scorelines cover %d runs", total)
	}
	if a.MostLikely().Count < a.Scorelines[len(a.Scorelines)-1].Count {
		t.Fatalf("expected scorelines sorted by frequency")
	}
}

func TestRunMatchesSingleSimulation(t *testing.T) {
	club := testClub(t)
	cfg := model.MatchConfig{Seed: "one"}
	res, err := Run(context.Background(), club, cfg, 1, 1)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	single, err := engine.New(nil, nil, zerolog.Nop()).SimulateMatch(club, cfg, engine.Options{Seed: RunSeed("one", 0)})
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	got := res.MostLikely()
	if got.GoalsFor != single.GoalsFor || got.GoalsAgainst != single.GoalsAgainst {
		t.Fatalf("expected %d-%d, got %s", single.GoalsFor, single.GoalsAgainst, got)
	}
}

func TestRunErrors(t *testing.T) {
	if _, err := Run(context.Background(), model.Club{}, model.MatchConfig{}, 10, 2); !errors.Is(err, engine.ErrEmptySquad) {
		t.Fatalf("expected ErrEmptySquad, got %v", err)
	}
	if _, err := Run(context.Background(), testClub(t), model.MatchConfig{}, MaxRuns+1, 2); err == nil {
		t.Fatalf("expected an error for too many runs")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, testClub(t), model.MatchConfig{Seed: "x"}, 10, 2); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

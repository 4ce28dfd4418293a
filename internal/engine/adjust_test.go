package engine

import (
	"slices"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/touchline/internal/model"
	"github.com/verte-zerg/touchline/internal/rng"
)

func zeroDraws() rng.Source {
	return rng.Func(func() float64 { return 0 })
}

func countEvents(events []model.MatchEvent, typ model.EventType) int {
	n := 0
	for _, ev := range events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

func TestSubstituteNoop(t *testing.T) {
	s := newMatchState(testClub(60), model.MatchConfig{}, zeroDraws(), nil, zerolog.Nop())
	if s.substitute("ghost", "p12", "test") {
		t.Fatalf("expected no-op for an unfielded player")
	}
	if s.substitute("p2", "p3", "test") {
		t.Fatalf("expected no-op for a player not on the bench")
	}
	if s.subsUsed != 0 {
		t.Fatalf("no-op consumed a slot: %d", s.subsUsed)
	}
	if !s.substitute("p2", "p13", "test") {
		t.Fatalf("expected a valid substitution")
	}
	if s.substitute("p2", "p14", "test") {
		t.Fatalf("expected no-op for a player already replaced")
	}
	if s.subsUsed != 1 || !slices.Contains(s.lineup, "p13") || slices.Contains(s.bench, "p13") {
		t.Fatalf("unexpected state after substitution: subs=%d lineup=%v bench=%v", s.subsUsed, s.lineup, s.bench)
	}
	c := s.contribution("p13")
	if c.started || c.rating != 5.8 {
		t.Fatalf("expected a substitute line, got started=%v rating=%.2f", c.started, c.rating)
	}
}

func TestAdjustmentAppliedOnce(t *testing.T) {
	cfg := model.MatchConfig{
		Halftime: &model.Adjustment{
			Tactic:        model.TacticAttacking,
			Formation:     "4-3-3",
			Substitutions: []model.Substitution{{Out: "p10", In: "p17"}},
		},
	}
	s := newMatchState(testClub(60), cfg, zeroDraws(), nil, zerolog.Nop())
	s.minute = 45
	s.applyDueAdjustments()
	if s.subsUsed != 0 || s.tactic != model.TacticBalanced {
		t.Fatalf("adjustment applied before its trigger")
	}
	for _, minute := range []int{50, 50, 55, 90} {
		s.minute = minute
		s.applyDueAdjustments()
	}
	if s.subsUsed != 1 {
		t.Fatalf("expected one substitution, got %d", s.subsUsed)
	}
	if s.tactic != model.TacticAttacking || s.formation != "4-3-3" {
		t.Fatalf("unexpected working tactic %s %s", s.tactic, s.formation)
	}
	if n := countEvents(s.events, model.EventTactical); n != 1 {
		t.Fatalf("expected one tactical event, got %d", n)
	}
}

func TestAdjustmentMergesInstructions(t *testing.T) {
	high := "high"
	counter := true
	cfg := model.MatchConfig{
		Instructions: model.Instructions{Pressing: "low", Tempo: "slow"},
		Adjustments: []model.Adjustment{{
			Instructions: &model.InstructionOverrides{Pressing: &high, CounterAttack: &counter},
		}},
	}
	s := newMatchState(testClub(60), cfg, zeroDraws(), nil, zerolog.Nop())
	s.minute = adhocTrigger
	s.applyDueAdjustments()
	want := model.Instructions{Pressing: "high", Tempo: "slow", CounterAttack: true}
	if s.instructions != want {
		t.Fatalf("unexpected instructions: %+v", s.instructions)
	}
}

func TestSubstitutionCap(t *testing.T) {
	var subs []model.Substitution
	for i, out := range []string{"p2", "p3", "p4", "p5", "p6", "p7", "p8"} {
		subs = append(subs, model.Substitution{Out: out, In: testBench[i]})
	}
	cfg := model.MatchConfig{Adjustments: []model.Adjustment{{Minute: 60, Substitutions: subs}}}
	s := newMatchState(testClub(60), cfg, zeroDraws(), nil, zerolog.Nop())
	s.minute = 60
	s.applyDueAdjustments()
	if s.subsUsed != maxSubstitutions {
		t.Fatalf("expected the cap to hold, got %d", s.subsUsed)
	}
	if len(s.bench) != 2 || len(s.lineup) != fullSide {
		t.Fatalf("unexpected lineup %v bench %v", s.lineup, s.bench)
	}
}

var testBench = []string{"p12", "p13", "p14", "p15", "p16", "p17", "p18"}

func TestGoalkeeperRedCardBringsReserve(t *testing.T) {
	s := newMatchState(testClub(60), model.MatchConfig{}, zeroDraws(), nil, zerolog.Nop())
	s.minute = 30
	s.rollCard()

	if !s.sentOff["p1"] {
		t.Fatalf("expected the goalkeeper to be sent off")
	}
	if !slices.Contains(s.lineup, "p12") || slices.Contains(s.lineup, "p1") {
		t.Fatalf("expected the reserve keeper on the pitch: %v", s.lineup)
	}
	if len(s.lineup) != fullSide-1 {
		t.Fatalf("expected ten players after the swap, got %d", len(s.lineup))
	}
	if s.subsUsed != 1 {
		t.Fatalf("expected the swap to use a slot, got %d", s.subsUsed)
	}
	keeper, ok := s.goalkeeper()
	if !ok || keeper.ID != "p12" {
		t.Fatalf("expected p12 in goal, got %q", keeper.ID)
	}
	outfield := 0
	for _, p := range s.fieldedPlayers() {
		if p.Position != model.Goalkeeper {
			outfield++
		}
	}
	if outfield != fullSide-2 {
		t.Fatalf("expected one outfield player sacrificed, got %d outfield", outfield)
	}
	if n := countEvents(s.events, model.EventRedCard); n != 1 {
		t.Fatalf("expected one red card event, got %d", n)
	}
}

func TestGoalkeeperRedCardWithoutReserve(t *testing.T) {
	cfg := model.MatchConfig{Bench: []string{"p13", "p14"}}
	s := newMatchState(testClub(60), cfg, zeroDraws(), nil, zerolog.Nop())
	s.minute = 20
	s.rollCard()

	if s.subsUsed != 0 || len(s.lineup) != fullSide-1 {
		t.Fatalf("unexpected state: subs=%d lineup=%v", s.subsUsed, s.lineup)
	}
	if len(s.narrative) != 1 || !strings.Contains(s.narrative[0], "improvise") {
		t.Fatalf("expected an improvise note, got %v", s.narrative)
	}
	keeper, ok := s.goalkeeper()
	if !ok || keeper.Position == model.Goalkeeper {
		t.Fatalf("expected an outfield player in goal")
	}
}

func TestInjuryPrefersSamePosition(t *testing.T) {
	s := newMatchState(testClub(60), model.MatchConfig{}, zeroDraws(), nil, zerolog.Nop())
	s.minute = 40
	s.injure(s.squad["p6"], model.SeverityMinor)
	if !slices.Contains(s.lineup, "p15") {
		t.Fatalf("expected the bench midfielder to come on: %v", s.lineup)
	}
	if s.contribution("p6").injury != model.SeverityMinor {
		t.Fatalf("expected the injury recorded")
	}
}

func TestInjurySeverityTiers(t *testing.T) {
	cases := map[float64]string{
		0.1:  model.SeveritySevere,
		0.3:  model.SeverityModerate,
		0.9:  model.SeverityMinor,
		0.49: model.SeverityModerate,
	}
	for ratio, want := range cases {
		if got := injurySeverity(ratio); got != want {
			t.Fatalf("ratio %.2f: expected %s, got %s", ratio, want, got)
		}
	}
}

func TestInjuryChance(t *testing.T) {
	cases := []struct {
		minute  int
		fatigue float64
		want    float64
	}{
		{5, 1, 0.04 + 5.0/130},
		{1, 1, 0.06},
		{45, 1, 0.04 + 45.0/130},
		{90, 1, 0.04 + 90.0/130},
		{90, 1.12, 0.04 + 90.0/130*1.12},
	}
	for _, tc := range cases {
		if got := injuryChance(tc.minute, tc.fatigue); !approx(got, tc.want) {
			t.Fatalf("minute %d fatigue %.2f: expected %.4f, got %.4f", tc.minute, tc.fatigue, tc.want, got)
		}
	}
}

func TestRollInjuryFollowsClock(t *testing.T) {
	half := rng.Func(func() float64 { return 0.5 })

	early := newMatchState(testClub(60), model.MatchConfig{}, half, nil, zerolog.Nop())
	early.minute = 10
	early.recompute()
	early.rollInjury()
	if n := countEvents(early.events, model.EventInjury); n != 0 {
		t.Fatalf("expected no injury at minute 10 with a 0.5 draw, got %d", n)
	}

	late := newMatchState(testClub(60), model.MatchConfig{}, half, nil, zerolog.Nop())
	late.minute = 90
	late.recompute()
	late.rollInjury()
	if n := countEvents(late.events, model.EventInjury); n != 1 {
		t.Fatalf("expected one injury at minute 90 with a 0.5 draw, got %d", n)
	}
	if late.tally.stats.Injuries.For != 1 || late.tally.stats.Injuries.Against != 0 {
		t.Fatalf("unexpected injury tally %+v", late.tally.stats.Injuries)
	}
}

func TestOptionsSeedBeatsConfigSeed(t *testing.T) {
	opts := Options{Seed: "from-options"}
	if got := opts.seed(model.MatchConfig{Seed: "from-config"}); got != "from-options" {
		t.Fatalf("expected the options seed, got %q", got)
	}
	if got := (Options{}).seed(model.MatchConfig{Seed: "from-config"}); got != "from-config" {
		t.Fatalf("expected the config seed, got %q", got)
	}
}

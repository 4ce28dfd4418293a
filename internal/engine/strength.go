package engine

import "github.com/verte-zerg/touchline/internal/model"

const (
	homeBoost             = 5.0
	missingPlayerPenalty  = 6.0
	fullSide              = 11
	minDifficulty         = 0.2
	maxDifficulty         = 2.0
	intimidationShare     = 0.2
	defaultOpponentRating = 60.0
)

// Strength is the scalar breakdown of a side's quality.
type Strength struct {
	Attack     float64
	Defense    float64
	Leadership float64
	Creativity float64
	Morale     float64
	Total      float64
}

// CalculateClubStrength weights the fielded players' attributes under the
// given formation and tactic.
func CalculateClubStrength(players []model.Player, tactic model.Tactic, formation string, home bool, moraleBoost float64) Strength {
	if len(players) == 0 {
		return Strength{}
	}
	profile := Formation(formation)
	n := float64(len(players))
	var attack, defense, leadership, dribbling, morale float64
	for _, p := range players {
		a := p.Attributes
		attack += float64(a.Passing+a.Shooting) / 2
		defense += float64(a.Defending+a.Stamina) / 2
		leadership += float64(a.Leadership)
		dribbling += float64(a.Dribbling)
		morale += p.Morale
	}
	s := Strength{
		Attack:     attack / n * profile.Attack,
		Defense:    defense / n * profile.Defense,
		Leadership: leadership / n,
		Creativity: dribbling / n * 0.05 * profile.Creativity,
		Morale:     morale/n + moraleBoost,
	}
	s.Total = s.Attack*0.4 + s.Defense*0.3 + s.Leadership*0.1 + s.Morale*0.1 + 10*TacticMultiplier(tactic) + s.Creativity
	if home {
		s.Total += homeBoost
	}
	if missing := fullSide - len(players); missing > 0 {
		s.Total -= float64(missing) * missingPlayerPenalty
	}
	return s
}

// OpponentStrength scales the configured opponent rating by difficulty and
// subtracts intimidation from a successful, not yet applied decision.
func OpponentStrength(cfg model.MatchConfig, outcome *model.DecisionOutcome) float64 {
	base := cfg.OpponentStrength
	if base <= 0 {
		base = defaultOpponentRating
	}
	return base*clampFloat(difficulty(cfg.Difficulty), minDifficulty, maxDifficulty) - intimidation(outcome)
}

func difficulty(d float64) float64 {
	if d == 0 {
		return 1
	}
	return d
}

func intimidation(outcome *model.DecisionOutcome) float64 {
	if outcome == nil || outcome.AppliedToClub || !outcome.Success {
		return 0
	}
	return outcome.ReputationDelta * intimidationShare
}

func moraleBoost(outcome *model.DecisionOutcome) float64 {
	if outcome == nil || outcome.AppliedToClub {
		return 0
	}
	return outcome.MoraleDelta
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

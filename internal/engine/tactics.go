package engine

import (
	"strings"

	"github.com/verte-zerg/touchline/internal/model"
)

// FormationProfile scales the strength components for a shape.
type FormationProfile struct {
	Attack     float64
	Defense    float64
	Creativity float64
}

var balancedFormation = FormationProfile{Attack: 1.0, Defense: 1.0, Creativity: 1.0}

var formationProfiles = map[string]FormationProfile{
	"4-4-2":   {Attack: 1.00, Defense: 1.00, Creativity: 1.00},
	"4-3-3":   {Attack: 1.06, Defense: 0.96, Creativity: 1.10},
	"4-2-3-1": {Attack: 1.03, Defense: 1.00, Creativity: 1.08},
	"4-1-4-1": {Attack: 0.98, Defense: 1.03, Creativity: 1.04},
	"4-5-1":   {Attack: 0.96, Defense: 1.04, Creativity: 1.02},
	"3-5-2":   {Attack: 1.04, Defense: 0.97, Creativity: 1.06},
	"3-4-3":   {Attack: 1.08, Defense: 0.93, Creativity: 1.05},
	"5-3-2":   {Attack: 0.94, Defense: 1.08, Creativity: 0.95},
	"5-4-1":   {Attack: 0.90, Defense: 1.10, Creativity: 0.92},
}

// Formation returns the profile for a formation string, balanced when unknown.
func Formation(formation string) FormationProfile {
	if p, ok := formationProfiles[strings.TrimSpace(formation)]; ok {
		return p
	}
	return balancedFormation
}

// KnownFormation reports whether the formation has a dedicated profile.
func KnownFormation(formation string) bool {
	_, ok := formationProfiles[strings.TrimSpace(formation)]
	return ok
}

// TacticMultiplier scales the flat tactic bonus.
func TacticMultiplier(t model.Tactic) float64 {
	switch normalizeTactic(t) {
	case model.TacticDefensive:
		return 0.92
	case model.TacticAttacking:
		return 1.05
	default:
		return 1.0
	}
}

// TacticBias shifts possession, chance creation and penalty calls.
func TacticBias(t model.Tactic) float64 {
	switch normalizeTactic(t) {
	case model.TacticDefensive:
		return -0.05
	case model.TacticAttacking:
		return 0.06
	default:
		return 0
	}
}

func normalizeTactic(t model.Tactic) model.Tactic {
	switch model.Tactic(strings.ToLower(strings.TrimSpace(string(t)))) {
	case model.TacticDefensive:
		return model.TacticDefensive
	case model.TacticAttacking:
		return model.TacticAttacking
	default:
		return model.TacticBalanced
	}
}

// InstructionProfile holds the behavioral biases derived from instructions.
type InstructionProfile struct {
	ChanceBias        float64
	PossessionBias    float64
	FoulRisk          float64
	PassAccuracy      float64
	PassAttempts      float64
	DefenseBias       float64
	FatigueMultiplier float64
}

// Profile folds instruction flags into bias terms.
func Profile(in model.Instructions) InstructionProfile {
	p := InstructionProfile{FatigueMultiplier: 1}

	switch strings.ToLower(in.Pressing) {
	case "high":
		p.ChanceBias += 0.04
		p.FoulRisk += 0.05
		p.PossessionBias += 0.02
		p.DefenseBias += 0.02
		p.FatigueMultiplier *= 1.12
	case "low":
		p.ChanceBias -= 0.02
		p.FoulRisk -= 0.03
		p.PossessionBias -= 0.02
		p.DefenseBias -= 0.01
		p.FatigueMultiplier *= 0.92
	}

	switch strings.ToLower(in.Tempo) {
	case "fast":
		p.ChanceBias += 0.03
		p.PassAccuracy -= 0.04
		p.PassAttempts -= 8
		p.FatigueMultiplier *= 1.06
	case "slow":
		p.ChanceBias -= 0.02
		p.PassAccuracy += 0.03
		p.PassAttempts += 10
		p.PossessionBias += 0.03
		p.FatigueMultiplier *= 0.95
	}

	switch strings.ToLower(in.Width) {
	case "wide":
		p.ChanceBias += 0.015
		p.PossessionBias += 0.01
		p.PassAttempts += 4
	case "narrow":
		p.ChanceBias -= 0.01
		p.DefenseBias += 0.02
		p.PassAccuracy += 0.01
	}

	if in.CounterAttack {
		p.ChanceBias += 0.02
		p.PossessionBias -= 0.05
		p.DefenseBias += 0.02
		p.PassAttempts -= 6
	}
	if in.ThroughMiddle {
		p.ChanceBias += 0.01
		p.PassAccuracy -= 0.02
		p.FoulRisk += 0.01
	}
	return p
}

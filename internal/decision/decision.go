// Package decision resolves risky pre-match decisions into outcomes.
package decision

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/verte-zerg/touchline/internal/model"
	"github.com/verte-zerg/touchline/internal/rng"
)

// ErrUnknownDecision is returned for ids missing from the catalog.
var ErrUnknownDecision = errors.New("unknown decision")

// Risk levels.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Effect is what a decision does to the club when it lands one way.
type Effect struct {
	Reputation float64
	Morale     float64
	Finance    decimal.Decimal
	Narrative  string
}

// Decision is a catalog entry.
type Decision struct {
	ID          string
	Title       string
	Description string
	Risk        string
	BaseChance  float64
	Success     Effect
	Failure     Effect
	Sanctions   string
}

func money(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// DefaultCatalog lists the built-in decisions.
func DefaultCatalog() []Decision {
	return []Decision{
		{
			ID:          "mind-games",
			Title:       "Mind games in the press",
			Description: "Talk the opponent down before kick-off.",
			Risk:        RiskMedium,
			BaseChance:  0.55,
			Success:     Effect{Reputation: 6, Morale: 3, Narrative: "The squad fed off the bold words."},
			Failure:     Effect{Reputation: -5, Morale: -2, Narrative: "The comments were thrown back at the club."},
		},
		{
			ID:          "fan-day",
			Title:       "Open training for the fans",
			Description: "Invite supporters to watch the final session.",
			Risk:        RiskLow,
			BaseChance:  0.8,
			Success:     Effect{Reputation: 3, Morale: 2, Finance: money(4000), Narrative: "Supporters left in good spirits."},
			Failure:     Effect{Reputation: -1, Morale: -1, Finance: money(-1500), Narrative: "Rain and a thin turnout spoiled the day."},
		},
		{
			ID:          "win-bonus",
			Title:       "Promise a win bonus",
			Description: "Pay the squad extra if they win.",
			Risk:        RiskMedium,
			BaseChance:  0.6,
			Success:     Effect{Morale: 6, Finance: money(-10000), Narrative: "The dressing room bought in."},
			Failure:     Effect{Morale: -3, Finance: money(-2500), Narrative: "Senior players called the offer an insult."},
		},
		{
			ID:          "referee-complaint",
			Title:       "Complain about the referee appointment",
			Description: "Put public pressure on the officials.",
			Risk:        RiskHigh,
			BaseChance:  0.35,
			Success:     Effect{Reputation: 8, Morale: 2, Narrative: "The federation took the complaint seriously."},
			Failure:     Effect{Reputation: -10, Morale: -1, Finance: money(-20000), Narrative: "The federation fined the club."},
			Sanctions:   "Fine for bringing the game into disrepute",
		},
		{
			ID:          "betting-sponsor",
			Title:       "Sign a short betting sponsorship",
			Description: "Take the money for a front-of-shirt deal.",
			Risk:        RiskHigh,
			BaseChance:  0.45,
			Success:     Effect{Reputation: -2, Finance: money(60000), Narrative: "The deal went through quietly."},
			Failure:     Effect{Reputation: -12, Morale: -3, Finance: money(15000), Narrative: "Supporters protested outside the ground."},
			Sanctions:   "Supporter boycott warning",
		},
	}
}

// Resolver resolves decisions from a fixed catalog.
type Resolver struct {
	order   []string
	catalog map[string]Decision
}

// NewResolver indexes the given catalog. Later duplicates replace earlier ones.
func NewResolver(catalog []Decision) *Resolver {
	r := &Resolver{catalog: make(map[string]Decision, len(catalog))}
	for _, d := range catalog {
		if _, ok := r.catalog[d.ID]; !ok {
			r.order = append(r.order, d.ID)
		}
		r.catalog[d.ID] = d
	}
	return r
}

// Catalog returns the decisions in catalog order.
func (r *Resolver) Catalog() []Decision {
	out := make([]Decision, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.catalog[id])
	}
	return out
}

// Lookup returns one decision.
func (r *Resolver) Lookup(id string) (Decision, error) {
	d, ok := r.catalog[id]
	if !ok {
		return Decision{}, fmt.Errorf("%w: %q", ErrUnknownDecision, id)
	}
	return d, nil
}

// Chance is the success probability for club, shifted by reputation.
func Chance(d Decision, club model.Club) float64 {
	return min(0.95, max(0.05, d.BaseChance+club.Reputation/400))
}

// Resolve draws once from src and returns the outcome.
func (r *Resolver) Resolve(club model.Club, id string, src rng.Source) (model.DecisionOutcome, error) {
	d, err := r.Lookup(id)
	if err != nil {
		return model.DecisionOutcome{}, err
	}
	success := src.Float64() < Chance(d, club)
	effect := d.Failure
	if success {
		effect = d.Success
	}
	out := model.DecisionOutcome{
		DecisionID:      d.ID,
		Success:         success,
		ReputationDelta: effect.Reputation,
		MoraleDelta:     effect.Morale,
		FinanceDelta:    effect.Finance,
		RiskLevel:       d.Risk,
		Narrative:       effect.Narrative,
	}
	if !success {
		out.Sanctions = d.Sanctions
	}
	return out, nil
}

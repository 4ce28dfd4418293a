// Package engine simulates match-days: a seeded segment loop producing a
// timeline and statistics, and the post-match step that folds the result
// back into a new club state.
package engine

import (
	"github.com/rs/zerolog"

	"github.com/verte-zerg/touchline/internal/model"
	"github.com/verte-zerg/touchline/internal/rng"
)

// FinanceCalculator turns a played match into a finance breakdown.
type FinanceCalculator interface {
	Calculate(club model.Club, result model.MatchResult) model.FinanceReport
}

// DecisionResolver rolls a pre-match decision into an outcome.
type DecisionResolver interface {
	Resolve(club model.Club, decisionID string, src rng.Source) (model.DecisionOutcome, error)
}

// Engine runs simulations. The zero value is usable; it skips finances and
// cannot resolve decisions by id.
type Engine struct {
	finance   FinanceCalculator
	decisions DecisionResolver
	logger    zerolog.Logger
}

// New builds an engine around its collaborators. finance and decisions may
// be nil; pass zerolog.Nop() to silence the logger.
func New(finance FinanceCalculator, decisions DecisionResolver, logger zerolog.Logger) *Engine {
	return &Engine{finance: finance, decisions: decisions, logger: logger}
}

// Options carries per-call overrides.
//
// RNG, when set, is used as-is and no seed is generated. Seed takes
// precedence over MatchConfig.Seed. Decision names a catalog decision to
// resolve when DecisionOutcome is nil.
type Options struct {
	RNG             rng.Source
	Seed            string
	Decision        string
	DecisionOutcome *model.DecisionOutcome
}

func (o Options) seed(cfg model.MatchConfig) string {
	if o.Seed != "" {
		return o.Seed
	}
	return cfg.Seed
}

func (o Options) source(cfg model.MatchConfig) (rng.Source, string) {
	if o.RNG != nil {
		return o.RNG, o.seed(cfg)
	}
	seed := rng.ResolveSeed(o.seed(cfg))
	return rng.FromSeed(seed), seed
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/touchline/internal/model"
)

// Plan is a match plan file: selection, instructions and scheduled changes.
type Plan struct {
	Opponent         string             `toml:"opponent"`
	Home             *bool              `toml:"home"`
	OpponentStrength *float64           `toml:"opponent-strength"`
	Difficulty       *float64           `toml:"difficulty"`
	Tactic           string             `toml:"tactic"`
	Formation        string             `toml:"formation"`
	Lineup           []string           `toml:"lineup"`
	Bench            []string           `toml:"bench"`
	Instructions     model.Instructions `toml:"instructions"`
	Halftime         *model.Adjustment  `toml:"halftime"`
	Adjustments      []model.Adjustment `toml:"adjustments"`
	Decision         string             `toml:"decision"`
}

// ResolvePlanPath maps a bare plan name to the plan directory. Paths are
// returned unchanged.
func ResolvePlanPath(name string) string {
	if name == "" || strings.ContainsRune(name, os.PathSeparator) || filepath.Ext(name) != "" {
		return name
	}
	return filepath.Join(DefaultPlanDir(), name+".toml")
}

// LoadPlan reads a plan file. Unlike the config file, a missing plan is an error.
func LoadPlan(path string) (Plan, error) {
	if path == "" {
		return Plan{}, fmt.Errorf("plan path is empty")
	}
	var plan Plan
	meta, err := toml.DecodeFile(path, &plan)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to decode plan: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Plan{}, fmt.Errorf("unknown plan key %q", undecoded[0].String())
	}
	if len(plan.Lineup) > 11 {
		return Plan{}, fmt.Errorf("plan lineup has %d players, at most 11 allowed", len(plan.Lineup))
	}
	return plan, nil
}

// Apply overlays the plan onto cfg. Empty plan fields keep cfg's values.
func (p Plan) Apply(cfg model.MatchConfig) model.MatchConfig {
	if p.Opponent != "" {
		cfg.Opponent = p.Opponent
	}
	if p.Home != nil {
		cfg.Home = *p.Home
	}
	if p.OpponentStrength != nil {
		cfg.OpponentStrength = *p.OpponentStrength
	}
	if p.Difficulty != nil {
		cfg.Difficulty = *p.Difficulty
	}
	if p.Tactic != "" {
		cfg.Tactic = model.Tactic(p.Tactic)
	}
	if p.Formation != "" {
		cfg.Formation = p.Formation
	}
	if len(p.Lineup) > 0 {
		cfg.Lineup = append([]string(nil), p.Lineup...)
	}
	if len(p.Bench) > 0 {
		cfg.Bench = append([]string(nil), p.Bench...)
	}
	if p.Instructions != (model.Instructions{}) {
		cfg.Instructions = p.Instructions
	}
	if p.Halftime != nil {
		h := *p.Halftime
		cfg.Halftime = &h
	}
	if len(p.Adjustments) > 0 {
		cfg.Adjustments = append([]model.Adjustment(nil), p.Adjustments...)
	}
	return cfg
}

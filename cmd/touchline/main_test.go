package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/touchline/internal/config"
	"github.com/verte-zerg/touchline/internal/forecast"
	"github.com/verte-zerg/touchline/internal/model"
)

func TestMatchConfigPrecedence(t *testing.T) {
	cmd := newSimulateCmd()
	if err := cmd.Flags().Set("tactic", "attacking"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	fileTactic := "defensive"
	fileFormation := "4-3-3"
	fileDifficulty := 1.5
	fileCfg := config.FileConfig{Match: config.MatchConfig{
		Tactic:     &fileTactic,
		Formation:  &fileFormation,
		Difficulty: &fileDifficulty,
	}}

	cfg, err := matchConfig(cmd, fileCfg)
	if err != nil {
		t.Fatalf("match config: %v", err)
	}
	if cfg.Tactic != model.TacticAttacking {
		t.Fatalf("expected the flag to win, got %s", cfg.Tactic)
	}
	if cfg.Formation != "4-3-3" || cfg.Difficulty != 1.5 {
		t.Fatalf("expected config values for unset flags, got %+v", cfg)
	}
	if cfg.Opponent != defaultOpponent || !cfg.Home {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestMatchConfigPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "derby.toml")
	plan := `opponent = "City"
home = false
formation = "3-5-2"
lineup = ["p1", "p2"]

[halftime]
tactic = "attacking"
`
	if err := os.WriteFile(path, []byte(plan), 0o644); err != nil {
		t.Fatalf("write plan: %v", err)
	}
	cmd := newPlayCmd()
	if err := cmd.Flags().Set("plan", path); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	t.Cleanup(func() { matchPlan = "" })

	cfg, err := matchConfig(cmd, config.FileConfig{})
	if err != nil {
		t.Fatalf("match config: %v", err)
	}
	if cfg.Opponent != "City" || cfg.Home || cfg.Formation != "3-5-2" || len(cfg.Lineup) != 2 {
		t.Fatalf("plan not applied: %+v", cfg)
	}
	if cfg.Halftime == nil || cfg.Halftime.Tactic != model.TacticAttacking {
		t.Fatalf("expected halftime adjustment, got %+v", cfg.Halftime)
	}
}

func TestValidateMatchConfig(t *testing.T) {
	base := model.MatchConfig{
		Opponent:         "City",
		OpponentStrength: 60,
		Difficulty:       1,
		Tactic:           model.TacticBalanced,
		Formation:        "4-4-2",
	}
	if err := validateMatchConfig(base); err != nil {
		t.Fatalf("expected valid config: %v", err)
	}
	cases := map[string]func(*model.MatchConfig){
		"tactic":     func(c *model.MatchConfig) { c.Tactic = "park-the-bus" },
		"formation":  func(c *model.MatchConfig) { c.Formation = "4-4-3" },
		"difficulty": func(c *model.MatchConfig) { c.Difficulty = 3 },
		"strength":   func(c *model.MatchConfig) { c.OpponentStrength = 0 },
		"opponent":   func(c *model.MatchConfig) { c.Opponent = " " },
	}
	for name, mutate := range cases {
		cfg := base
		mutate(&cfg)
		if err := validateMatchConfig(cfg); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	var cfg config.FileConfig
	if _, err := toml.Decode(defaultConfigTemplate(), &cfg); err != nil {
		t.Fatalf("decode template: %v", err)
	}
	if cfg.Match.Tactic != nil || cfg.Club.ID != nil {
		t.Fatalf("expected every value to be commented out")
	}

	uncommented := strings.ReplaceAll(defaultConfigTemplate(), "# tactic", "tactic")
	if _, err := toml.Decode(uncommented, &cfg); err != nil {
		t.Fatalf("decode uncommented: %v", err)
	}
	if cfg.Match.Tactic == nil || *cfg.Match.Tactic != defaultTactic {
		t.Fatalf("unexpected tactic %v", cfg.Match.Tactic)
	}
}

func TestEnsureConfigFileKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "touchline", "config.toml")
	if err := ensureConfigFile(path); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := os.WriteFile(path, []byte("[log]\nlevel = \"debug\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ensureConfigFile(path); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("expected the existing file to be kept")
	}
}

func TestRenderForecast(t *testing.T) {
	var buf bytes.Buffer
	res := forecast.Result{
		Seed:     "abc",
		Runs:     10,
		WinProb:  0.5,
		DrawProb: 0.3,
		LossProb: 0.2,
		Scorelines: []forecast.Scoreline{
			{GoalsFor: 1, GoalsAgainst: 0, Count: 4, Share: 0.4},
		},
	}
	if err := renderForecast(&buf, "Harbour Town", "City", res); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Win 50.0%  Draw 30.0%  Loss 20.0%") || !strings.Contains(out, "1-0") {
		t.Fatalf("unexpected forecast output:\n%s", out)
	}
}

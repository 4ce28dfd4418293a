package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/touchline/internal/model"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Match.Tactic != nil || cfg.Log.Level != nil {
		t.Fatalf("expected empty config")
	}
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := write(t, "config.toml", `
[match]
tactic = "attacking"
difficulty = 1.4
home = true

[log]
level = "debug"

[server]
addr = ":9090"
cors-origins = ["http://localhost:5173"]

[forecast]
runs = 500
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Match.Tactic == nil || *cfg.Match.Tactic != "attacking" {
		t.Fatalf("unexpected tactic")
	}
	if cfg.Match.Difficulty == nil || *cfg.Match.Difficulty != 1.4 {
		t.Fatalf("unexpected difficulty")
	}
	if cfg.Match.Formation != nil {
		t.Fatalf("expected unset formation to stay nil")
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level")
	}
	if cfg.Server.Addr == nil || *cfg.Server.Addr != ":9090" || len(cfg.Server.CORSOrigins) != 1 {
		t.Fatalf("unexpected server config %+v", cfg.Server)
	}
	if cfg.Forecast.Runs == nil || *cfg.Forecast.Runs != 500 || cfg.Forecast.Workers != nil {
		t.Fatalf("unexpected forecast config %+v", cfg.Forecast)
	}
}

func TestLoadPlanAndApply(t *testing.T) {
	path := write(t, "derby.toml", `
opponent = "City"
home = false
tactic = "defensive"
formation = "5-4-1"
lineup = ["p01", "p02"]

[instructions]
pressing = "low"
counter-attack = true

[halftime]
tactic = "attacking"
[halftime.instructions]
pressing = "high"
[[halftime.substitutions]]
out = "p02"
in = "p14"
reason = "fresh legs"

[[adjustments]]
minute = 75
formation = "4-3-3"
`)
	plan, err := LoadPlan(path)
	if err != nil {
		t.Fatalf("load plan: %v", err)
	}
	base := model.MatchConfig{Home: true, Formation: "4-4-2", OpponentStrength: 70, Seed: "s"}
	cfg := plan.Apply(base)
	if cfg.Opponent != "City" || cfg.Home || cfg.Tactic != model.TacticDefensive || cfg.Formation != "5-4-1" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.OpponentStrength != 70 || cfg.Seed != "s" {
		t.Fatalf("plan overwrote unrelated fields")
	}
	if !cfg.Instructions.CounterAttack || cfg.Instructions.Pressing != "low" {
		t.Fatalf("unexpected instructions %+v", cfg.Instructions)
	}
	if cfg.Halftime == nil || cfg.Halftime.Instructions == nil || *cfg.Halftime.Instructions.Pressing != "high" {
		t.Fatalf("unexpected halftime %+v", cfg.Halftime)
	}
	if len(cfg.Halftime.Substitutions) != 1 || cfg.Halftime.Substitutions[0].In != "p14" {
		t.Fatalf("unexpected halftime substitutions")
	}
	if len(cfg.Adjustments) != 1 || cfg.Adjustments[0].Minute != 75 {
		t.Fatalf("unexpected adjustments %+v", cfg.Adjustments)
	}
}

func TestLoadPlanRejectsUnknownKeys(t *testing.T) {
	path := write(t, "bad.toml", "formaton = \"4-4-2\"\n")
	if _, err := LoadPlan(path); err == nil {
		t.Fatalf("expected an unknown key error")
	}
}

func TestResolvePlanPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	if got := ResolvePlanPath("derby"); got != filepath.Join("/cfg", "touchline", "plans", "derby.toml") {
		t.Fatalf("unexpected path %s", got)
	}
	if got := ResolvePlanPath("./derby.toml"); got != "./derby.toml" {
		t.Fatalf("expected paths unchanged, got %s", got)
	}
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	if got := DefaultDBPath(); got != filepath.Join("/data", "touchline", "touchline.db") {
		t.Fatalf("unexpected db path %s", got)
	}
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "touchline", "config.toml") {
		t.Fatalf("unexpected config path %s", got)
	}
}

// Package main provides the CLI entrypoint for touchline.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/touchline/internal/config"
	"github.com/verte-zerg/touchline/internal/decision"
	"github.com/verte-zerg/touchline/internal/engine"
	"github.com/verte-zerg/touchline/internal/finance"
	"github.com/verte-zerg/touchline/internal/logger"
	"github.com/verte-zerg/touchline/internal/model"
	"github.com/verte-zerg/touchline/internal/store"
)

const (
	defaultTactic           = "balanced"
	defaultFormation        = "4-4-2"
	defaultDifficulty       = 1.0
	defaultOpponentStrength = 60.0
	defaultOpponent         = "Opponent FC"
	defaultViewMode         = "text"
	defaultLogLevel         = "info"
	defaultAddr             = "127.0.0.1:8080"
	defaultCurveWindow      = 5
)

var (
	clubID   string
	logLevel string

	matchOpponent   string
	matchHome       bool
	matchStrength   float64
	matchDifficulty float64
	matchTactic     string
	matchFormation  string
	matchSeed       string
	matchPlan       string
	matchViewMode   string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "touchline",
		Short:         "Football match-day simulator",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&clubID, "club", "", "club id (default: [club] id from config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newClubsCmd())
	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newSimulateCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newForecastCmd())
	rootCmd.AddCommand(newSquadCmd())
	rootCmd.AddCommand(newSeasonCmd())
	rootCmd.AddCommand(newDecisionsCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// app bundles what a command needs once flags and config are resolved.
type app struct {
	cfg    config.FileConfig
	logger zerolog.Logger
	store  *store.Store
}

func openApp(cmd *cobra.Command) (*app, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "club", &clubID, fileCfg.Club.ID)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)

	lg := logger.FromEnv(os.Stderr, logLevel)
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return &app{cfg: fileCfg, logger: lg, store: st}, nil
}

func (a *app) close() {
	if cerr := a.store.Close(); cerr != nil {
		a.logger.Error().Err(cerr).Msg("failed to close db")
	}
}

func (a *app) engine() *engine.Engine {
	return engine.New(finance.New(finance.DefaultRates()), a.decisions(), a.logger)
}

func (a *app) decisions() *decision.Resolver {
	return decision.NewResolver(decision.DefaultCatalog())
}

func (a *app) loadClub(ctx context.Context) (model.Club, error) {
	if strings.TrimSpace(clubID) == "" {
		return model.Club{}, fmt.Errorf("no club selected: pass --club or set [club] id in %s", config.DefaultConfigPath())
	}
	club, err := a.store.LoadClub(ctx, clubID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Club{}, fmt.Errorf("club %q not found (list clubs with: touchline clubs)", clubID)
		}
		return model.Club{}, fmt.Errorf("failed to load club: %w", err)
	}
	return club, nil
}

func addMatchFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&matchOpponent, "opponent", defaultOpponent, "opponent name")
	cmd.Flags().BoolVar(&matchHome, "home", true, "play at home")
	cmd.Flags().Float64Var(&matchStrength, "opponent-strength", defaultOpponentStrength, "opponent rating (0-100)")
	cmd.Flags().Float64Var(&matchDifficulty, "difficulty", defaultDifficulty, "opponent strength multiplier (0.2-2)")
	cmd.Flags().StringVar(&matchTactic, "tactic", defaultTactic, "defensive, balanced or attacking")
	cmd.Flags().StringVar(&matchFormation, "formation", defaultFormation, "formation, e.g. 4-3-3")
	cmd.Flags().StringVar(&matchSeed, "seed", "", "seed for a reproducible match")
	cmd.Flags().StringVar(&matchPlan, "plan", "", "match plan name or path (lineup, bench, instructions, adjustments)")
	cmd.Flags().StringVar(&matchViewMode, "view-mode", defaultViewMode, "view mode recorded with the result")
}

// matchConfig resolves flags, config file and plan into a MatchConfig.
// Flags win over the config file; the plan wins over both.
func matchConfig(cmd *cobra.Command, fileCfg config.FileConfig) (model.MatchConfig, error) {
	applyStringConfig(cmd, "tactic", &matchTactic, fileCfg.Match.Tactic)
	applyStringConfig(cmd, "formation", &matchFormation, fileCfg.Match.Formation)
	applyFloatConfig(cmd, "difficulty", &matchDifficulty, fileCfg.Match.Difficulty)
	applyFloatConfig(cmd, "opponent-strength", &matchStrength, fileCfg.Match.OpponentStrength)
	applyStringConfig(cmd, "view-mode", &matchViewMode, fileCfg.Match.ViewMode)
	applyBoolConfig(cmd, "home", &matchHome, fileCfg.Match.Home)

	cfg := model.MatchConfig{
		Opponent:         matchOpponent,
		Home:             matchHome,
		OpponentStrength: matchStrength,
		Difficulty:       matchDifficulty,
		Tactic:           model.Tactic(matchTactic),
		Formation:        matchFormation,
		Seed:             matchSeed,
		ViewMode:         matchViewMode,
	}
	if matchPlan != "" {
		plan, err := config.LoadPlan(config.ResolvePlanPath(matchPlan))
		if err != nil {
			return model.MatchConfig{}, fmt.Errorf("failed to load plan: %w", err)
		}
		cfg = plan.Apply(cfg)
	}
	if err := validateMatchConfig(cfg); err != nil {
		return model.MatchConfig{}, err
	}
	return cfg, nil
}

func validateMatchConfig(cfg model.MatchConfig) error {
	switch cfg.Tactic {
	case model.TacticDefensive, model.TacticBalanced, model.TacticAttacking:
	default:
		return fmt.Errorf("--tactic must be defensive, balanced or attacking")
	}
	if !engine.KnownFormation(cfg.Formation) {
		return fmt.Errorf("unknown formation %q", cfg.Formation)
	}
	if cfg.Difficulty < 0.2 || cfg.Difficulty > 2 {
		return fmt.Errorf("--difficulty must be between 0.2 and 2")
	}
	if cfg.OpponentStrength <= 0 || cfg.OpponentStrength > 100 {
		return fmt.Errorf("--opponent-strength must be between 0 and 100")
	}
	if strings.TrimSpace(cfg.Opponent) == "" {
		return fmt.Errorf("--opponent must not be empty")
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# touchline configuration
# Uncomment a value to enable it. CLI flags override config values.

[club]
# id = ""                     # Club used when --club is not given

[match]
# tactic = %q           # defensive, balanced or attacking
# formation = %q           # Formation string
# difficulty = %.1f             # Opponent strength multiplier (0.2-2)
# opponent-strength = %.1f     # Opponent rating (0-100)
# view-mode = %q            # View mode recorded with results
# home = true                 # Play at home

[log]
# level = %q                # debug, info, warn or error

[server]
# addr = %q       # HTTP API listen address
# cors-origins = ["*"]        # Allowed CORS origins

[forecast]
# runs = %d                  # Simulations per forecast
# workers = 4                 # Concurrent workers
`,
		defaultTactic,
		defaultFormation,
		defaultDifficulty,
		defaultOpponentStrength,
		defaultViewMode,
		defaultLogLevel,
		defaultAddr,
		forecastDefaultRuns,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

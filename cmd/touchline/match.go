package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/touchline/internal/engine"
	"github.com/verte-zerg/touchline/internal/forecast"
	"github.com/verte-zerg/touchline/internal/model"
	"github.com/verte-zerg/touchline/internal/stats"
	"github.com/verte-zerg/touchline/internal/tui"
)

const forecastDefaultRuns = forecast.DefaultRuns

var (
	playDecision string
	playWatch    bool
	replayTick   time.Duration
	simulateJSON bool

	forecastRuns    int
	forecastWorkers int
)

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the next match-day and save it",
		Args:  cobra.NoArgs,
		RunE:  runPlayCmd,
	}
	addMatchFlags(cmd)
	cmd.Flags().StringVar(&playDecision, "decision", "", "pre-match decision id (see: touchline decisions)")
	cmd.Flags().BoolVar(&playWatch, "watch", false, "replay the match in the terminal before the report")
	cmd.Flags().DurationVar(&replayTick, "tick", tui.DefaultTick, "replay time per match minute")
	return cmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	club, err := a.loadClub(ctx)
	if err != nil {
		return err
	}
	cfg, err := matchConfig(cmd, a.cfg)
	if err != nil {
		return err
	}

	report, err := a.engine().PlayMatchDay(club, cfg, engine.Options{Decision: playDecision})
	if err != nil {
		return fmt.Errorf("failed to play match-day: %w", err)
	}
	if err := a.store.InsertMatchDay(ctx, report, time.Now()); err != nil {
		return fmt.Errorf("failed to save match-day: %w", err)
	}
	a.logger.Info().
		Str("id", report.ID).
		Int("matchDay", report.MatchDay).
		Str("seed", report.Result.Seed).
		Msg("match-day saved")

	if playWatch {
		if err := runReplay(club, report.Result); err != nil {
			return err
		}
	}
	return stats.RenderMatchDay(cmd.OutOrStdout(), report)
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate a match without saving it",
		Args:  cobra.NoArgs,
		RunE:  runSimulateCmd,
	}
	addMatchFlags(cmd)
	cmd.Flags().BoolVar(&simulateJSON, "json", false, "print the full result as JSON")
	return cmd
}

func runSimulateCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	club, err := a.loadClub(cmd.Context())
	if err != nil {
		return err
	}
	cfg, err := matchConfig(cmd, a.cfg)
	if err != nil {
		return err
	}
	res, err := a.engine().SimulateMatch(club, cfg, engine.Options{})
	if err != nil {
		return fmt.Errorf("failed to simulate match: %w", err)
	}
	if simulateJSON {
		return writeJSON(cmd.OutOrStdout(), res)
	}
	return stats.RenderMatch(cmd.OutOrStdout(), club.Name, res)
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [matchday-id]",
		Short: "Replay a saved match-day, or a fresh simulation, in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runWatchCmd,
	}
	addMatchFlags(cmd)
	cmd.Flags().DurationVar(&replayTick, "tick", tui.DefaultTick, "replay time per match minute")
	return cmd
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	if len(args) == 1 {
		report, err := a.store.GetMatchDay(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to load match-day: %w", err)
		}
		return runReplay(report.Club, report.Result)
	}

	club, err := a.loadClub(ctx)
	if err != nil {
		return err
	}
	cfg, err := matchConfig(cmd, a.cfg)
	if err != nil {
		return err
	}
	res, err := a.engine().SimulateMatch(club, cfg, engine.Options{})
	if err != nil {
		return fmt.Errorf("failed to simulate match: %w", err)
	}
	return runReplay(club, res)
}

func runReplay(club model.Club, res model.MatchResult) error {
	m := tui.NewModel(club, res, replayTick)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run replay TUI: %w", err)
	}
	return nil
}

func newForecastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Estimate result probabilities from many simulations",
		Args:  cobra.NoArgs,
		RunE:  runForecastCmd,
	}
	addMatchFlags(cmd)
	cmd.Flags().IntVar(&forecastRuns, "runs", forecast.DefaultRuns, "number of simulations")
	cmd.Flags().IntVar(&forecastWorkers, "workers", runtime.NumCPU(), "concurrent workers")
	return cmd
}

func runForecastCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	applyIntConfig(cmd, "runs", &forecastRuns, a.cfg.Forecast.Runs)
	applyIntConfig(cmd, "workers", &forecastWorkers, a.cfg.Forecast.Workers)
	if forecastRuns <= 0 {
		return fmt.Errorf("--runs must be > 0")
	}

	club, err := a.loadClub(cmd.Context())
	if err != nil {
		return err
	}
	cfg, err := matchConfig(cmd, a.cfg)
	if err != nil {
		return err
	}
	started := time.Now()
	res, err := forecast.Run(cmd.Context(), club, cfg, forecastRuns, forecastWorkers)
	if err != nil {
		return err
	}
	a.logger.Debug().
		Int("runs", res.Runs).
		Int("workers", forecastWorkers).
		Dur("took", time.Since(started)).
		Msg("forecast finished")
	return renderForecast(cmd.OutOrStdout(), club.Name, cfg.Opponent, res)
}

func renderForecast(w io.Writer, clubName, opponent string, res forecast.Result) error {
	lines := []string{
		fmt.Sprintf("%s vs %s: %d simulations (seed %s)", clubName, opponent, res.Runs, res.Seed),
		fmt.Sprintf("Win %.1f%%  Draw %.1f%%  Loss %.1f%%", res.WinProb*100, res.DrawProb*100, res.LossProb*100),
		fmt.Sprintf("Average score %.2f-%.2f  xG %.2f-%.2f  possession %.1f%%",
			res.AvgGoalsFor, res.AvgGoalsAgainst, res.AvgXGFor, res.AvgXGAgainst, res.AvgPossession),
		"Most likely scorelines:",
	}
	for i, s := range res.Scorelines {
		if i == 5 {
			break
		}
		lines = append(lines, fmt.Sprintf("  %-5s %5.1f%%", s.String(), s.Share*100))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

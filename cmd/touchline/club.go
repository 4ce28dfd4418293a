package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/touchline/internal/decision"
	"github.com/verte-zerg/touchline/internal/model"
	"github.com/verte-zerg/touchline/internal/roster"
	"github.com/verte-zerg/touchline/internal/server"
	"github.com/verte-zerg/touchline/internal/stats"
	"github.com/verte-zerg/touchline/internal/statsui"
)

var (
	initName   string
	initRoster string
	initSeed   string

	squadPosition  string
	squadAvailable bool

	seasonSince       string
	seasonLast        int
	seasonCurveWindow int
	seasonText        bool
	seasonTop         int

	serveAddr    string
	serveOrigins []string
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a club from a roster file or a generated squad",
		Args:  cobra.NoArgs,
		RunE:  runInitCmd,
	}
	cmd.Flags().StringVar(&initName, "name", "", "club name for a generated squad")
	cmd.Flags().StringVar(&initRoster, "roster", "", "roster file (.toml, .yaml, .yml)")
	cmd.Flags().StringVar(&initSeed, "seed", "", "seed for the generated squad")
	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	var club model.Club
	switch {
	case initRoster != "":
		club, err = roster.Load(initRoster)
		if err != nil {
			return fmt.Errorf("failed to load roster: %w", err)
		}
	case strings.TrimSpace(initName) != "":
		seed := initSeed
		if seed == "" {
			seed = initName
		}
		club, err = roster.Generate(strings.TrimSpace(initName), seed)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("pass --roster <file> or --name <club name>")
	}

	if err := a.store.SaveClub(cmd.Context(), club); err != nil {
		return fmt.Errorf("failed to save club: %w", err)
	}
	a.logger.Info().Str("id", club.ID).Int("players", len(club.Squad)).Msg("club created")
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "Created %s (%d players)\nClub id: %s\n", club.Name, len(club.Squad), club.ID); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if clubID == "" {
		logErrf("Set it as default with [club] id = %q in the config (touchline config)\n", club.ID)
	}
	return nil
}

func newClubsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clubs",
		Short: "List saved clubs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			clubs, err := a.store.ListClubs(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list clubs: %w", err)
			}
			return stats.RenderClubs(cmd.OutOrStdout(), clubs)
		},
	}
}

func newSquadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "squad",
		Short: "Show the squad and season player totals",
		Args:  cobra.NoArgs,
		RunE:  runSquadCmd,
	}
	cmd.Flags().StringVar(&squadPosition, "position", "", "only show one position (GK, DEF, MID, FWD)")
	cmd.Flags().BoolVar(&squadAvailable, "available", false, "hide injured and suspended players")
	return cmd
}

func runSquadCmd(cmd *cobra.Command, _ []string) error {
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
	var filters []roster.FilterFunc
	if squadPosition != "" {
		pos, ok := roster.ParsePosition(squadPosition)
		if !ok {
			return fmt.Errorf("unknown position %q", squadPosition)
		}
		filters = append(filters, roster.ByPosition(pos))
	}
	if squadAvailable {
		filters = append(filters, roster.Available)
	}

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "%s  budget %s  reputation %.0f  match-day %d\n\n",
		club.Name, club.Budget.StringFixed(2), club.Reputation, club.MatchDay); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderRoster(out, roster.Filter(club.Squad, filters...)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	totals, err := a.store.PlayerTotals(ctx, model.SeasonQuery{ClubID: club.ID})
	if err != nil {
		return fmt.Errorf("failed to load player totals: %w", err)
	}
	return stats.RenderSquadTable(out, totals)
}

func newSeasonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "season",
		Short: "Show season stats",
		Args:  cobra.NoArgs,
		RunE:  runSeasonCmd,
	}
	cmd.Flags().StringVar(&seasonSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&seasonLast, "last", 0, "limit to last N match-days")
	cmd.Flags().IntVar(&seasonCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&seasonText, "text", false, "print a text report instead of the interactive browser")
	cmd.Flags().IntVar(&seasonTop, "top", 5, "rows in the top scorer and assist lists")
	return cmd
}

func runSeasonCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if seasonSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", seasonSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if seasonLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if seasonCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}

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
	q := model.SeasonQuery{
		ClubID:      club.ID,
		Since:       sinceTime,
		Last:        seasonLast,
		CurveWindow: seasonCurveWindow,
	}

	if !seasonText {
		m := statsui.NewModel(a.store, q)
		program := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run season TUI: %w", err)
		}
		return nil
	}

	report, err := stats.BuildReport(ctx, a.store, q)
	if err != nil {
		return fmt.Errorf("failed to build season report: %w", err)
	}
	return renderSeasonText(cmd, club.Name, report, q.CurveWindow)
}

func renderSeasonText(cmd *cobra.Command, clubName string, report stats.Report, window int) error {
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "%s\n\n", clubName); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderSummary(out, report.MatchDays); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(report.MatchDays) == 0 {
		return nil
	}
	if err := stats.RenderResults(out, report.MatchDays); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderCurves(out, report.MatchDays, window); err != nil {
		return fmt.Errorf("failed to render curves: %w", err)
	}
	lists := []struct {
		title string
		aggs  []model.PlayerAggregate
	}{
		{"Top scorers", stats.TopScorers(report.Players, seasonTop)},
		{"Top assists", stats.TopAssists(report.Players, seasonTop)},
		{fmt.Sprintf("Best rated (last %d)", window), stats.BestRated(report.PlayersWindow, seasonTop, 1)},
	}
	for _, l := range lists {
		if len(l.aggs) == 0 {
			continue
		}
		if _, err := fmt.Fprintln(out, l.title); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := stats.RenderSquadTable(out, l.aggs); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newDecisionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decisions",
		Short: "List pre-match decisions and their odds for the club",
		Args:  cobra.NoArgs,
		RunE:  runDecisionsCmd,
	}
}

func runDecisionsCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	var club model.Club
	if clubID != "" {
		club, err = a.loadClub(cmd.Context())
		if err != nil {
			return err
		}
	}
	out := cmd.OutOrStdout()
	for _, d := range a.decisions().Catalog() {
		line := fmt.Sprintf("%-18s %-6s %3.0f%%  %s", d.ID, d.Risk, decision.Chance(d, club)*100, d.Title)
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if d.Description != "" {
			if _, err := fmt.Fprintf(out, "%-18s %s\n", "", d.Description); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
	}
	return nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringSliceVar(&serveOrigins, "cors-origin", nil, "allowed CORS origins (default: *)")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	applyStringConfig(cmd, "addr", &serveAddr, a.cfg.Server.Addr)
	if !cmd.Flags().Changed("cors-origin") && len(a.cfg.Server.CORSOrigins) > 0 {
		serveOrigins = a.cfg.Server.CORSOrigins
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(a.store, a.engine(), a.decisions(), a.logger)
	return srv.ListenAndServe(ctx, serveAddr, serveOrigins)
}

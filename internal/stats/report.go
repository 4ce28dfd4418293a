package stats

import (
	"context"

	"github.com/verte-zerg/touchline/internal/model"
)

// Source is the read side of the store used by season reports.
type Source interface {
	ListMatchDays(ctx context.Context, q model.SeasonQuery) ([]model.MatchDaySummary, error)
	PlayerTotals(ctx context.Context, q model.SeasonQuery) ([]model.PlayerAggregate, error)
}

// Report contains precomputed data for season rendering.
type Report struct {
	MatchDays     []model.MatchDaySummary
	Players       []model.PlayerAggregate
	PlayersWindow []model.PlayerAggregate
}

// BuildReport loads and prepares data for season rendering. PlayersWindow
// covers only the last CurveWindow match-days of the selection.
func BuildReport(ctx context.Context, src Source, q model.SeasonQuery) (Report, error) {
	days, err := src.ListMatchDays(ctx, q)
	if err != nil {
		return Report{}, err
	}
	players, err := src.PlayerTotals(ctx, q)
	if err != nil {
		return Report{}, err
	}

	windowQuery := q
	if q.CurveWindow > 0 && (q.Last <= 0 || q.CurveWindow < q.Last) {
		windowQuery.Last = q.CurveWindow
	}
	window, err := src.PlayerTotals(ctx, windowQuery)
	if err != nil {
		return Report{}, err
	}

	return Report{
		MatchDays:     days,
		Players:       players,
		PlayersWindow: window,
	}, nil
}

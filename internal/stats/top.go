package stats

import (
	"sort"

	"github.com/verte-zerg/touchline/internal/model"
)

// TopScorers returns the top n players by goals, then assists.
func TopScorers(aggs []model.PlayerAggregate, n int) []model.PlayerAggregate {
	return topBy(aggs, n, func(a model.PlayerAggregate) (int, int) { return a.Goals, a.Assists })
}

// TopAssists returns the top n players by assists, then goals.
func TopAssists(aggs []model.PlayerAggregate, n int) []model.PlayerAggregate {
	return topBy(aggs, n, func(a model.PlayerAggregate) (int, int) { return a.Assists, a.Goals })
}

// BestRated returns the top n players by average rating among those with at
// least minApps appearances.
func BestRated(aggs []model.PlayerAggregate, n, minApps int) []model.PlayerAggregate {
	items := make([]model.PlayerAggregate, 0, len(aggs))
	for _, a := range aggs {
		if a.Apps >= minApps && a.Apps > 0 {
			items = append(items, a)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := items[i].AverageRating(), items[j].AverageRating()
		if ri == rj {
			return items[i].PlayerID < items[j].PlayerID
		}
		return ri > rj
	})
	return truncate(items, n)
}

func topBy(aggs []model.PlayerAggregate, n int, key func(model.PlayerAggregate) (int, int)) []model.PlayerAggregate {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	items := make([]model.PlayerAggregate, 0, len(aggs))
	for _, a := range aggs {
		if primary, _ := key(a); primary > 0 {
			items = append(items, a)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		pi, si := key(items[i])
		pj, sj := key(items[j])
		if pi != pj {
			return pi > pj
		}
		if si != sj {
			return si > sj
		}
		return items[i].PlayerID < items[j].PlayerID
	})
	return truncate(items, n)
}

func truncate(items []model.PlayerAggregate, n int) []model.PlayerAggregate {
	if n > 0 && n < len(items) {
		return items[:n]
	}
	return items
}

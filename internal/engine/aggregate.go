package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/verte-zerg/touchline/internal/model"
	"github.com/verte-zerg/touchline/internal/rng"
)

const mvpShortlist = 3

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// result finalizes the live state into an immutable MatchResult. It draws
// once from the RNG for the MVP pick.
func (s *matchState) result() model.MatchResult {
	if remaining := matchMinutes - s.minute; remaining > 0 {
		for _, id := range s.lineup {
			s.contribution(id).minutes += remaining
		}
	}

	contributions := make([]model.PlayerContribution, 0, len(s.order))
	for _, id := range s.order {
		c := s.contribs[id]
		contributions = append(contributions, model.PlayerContribution{
			PlayerID:        id,
			Name:            c.player.Name,
			Position:        c.player.Position,
			Started:         c.started,
			Rating:          round(c.rating, 2),
			Goals:           c.goals,
			Assists:         c.assists,
			Shots:           c.shots,
			ShotsOnTarget:   c.shotsOnTarget,
			PassesAttempted: int(math.Round(c.passesAttempted)),
			PassesCompleted: int(math.Round(c.passesCompleted)),
			Saves:           c.saves,
			Minutes:         min(c.minutes, matchMinutes),
			YellowCards:     c.yellows,
			SentOff:         c.sentOff,
			DoubleYellow:    c.doubleYellow,
			RedCards:        c.reds,
			Injury:          c.injury,
		})
	}

	stats := s.tally.stats
	possession := round(s.tally.possessionFor/segmentCount, 1)
	stats.Possession = model.FloatPair{For: possession, Against: round(100-possession, 1)}
	stats.ExpectedGoals = model.FloatPair{For: round(s.tally.xgFor, 2), Against: round(s.tally.xgAgainst, 2)}
	stats.PassesAttempted = model.IntPair{
		For:     int(math.Round(s.tally.passesAttFor)),
		Against: int(math.Round(s.tally.passesAttAgainst)),
	}
	stats.PassesCompleted = model.IntPair{
		For:     int(math.Round(s.tally.passesCompFor)),
		Against: int(math.Round(s.tally.passesCompAgainst)),
	}

	mvp := pickMVP(contributions, s.rng)
	narrative := append([]string{}, s.narrative...)
	narrative = append(narrative, s.summaryLine())
	if mvp != "" {
		narrative = append(narrative, fmt.Sprintf("Player of the match: %s.", s.name(mvp)))
	}

	commentary := make([]string, 0, len(s.events))
	for _, ev := range s.events {
		commentary = append(commentary, fmt.Sprintf("%d' %s", ev.Minute, ev.Description))
	}

	return model.MatchResult{
		Opponent:          s.opponentName,
		Home:              s.cfg.Home,
		GoalsFor:          s.goalsFor,
		GoalsAgainst:      s.goalsAgainst,
		Events:            s.events,
		MVP:               mvp,
		Narrative:         narrative,
		Contributions:     contributions,
		Statistics:        stats,
		Commentary:        commentary,
		ViewMode:          s.cfg.ViewMode,
		Formation:         formationOrDefault(s.cfg.Formation),
		Lineup:            s.startLineup,
		Bench:             s.startBench,
		SubstitutionsUsed: s.subsUsed,
		Fielded:           s.fielded,
	}
}

func formationOrDefault(f string) string {
	if f == "" {
		return defaultFormation
	}
	return f
}

func (s *matchState) summaryLine() string {
	switch {
	case s.goalsFor > s.goalsAgainst:
		return fmt.Sprintf("A %d-%d win over %s.", s.goalsFor, s.goalsAgainst, s.opponentName)
	case s.goalsFor < s.goalsAgainst:
		return fmt.Sprintf("A %d-%d defeat to %s.", s.goalsFor, s.goalsAgainst, s.opponentName)
	default:
		return fmt.Sprintf("A %d-%d draw with %s.", s.goalsFor, s.goalsAgainst, s.opponentName)
	}
}

// pickMVP chooses uniformly among the three best-rated players.
func pickMVP(contributions []model.PlayerContribution, src rng.Source) string {
	if len(contributions) == 0 {
		return ""
	}
	ranked := append([]model.PlayerContribution(nil), contributions...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Rating > ranked[j].Rating
	})
	n := min(mvpShortlist, len(ranked))
	return ranked[rng.Intn(src, n)].PlayerID
}

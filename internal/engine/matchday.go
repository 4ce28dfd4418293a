package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/verte-zerg/touchline/internal/model"
	"github.com/verte-zerg/touchline/internal/rng"
)

const (
	winMorale       = 6.0
	drawMorale      = 1.0
	lossMorale      = -6.0
	benchShare      = 0.3
	benchPenalty    = 1.2
	fitnessPerMin   = 0.12
	restRecovery    = 5.0
	injuryFitness   = 30.0
	cleanSheetMins  = 75
	yellowThreshold = 5
	formLength      = 5
)

// PlayMatchDay simulates the match and returns the next club state. The
// input club is left untouched. A decision outcome that is not yet applied
// is folded in once and then marked applied, so repeating the call with the
// same outcome adds nothing further. With a fixed seed every field of the
// report is reproducible except ID, which is a fresh UUID on each call.
func (e *Engine) PlayMatchDay(club model.Club, cfg model.MatchConfig, opts Options) (model.MatchDayReport, error) {
	if len(club.Squad) == 0 {
		return model.MatchDayReport{}, ErrEmptySquad
	}
	if opts.RNG == nil {
		opts.Seed = rng.ResolveSeed(opts.seed(cfg))
	}
	if opts.DecisionOutcome == nil && opts.Decision != "" {
		if e.decisions == nil {
			return model.MatchDayReport{}, fmt.Errorf("no decision resolver for %q", opts.Decision)
		}
		outcome, err := e.decisions.Resolve(club, opts.Decision, rng.FromSeed(opts.Seed+"/decision"))
		if err != nil {
			return model.MatchDayReport{}, fmt.Errorf("failed to resolve decision: %w", err)
		}
		opts.DecisionOutcome = &outcome
	}

	result, err := e.SimulateMatch(club, cfg, opts)
	if err != nil {
		return model.MatchDayReport{}, err
	}

	var finance model.FinanceReport
	if e.finance != nil {
		finance = e.finance.Calculate(club, result)
	}

	outcome := opts.DecisionOutcome
	applyDecision := outcome != nil && !outcome.AppliedToClub
	var reputationDelta, moraleDelta float64
	budgetDelta := finance.Net
	if applyDecision {
		reputationDelta += outcome.ReputationDelta
		moraleDelta += outcome.MoraleDelta
		budgetDelta = budgetDelta.Add(outcome.FinanceDelta)
	}
	if impact := finance.StaffImpact; impact != nil {
		reputationDelta += impact.ReputationDelta
		moraleDelta += impact.MoraleDelta
		budgetDelta = budgetDelta.Add(impact.BudgetDelta)
	}

	next := club.Clone()
	next.MatchDay++
	bench := map[string]bool{}
	for _, id := range result.Bench {
		bench[id] = true
	}
	for i, p := range next.Squad {
		next.Squad[i] = updatePlayer(p, result, moraleDelta, bench[p.ID])
	}

	next.Budget = next.Budget.Add(budgetDelta)
	next.Reputation = clampFloat(next.Reputation+reputationDelta, -100, 100)
	next.Season = updateSeason(next.Season, result)
	if finance.UpdatedSponsors != nil {
		next.Sponsors = append([]model.Sponsor(nil), finance.UpdatedSponsors...)
	}

	var reported *model.DecisionOutcome
	if outcome != nil {
		if applyDecision {
			next.DecisionLog = append(next.DecisionLog, model.DecisionEntry{
				MatchDay:        next.MatchDay,
				DecisionID:      outcome.DecisionID,
				Success:         outcome.Success,
				ReputationDelta: outcome.ReputationDelta,
				MoraleDelta:     outcome.MoraleDelta,
				FinanceDelta:    outcome.FinanceDelta,
				Narrative:       outcome.Narrative,
			})
		}
		outcome.AppliedToClub = true
		copied := *outcome
		reported = &copied
	}

	e.logger.Debug().
		Str("club", club.ID).
		Int("matchday", next.MatchDay).
		Str("score", fmt.Sprintf("%d-%d", result.GoalsFor, result.GoalsAgainst)).
		Str("seed", result.Seed).
		Bool("decision", applyDecision).
		Msg("match-day played")

	return model.MatchDayReport{
		ID:              uuid.NewString(),
		MatchDay:        next.MatchDay,
		Result:          result,
		DecisionOutcome: reported,
		FinanceDelta:    budgetDelta,
		Finance:         finance,
		Club:            next,
	}, nil
}

func resultMorale(result model.MatchResult) float64 {
	switch result.Outcome() {
	case "W":
		return winMorale
	case "L":
		return lossMorale
	default:
		return drawMorale
	}
}

func severityMatches(severity string) int {
	switch severity {
	case model.SeveritySevere:
		return 3
	case model.SeverityModerate:
		return 2
	case model.SeverityMinor:
		return 1
	default:
		return 0
	}
}

func updatePlayer(p model.Player, result model.MatchResult, moraleDelta float64, benched bool) model.Player {
	c, played := result.Contribution(p.ID)
	shift := resultMorale(result)

	morale := p.Morale + moraleDelta
	switch {
	case played:
		morale += shift
		if c.Rating >= 7.5 {
			morale += 2
		} else if c.Rating <= 5.5 {
			morale -= 2
		}
		if c.SentOff {
			morale -= 4
		}
	case benched:
		morale += shift*benchShare - benchPenalty
	}
	p.Morale = clampFloat(morale, -100, 100)

	if played {
		p.Fitness -= fitnessPerMin * float64(c.Minutes)
	} else {
		p.Fitness += restRecovery
	}
	if c.Injury != "" {
		p.Fitness -= injuryFitness
	}
	p.Fitness = clampFloat(p.Fitness, 0, 100)

	av := p.Availability
	if played {
		av = model.Availability{}
	} else {
		av.InjuryMatches = max(0, av.InjuryMatches-1)
		av.SuspensionMatches = max(0, av.SuspensionMatches-1)
	}
	if c.Injury != "" {
		av.InjuryMatches = max(av.InjuryMatches, severityMatches(c.Injury))
	}
	if c.SentOff {
		ban := min(3, c.RedCards*2)
		if c.DoubleYellow {
			ban = 1
		}
		av.SuspensionMatches = max(av.SuspensionMatches, ban)
	}
	if before, after := p.Season.YellowCards, p.Season.YellowCards+c.YellowCards; after/yellowThreshold > before/yellowThreshold {
		av.SuspensionMatches++
	}
	p.Availability = av

	if !played {
		return p
	}

	s := p.Season
	s.Matches++
	s.Minutes += c.Minutes
	s.Goals += c.Goals
	s.Assists += c.Assists
	s.YellowCards += c.YellowCards
	s.RedCards += c.RedCards
	if c.Injury != "" {
		s.Injuries++
	}
	if p.Position == model.Goalkeeper && c.Minutes >= cleanSheetMins && result.GoalsAgainst == 0 {
		s.CleanSheets++
	}
	p.Season = s
	p.Attributes = drift(p, c)
	return p
}

// drift nudges attributes after a performance. Growth stops at 99 and
// decline stops at 30.
func drift(p model.Player, c model.PlayerContribution) model.Attributes {
	a := p.Attributes
	if c.Rating >= 7.8 {
		a.Passing = grow(a.Passing)
		switch p.Position {
		case model.Goalkeeper, model.Defender:
			a.Defending = grow(a.Defending)
		case model.Midfielder:
			a.Dribbling = grow(a.Dribbling)
		case model.Forward:
			a.Shooting = grow(a.Shooting)
		}
	}
	if c.Rating <= 5.2 {
		a.Stamina = decline(a.Stamina)
		a.Passing = decline(a.Passing)
	}
	if p.Age > 0 && p.Age <= 24 && c.Rating >= 7.2 {
		a.Dribbling = grow(a.Dribbling)
	}
	if p.Age >= 32 && c.Minutes >= 70 {
		a.Pace = decline(a.Pace)
		a.Stamina = decline(a.Stamina)
	}
	return a
}

func grow(v int) int {
	if v >= 99 {
		return v
	}
	return v + 1
}

func decline(v int) int {
	if v <= 30 {
		return v
	}
	return v - 1
}

func updateSeason(s model.SeasonStats, result model.MatchResult) model.SeasonStats {
	s.Played++
	s.GoalsFor += result.GoalsFor
	s.GoalsAgainst += result.GoalsAgainst
	s.PossessionTotal += result.Statistics.Possession.For
	outcome := result.Outcome()
	switch outcome {
	case "W":
		s.Wins++
		s.UnbeatenStreak++
	case "D":
		s.Draws++
		s.UnbeatenStreak++
	default:
		s.Losses++
		s.UnbeatenStreak = 0
	}
	s.Form = append(append([]string(nil), s.Form...), outcome)
	if len(s.Form) > formLength {
		s.Form = s.Form[len(s.Form)-formLength:]
	}
	return s
}


package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/verte-zerg/touchline/internal/model"
	"github.com/verte-zerg/touchline/internal/rng"
)

// ErrEmptySquad is returned when the club has no players at all.
var ErrEmptySquad = errors.New("club squad is empty")

// SimulateMatch plays one match for club under cfg. The club is never
// modified. With no RNG in opts, the seed (opts.Seed, then cfg.Seed, else a
// fresh one) drives a Mulberry32 source and is echoed in the result.
func (e *Engine) SimulateMatch(club model.Club, cfg model.MatchConfig, opts Options) (model.MatchResult, error) {
	if len(club.Squad) == 0 {
		return model.MatchResult{}, ErrEmptySquad
	}
	src, seed := opts.source(cfg)
	s := newMatchState(club, cfg, src, opts.DecisionOutcome, e.logger)
	s.run()
	res := s.result()
	res.Seed = seed
	return res, nil
}

func (s *matchState) run() {
	s.addEvent(model.MatchEvent{
		Type:        model.EventIntro,
		Description: fmt.Sprintf("Kick-off against %s, lining up in a %s.", s.opponentName, s.formation),
	})
	for seg := 1; seg <= segmentCount; seg++ {
		s.playSegment(seg * segmentLength)
	}
	s.addEvent(model.MatchEvent{
		Type:        model.EventFullTime,
		Description: fmt.Sprintf("Full time: %d-%d against %s.", s.goalsFor, s.goalsAgainst, s.opponentName),
	})
}

// playSegment advances the match by one five-minute block. The order of the
// rolls below fixes the draw order of the RNG.
func (s *matchState) playSegment(minute int) {
	elapsed := minute - s.minute
	s.minute = minute
	for _, id := range s.lineup {
		s.contribution(id).minutes += elapsed
	}
	s.applyDueAdjustments()
	s.recompute()

	possession := s.rollPossession()
	s.simulatePassing(possession)
	s.rollInjury()
	s.rollCard()
	s.rollOpponentFoul()
	s.rollShot()
	s.rollOpponentShot()
	s.rollPenalty()
}

func (s *matchState) recompute() {
	s.strength = CalculateClubStrength(s.fieldedPlayers(), s.tactic, s.formation, s.cfg.Home, moraleBoost(s.outcome))
	s.opponent = OpponentStrength(s.cfg, s.outcome)
	s.profile = Profile(s.instructions)
}

func (s *matchState) diff() float64 {
	return s.strength.Total - s.opponent
}

func (s *matchState) rollPossession() float64 {
	p := clampFloat(50+0.35*s.diff()+100*s.profile.PossessionBias+40*TacticBias(s.tactic), 25, 75)
	s.tally.possessionFor += p
	s.tally.possessionAgainst += 100 - p
	return p
}

func (s *matchState) simulatePassing(possession float64) {
	players := s.fieldedPlayers()
	jitter := (s.rng.Float64() - 0.5) * 0.04

	oppAttempts := math.Max(4, (100-possession)*0.45)
	oppAccuracy := clampFloat(0.5+s.opponent/100*0.3-jitter, 0.4, 0.9)
	s.tally.passesAttAgainst += oppAttempts
	s.tally.passesCompAgainst += oppAttempts * oppAccuracy

	if len(players) == 0 {
		return
	}
	var total float64
	for _, p := range players {
		total += float64(p.Attributes.Passing)
	}
	quality := total / float64(len(players)) / 100
	attempts := math.Max(4, possession*0.5+s.profile.PassAttempts*0.5)
	accuracy := clampFloat(0.55+quality*0.35+s.profile.PassAccuracy+jitter, 0.4, 0.95)
	completed := attempts * accuracy
	s.tally.passesAttFor += attempts
	s.tally.passesCompFor += completed

	for _, p := range players {
		share := 1 / float64(len(players))
		if total > 0 {
			share = float64(p.Attributes.Passing) / total
		}
		c := s.contribution(p.ID)
		c.passesAttempted += attempts * share
		c.passesCompleted += completed * share
		c.rating += 0.01 * completed * share
	}
}

func (s *matchState) rollInjury() {
	chance := injuryChance(s.minute, s.profile.FatigueMultiplier)
	roll := s.rng.Float64()
	if roll < chance {
		players := s.fieldedPlayers()
		victim, ok := rng.SelectWeighted(players, func(p model.Player) float64 {
			return float64(110 - p.Attributes.Stamina)
		}, s.rng)
		if ok {
			s.injure(victim, injurySeverity(roll/chance))
		}
	}
	if s.rng.Float64() < 0.02 {
		s.tally.stats.Injuries.Against++
		s.addEvent(model.MatchEvent{
			Type:        model.EventInjury,
			Description: fmt.Sprintf("%s need treatment on the pitch.", s.opponentName),
		})
	}
}

// injuryChance is the per-segment probability that one of our fielded
// players is injured. It grows with the clock.
func injuryChance(minute int, fatigueMultiplier float64) float64 {
	fatigueRisk := math.Max(0.02, float64(minute)/130) * fatigueMultiplier
	return 0.04 + fatigueRisk
}

func injurySeverity(ratio float64) string {
	switch {
	case ratio < 0.2:
		return model.SeveritySevere
	case ratio < 0.5:
		return model.SeverityModerate
	default:
		return model.SeverityMinor
	}
}

func (s *matchState) injure(p model.Player, severity string) {
	c := s.contribution(p.ID)
	c.rating -= 0.4
	c.injury = severity
	s.removeFromLineup(p.ID)
	s.tally.stats.Injuries.For++
	s.addEvent(model.MatchEvent{
		Type:        model.EventInjury,
		Description: fmt.Sprintf("%s goes down injured (%s).", p.Name, severity),
		PlayerID:    p.ID,
		Severity:    severity,
	})
	s.replaceInjured(p)
}

func (s *matchState) rollCard() {
	if s.rng.Float64() >= 0.12+s.profile.FoulRisk {
		return
	}
	offender, ok := rng.SelectWeighted(s.fieldedPlayers(), func(p model.Player) float64 {
		return float64(p.Attributes.Defending + 1)
	}, s.rng)
	if !ok {
		return
	}
	s.tally.stats.Fouls.For++
	if s.rng.Float64() < 0.03 {
		s.sendOff(offender, false)
		return
	}
	s.yellows[offender.ID]++
	c := s.contribution(offender.ID)
	c.yellows++
	s.tally.stats.YellowCards.For++
	if s.yellows[offender.ID] >= 2 {
		s.sendOff(offender, true)
		return
	}
	c.rating -= 0.3
	s.addEvent(model.MatchEvent{
		Type:        model.EventYellowCard,
		Description: fmt.Sprintf("%s is booked.", offender.Name),
		PlayerID:    offender.ID,
		CardCount:   1,
	})
}

func (s *matchState) sendOff(p model.Player, doubleYellow bool) {
	c := s.contribution(p.ID)
	c.sentOff = true
	c.reds++
	s.sentOff[p.ID] = true
	s.tally.stats.RedCards.For++
	s.removeFromLineup(p.ID)
	if doubleYellow {
		c.doubleYellow = true
		c.rating -= 1.1
		s.addEvent(model.MatchEvent{
			Type:        model.EventSecondYellow,
			Description: fmt.Sprintf("Second yellow for %s, who is sent off.", p.Name),
			PlayerID:    p.ID,
			CardCount:   2,
		})
	} else {
		c.rating -= 1.5
		s.addEvent(model.MatchEvent{
			Type:        model.EventRedCard,
			Description: fmt.Sprintf("Straight red card for %s!", p.Name),
			PlayerID:    p.ID,
		})
	}
	if p.Position == model.Goalkeeper {
		s.emergencyGoalkeeper(p)
	}
}

func (s *matchState) rollOpponentFoul() {
	if s.rng.Float64() >= 0.10 {
		return
	}
	s.tally.stats.Fouls.Against++
	if s.rng.Float64() < 0.1 {
		s.tally.stats.RedCards.Against++
		s.addEvent(model.MatchEvent{
			Type:        model.EventOpponentRed,
			Description: fmt.Sprintf("%s are down to fewer men after a red card.", s.opponentName),
		})
		return
	}
	s.tally.stats.YellowCards.Against++
	s.addEvent(model.MatchEvent{
		Type:        model.EventOpponentYellow,
		Description: fmt.Sprintf("A %s player goes into the book.", s.opponentName),
	})
}

func (s *matchState) rollShot() {
	diff := s.diff()
	chance := clampFloat(0.2+diff/170+s.profile.ChanceBias+TacticBias(s.tactic), 0.05, 0.65)
	if s.rng.Float64() >= chance {
		return
	}
	shooter, ok := rng.SelectWeighted(s.outfieldPlayers(), func(p model.Player) float64 {
		return float64(p.Attributes.Shooting + 1)
	}, s.rng)
	if !ok {
		return
	}
	shooting := float64(shooter.Attributes.Shooting)
	c := s.contribution(shooter.ID)
	c.shots++
	s.tally.stats.Shots.For++
	s.tally.xgFor += clampFloat(0.08+shooting/1000+diff/900+s.profile.ChanceBias*0.5, 0.03, 0.45)

	if s.rng.Float64() >= clampFloat(0.35+shooting/250+s.profile.ChanceBias, 0.2, 0.8) {
		c.rating -= 0.05
		s.addEvent(model.MatchEvent{
			Type:        model.EventChance,
			Description: fmt.Sprintf("%s drags a shot wide.", shooter.Name),
			PlayerID:    shooter.ID,
		})
		return
	}
	c.shotsOnTarget++
	c.rating += 0.1
	s.tally.stats.ShotsOnTarget.For++

	if s.rng.Float64() >= clampFloat(0.3+(shooting-s.opponent*0.6)/300+diff/400, 0.1, 0.7) {
		s.tally.stats.Saves.Against++
		s.addEvent(model.MatchEvent{
			Type:        model.EventSaveAgainst,
			Description: fmt.Sprintf("%s forces a save from the %s keeper.", shooter.Name, s.opponentName),
			PlayerID:    shooter.ID,
		})
		return
	}

	s.goalsFor++
	c.goals++
	c.rating += 1.0
	candidates := make([]model.Player, 0, len(s.lineup))
	for _, p := range s.fieldedPlayers() {
		if p.ID != shooter.ID {
			candidates = append(candidates, p)
		}
	}
	assister, ok := rng.SelectWeighted(candidates, func(p model.Player) float64 {
		return float64(p.Attributes.Passing + 1)
	}, s.rng)
	if !ok {
		s.addEvent(model.MatchEvent{
			Type:        model.EventGoal,
			Description: fmt.Sprintf("GOAL! %s scores on their own. %d-%d.", shooter.Name, s.goalsFor, s.goalsAgainst),
			PlayerID:    shooter.ID,
		})
		return
	}
	ac := s.contribution(assister.ID)
	ac.assists++
	ac.rating += 0.6
	s.addEvent(model.MatchEvent{
		Type:            model.EventGoal,
		Description:     fmt.Sprintf("GOAL! %s finishes after a pass from %s. %d-%d.", shooter.Name, assister.Name, s.goalsFor, s.goalsAgainst),
		PlayerID:        shooter.ID,
		RelatedPlayerID: assister.ID,
	})
}

func (s *matchState) rollOpponentShot() {
	diff := s.diff()
	chance := clampFloat(0.16-diff/170-s.profile.DefenseBias-TacticBias(s.tactic)*0.5, 0.04, 0.55)
	if s.rng.Float64() >= chance {
		return
	}
	s.tally.stats.Shots.Against++
	s.tally.xgAgainst += clampFloat(0.1-diff/900, 0.03, 0.4)

	if s.rng.Float64() >= 0.4 {
		s.addEvent(model.MatchEvent{
			Type:        model.EventChanceAgainst,
			Description: fmt.Sprintf("%s shoot over the bar.", s.opponentName),
		})
		return
	}
	s.tally.stats.ShotsOnTarget.Against++

	keeper, hasKeeper := s.goalkeeper()
	quality := 30.0
	if hasKeeper {
		quality = float64(keeper.Attributes.Defending)
	}
	if s.rng.Float64() < clampFloat(0.32+(s.opponent-quality)/300-s.profile.DefenseBias, 0.08, 0.7) {
		s.goalsAgainst++
		ev := model.MatchEvent{
			Type:        model.EventGoalAgainst,
			Description: fmt.Sprintf("%s score. %d-%d.", s.opponentName, s.goalsFor, s.goalsAgainst),
		}
		if hasKeeper {
			s.contribution(keeper.ID).rating -= 0.3
			ev.PlayerID = keeper.ID
		}
		s.addEvent(ev)
		return
	}
	s.tally.stats.Saves.For++
	ev := model.MatchEvent{
		Type:        model.EventSave,
		Description: fmt.Sprintf("Good save to deny %s.", s.opponentName),
	}
	if hasKeeper {
		kc := s.contribution(keeper.ID)
		kc.saves++
		kc.rating += 0.25
		ev.PlayerID = keeper.ID
		ev.Description = fmt.Sprintf("%s saves from a %s effort.", keeper.Name, s.opponentName)
	}
	s.addEvent(ev)
}

// rollPenalty keeps penalties out of the open-play shot tallies; they still
// feed expected goals.
func (s *matchState) rollPenalty() {
	if s.rng.Float64() >= 0.04+s.profile.FoulRisk*0.5 {
		return
	}
	bias := TacticBias(s.tactic)
	if s.rng.Float64() < 0.5+bias {
		s.ourPenalty(bias)
		return
	}
	s.theirPenalty()
}

func (s *matchState) ourPenalty(bias float64) {
	taker, ok := bestBy(s.outfieldPlayers(), func(p model.Player) int { return p.Attributes.Shooting })
	if !ok {
		return
	}
	s.tally.xgFor += 0.76
	c := s.contribution(taker.ID)
	if s.rng.Float64() < clampFloat(0.77+0.2*bias, 0.5, 0.95) {
		s.goalsFor++
		c.goals++
		c.rating += 0.8
		s.addEvent(model.MatchEvent{
			Type:        model.EventPenaltyGoal,
			Description: fmt.Sprintf("%s converts the penalty. %d-%d.", taker.Name, s.goalsFor, s.goalsAgainst),
			PlayerID:    taker.ID,
		})
		return
	}
	c.rating -= 0.5
	s.addEvent(model.MatchEvent{
		Type:        model.EventPenaltyMiss,
		Description: fmt.Sprintf("%s misses from the spot.", taker.Name),
		PlayerID:    taker.ID,
	})
}

func (s *matchState) theirPenalty() {
	s.tally.stats.Fouls.For++
	s.tally.xgAgainst += 0.76
	keeper, hasKeeper := s.goalkeeper()
	if s.rng.Float64() < clampFloat(0.77-0.5*s.profile.DefenseBias, 0.5, 0.95) {
		s.goalsAgainst++
		ev := model.MatchEvent{
			Type:        model.EventPenaltyGoalAgainst,
			Description: fmt.Sprintf("%s score from the penalty spot. %d-%d.", s.opponentName, s.goalsFor, s.goalsAgainst),
		}
		if hasKeeper {
			s.contribution(keeper.ID).rating -= 0.1
			ev.PlayerID = keeper.ID
		}
		s.addEvent(ev)
		return
	}
	ev := model.MatchEvent{
		Type:        model.EventPenaltySaved,
		Description: fmt.Sprintf("The %s penalty is kept out!", s.opponentName),
	}
	if hasKeeper {
		kc := s.contribution(keeper.ID)
		kc.saves++
		kc.rating += 0.8
		ev.PlayerID = keeper.ID
		ev.Description = fmt.Sprintf("%s saves the %s penalty!", keeper.Name, s.opponentName)
	}
	s.addEvent(ev)
}

package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/verte-zerg/touchline/internal/model"
)

// applyDueAdjustments applies every scheduled adjustment whose trigger has
// been reached, once each, in schedule order.
func (s *matchState) applyDueAdjustments() {
	for i, sched := range s.schedule {
		if s.applied[i] || s.minute < sched.trigger {
			continue
		}
		s.applied[i] = true
		s.applyAdjustment(sched)
	}
}

func (s *matchState) applyAdjustment(sched scheduledAdjustment) {
	adj := sched.adj
	var changes []string
	if adj.Tactic != "" {
		t := normalizeTactic(adj.Tactic)
		if t != s.tactic {
			s.tactic = t
			changes = append(changes, "switch to a "+string(t)+" approach")
		}
	}
	if f := strings.TrimSpace(adj.Formation); f != "" && f != s.formation {
		s.formation = f
		changes = append(changes, "reshape into a "+f)
	}
	if adj.Instructions != nil {
		next := adj.Instructions.Apply(s.instructions)
		if next != s.instructions {
			s.instructions = next
			changes = append(changes, "adjust their instructions")
		}
	}
	if len(changes) > 0 {
		s.addEvent(model.MatchEvent{
			Type:        model.EventTactical,
			Description: fmt.Sprintf("%s: the team %s.", sched.label, strings.Join(changes, " and ")),
		})
	}
	for _, sub := range adj.Substitutions {
		if s.subsUsed >= maxSubstitutions {
			s.logger.Debug().Int("minute", s.minute).Str("dropped", sub.Out).Msg("substitution cap reached")
			break
		}
		reason := sub.Reason
		if reason == "" {
			reason = strings.ToLower(sched.label) + " change"
		}
		s.substitute(sub.Out, sub.In, reason)
	}
	s.logger.Debug().
		Str("label", sched.label).
		Int("minute", s.minute).
		Str("tactic", string(s.tactic)).
		Str("formation", s.formation).
		Msg("adjustment applied")
}

// substitute swaps a fielded player for a benched one. It reports false and
// leaves the state untouched when either id is stale or no slot remains.
func (s *matchState) substitute(out, in, reason string) bool {
	idx := slices.Index(s.lineup, out)
	if idx < 0 || !slices.Contains(s.bench, in) || s.subsUsed >= maxSubstitutions {
		return false
	}
	s.lineup[idx] = in
	s.enter(in)
	s.addEvent(model.MatchEvent{
		Type:            model.EventSubstitution,
		Description:     fmt.Sprintf("%s replaces %s (%s).", s.name(in), s.name(out), reason),
		PlayerID:        in,
		RelatedPlayerID: out,
	})
	return true
}

// enter moves id from the bench onto the pitch bookkeeping; the caller has
// already placed it in the lineup.
func (s *matchState) enter(id string) {
	s.bench = slices.DeleteFunc(s.bench, func(v string) bool { return v == id })
	s.subsUsed++
	s.markFielded(id)
	s.contribution(id)
}

func (s *matchState) benchPlayers() []model.Player {
	out := make([]model.Player, 0, len(s.bench))
	for _, id := range s.bench {
		if p, ok := s.squad[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// replaceInjured brings on a like-for-like bench player, falling back to the
// quickest one available.
func (s *matchState) replaceInjured(injured model.Player) {
	if s.subsUsed >= maxSubstitutions {
		return
	}
	bench := s.benchPlayers()
	if len(bench) == 0 {
		return
	}
	var pick model.Player
	found := false
	for _, p := range bench {
		if p.Position == injured.Position {
			pick, found = p, true
			break
		}
	}
	if !found {
		pick, _ = bestBy(bench, func(p model.Player) int { return p.Attributes.Pace })
	}
	s.lineup = append(s.lineup, pick.ID)
	s.enter(pick.ID)
	s.addEvent(model.MatchEvent{
		Type:            model.EventSubstitution,
		Description:     fmt.Sprintf("%s comes on for the injured %s.", pick.Name, injured.Name),
		PlayerID:        pick.ID,
		RelatedPlayerID: injured.ID,
	})
}

// emergencyGoalkeeper reacts to the keeper being sent off. A bench keeper is
// brought on, replacing the weakest outfield player when the side is
// otherwise at its legal maximum.
func (s *matchState) emergencyGoalkeeper(sentOff model.Player) {
	var keepers []model.Player
	for _, p := range s.benchPlayers() {
		if p.Position == model.Goalkeeper {
			keepers = append(keepers, p)
		}
	}
	reserve, ok := bestBy(keepers, func(p model.Player) int { return p.Attributes.Defending })
	if !ok || s.subsUsed >= maxSubstitutions {
		s.improvised = ""
		stand, has := s.goalkeeper()
		if has {
			s.narrative = append(s.narrative, fmt.Sprintf("%d' %s is sent off and %s will have to improvise in goal.", s.minute, sentOff.Name, stand.Name))
		} else {
			s.narrative = append(s.narrative, fmt.Sprintf("%d' %s is sent off and the team will have to improvise in goal.", s.minute, sentOff.Name))
		}
		s.logger.Debug().Int("minute", s.minute).Int("subs", s.subsUsed).Msg("no reserve goalkeeper")
		return
	}

	maxOnPitch := fullSide - len(s.sentOff)
	if len(s.lineup)+1 > maxOnPitch {
		out, ok := s.weakestOutfield()
		if ok && s.substitute(out, reserve.ID, "emergency goalkeeper") {
			s.logger.Debug().Int("minute", s.minute).Str("in", reserve.ID).Str("out", out).Msg("emergency goalkeeper swap")
			return
		}
	}
	s.lineup = append(s.lineup, reserve.ID)
	s.enter(reserve.ID)
	s.addEvent(model.MatchEvent{
		Type:        model.EventSubstitution,
		Description: fmt.Sprintf("%s comes on in goal after the dismissal of %s.", reserve.Name, sentOff.Name),
		PlayerID:    reserve.ID,
	})
	s.logger.Debug().Int("minute", s.minute).Str("in", reserve.ID).Msg("emergency goalkeeper added")
}

func (s *matchState) weakestOutfield() (string, bool) {
	best := ""
	lowest := 0.0
	for _, id := range s.lineup {
		p, ok := s.squad[id]
		if !ok || p.Position == model.Goalkeeper {
			continue
		}
		r := s.contribution(id).rating
		if best == "" || r < lowest {
			best, lowest = id, r
		}
	}
	return best, best != ""
}

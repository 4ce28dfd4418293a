package engine

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/touchline/internal/model"
	"github.com/verte-zerg/touchline/internal/rng"
)

const (
	segmentCount     = 18
	segmentLength    = 5
	matchMinutes     = segmentCount * segmentLength
	maxSubstitutions = 5
	halftimeTrigger  = 50
	adhocTrigger     = 70
	defaultFormation = "4-4-2"
	defaultBenchSize = 7
)

// contribution is the live, unrounded match line for one player.
type contribution struct {
	player          model.Player
	started         bool
	rating          float64
	goals           int
	assists         int
	shots           int
	shotsOnTarget   int
	saves           int
	yellows         int
	reds            int
	passesAttempted float64
	passesCompleted float64
	minutes         int
	sentOff         bool
	doubleYellow    bool
	injury          string
}

type tally struct {
	possessionFor     float64
	possessionAgainst float64
	passesAttFor      float64
	passesAttAgainst  float64
	passesCompFor     float64
	passesCompAgainst float64
	xgFor             float64
	xgAgainst         float64
	stats             model.MatchStatistics
}

type scheduledAdjustment struct {
	trigger int
	label   string
	adj     model.Adjustment
}

// matchState is the single mutable context threaded through the segment
// loop and the adjustment applier.
type matchState struct {
	cfg     model.MatchConfig
	squad   map[string]model.Player
	rng     rng.Source
	logger  zerolog.Logger
	outcome *model.DecisionOutcome

	opponentName string
	minute       int
	tactic       model.Tactic
	formation    string
	instructions model.Instructions
	lineup       []string
	bench        []string
	yellows      map[string]int
	sentOff      map[string]bool
	subsUsed     int
	schedule     []scheduledAdjustment
	applied      map[int]bool
	fielded      []string
	improvised   string

	startLineup []string
	startBench  []string

	strength Strength
	opponent float64
	profile  InstructionProfile

	contribs  map[string]*contribution
	order     []string
	events    []model.MatchEvent
	narrative []string
	tally     tally

	goalsFor     int
	goalsAgainst int
}

func newMatchState(club model.Club, cfg model.MatchConfig, src rng.Source, outcome *model.DecisionOutcome, logger zerolog.Logger) *matchState {
	s := &matchState{
		cfg:          cfg,
		squad:        make(map[string]model.Player, len(club.Squad)),
		rng:          src,
		logger:       logger,
		outcome:      outcome,
		opponentName: cfg.Opponent,
		tactic:       normalizeTactic(cfg.Tactic),
		formation:    cfg.Formation,
		instructions: cfg.Instructions,
		yellows:      map[string]int{},
		sentOff:      map[string]bool{},
		applied:      map[int]bool{},
		contribs:     map[string]*contribution{},
	}
	if s.opponentName == "" {
		s.opponentName = "the opposition"
	}
	if s.formation == "" {
		s.formation = defaultFormation
	}
	for _, p := range club.Squad {
		s.squad[p.ID] = p
	}

	lineup, bench := ResolveLineup(club, cfg.Lineup, cfg.Bench)
	if len(lineup) != len(cfg.Lineup) || !slices.Equal(lineup, cfg.Lineup) {
		s.logger.Debug().Int("requested", len(cfg.Lineup)).Int("fielded", len(lineup)).Msg("lineup fallback applied")
	}
	s.lineup = lineup
	s.bench = bench
	s.startLineup = append([]string(nil), lineup...)
	s.startBench = append([]string(nil), bench...)
	for _, id := range lineup {
		s.markFielded(id)
		s.contribution(id)
	}
	s.schedule = buildSchedule(cfg)
	return s
}

// ResolveLineup validates the requested starters and bench against the
// squad. Invalid, duplicate or unavailable ids are dropped; the starting
// side is topped up to eleven from the remaining eligible squad members in
// squad order. An empty bench request takes the next eligible players.
func ResolveLineup(club model.Club, lineup, bench []string) ([]string, []string) {
	eligible := map[string]bool{}
	for _, p := range club.Squad {
		if p.Availability.Eligible() {
			eligible[p.ID] = true
		}
	}
	used := map[string]bool{}
	starters := make([]string, 0, fullSide)
	for _, id := range lineup {
		if len(starters) == fullSide {
			break
		}
		if eligible[id] && !used[id] {
			starters = append(starters, id)
			used[id] = true
		}
	}
	reservedBench := map[string]bool{}
	for _, id := range bench {
		reservedBench[id] = true
	}
	if len(starters) < fullSide {
		for _, p := range club.Squad {
			if len(starters) == fullSide {
				break
			}
			if eligible[p.ID] && !used[p.ID] && !reservedBench[p.ID] {
				starters = append(starters, p.ID)
				used[p.ID] = true
			}
		}
	}
	if len(starters) < fullSide {
		for _, id := range bench {
			if len(starters) == fullSide {
				break
			}
			if eligible[id] && !used[id] {
				starters = append(starters, id)
				used[id] = true
			}
		}
	}

	subs := make([]string, 0, len(bench))
	for _, id := range bench {
		if eligible[id] && !used[id] {
			subs = append(subs, id)
			used[id] = true
		}
	}
	if len(bench) == 0 {
		for _, p := range club.Squad {
			if len(subs) == defaultBenchSize {
				break
			}
			if eligible[p.ID] && !used[p.ID] {
				subs = append(subs, p.ID)
				used[p.ID] = true
			}
		}
	}
	return starters, subs
}

func buildSchedule(cfg model.MatchConfig) []scheduledAdjustment {
	var out []scheduledAdjustment
	if cfg.Halftime != nil {
		trigger := cfg.Halftime.Minute
		if trigger <= 0 {
			trigger = halftimeTrigger
		}
		out = append(out, scheduledAdjustment{trigger: trigger, label: "Half-time", adj: *cfg.Halftime})
	}
	for i, adj := range cfg.Adjustments {
		trigger := adj.Minute
		if trigger <= 0 {
			trigger = adhocTrigger
		}
		out = append(out, scheduledAdjustment{trigger: trigger, label: fmt.Sprintf("Plan %d", i+1), adj: adj})
	}
	return out
}

func baseRating(pos model.Position) float64 {
	switch pos {
	case model.Goalkeeper, model.Defender:
		return 6.0
	case model.Midfielder:
		return 6.1
	case model.Forward:
		return 6.2
	default:
		return 6.0
	}
}

// contribution looks up or lazily creates the match line for id.
func (s *matchState) contribution(id string) *contribution {
	if c, ok := s.contribs[id]; ok {
		return c
	}
	p, ok := s.squad[id]
	if !ok {
		p = model.Player{ID: id, Name: id}
	}
	c := &contribution{player: p, rating: 5.4}
	if slices.Contains(s.startLineup, id) {
		c.started = true
		c.rating = baseRating(p.Position)
	} else if slices.Contains(s.fielded, id) {
		c.rating = 5.8
	}
	s.contribs[id] = c
	s.order = append(s.order, id)
	return c
}

func (s *matchState) markFielded(id string) {
	if !slices.Contains(s.fielded, id) {
		s.fielded = append(s.fielded, id)
	}
}

func (s *matchState) name(id string) string {
	if p, ok := s.squad[id]; ok && p.Name != "" {
		return p.Name
	}
	return id
}

func (s *matchState) fieldedPlayers() []model.Player {
	out := make([]model.Player, 0, len(s.lineup))
	for _, id := range s.lineup {
		if p, ok := s.squad[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (s *matchState) outfieldPlayers() []model.Player {
	all := s.fieldedPlayers()
	out := make([]model.Player, 0, len(all))
	for _, p := range all {
		if p.Position != model.Goalkeeper {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return all
	}
	return out
}

// goalkeeper returns who is in goal: a fielded keeper, else the improvised
// one, else the best defender on the pitch.
func (s *matchState) goalkeeper() (model.Player, bool) {
	for _, p := range s.fieldedPlayers() {
		if p.Position == model.Goalkeeper {
			return p, true
		}
	}
	if s.improvised != "" && slices.Contains(s.lineup, s.improvised) {
		return s.squad[s.improvised], true
	}
	best, ok := bestBy(s.fieldedPlayers(), func(p model.Player) int { return p.Attributes.Defending })
	if ok {
		s.improvised = best.ID
	}
	return best, ok
}

func (s *matchState) addEvent(ev model.MatchEvent) {
	ev.Minute = s.minute
	s.events = append(s.events, ev)
}

func (s *matchState) removeFromLineup(id string) {
	s.lineup = slices.DeleteFunc(s.lineup, func(v string) bool { return v == id })
}

func bestBy(players []model.Player, score func(model.Player) int) (model.Player, bool) {
	if len(players) == 0 {
		return model.Player{}, false
	}
	best := players[0]
	for _, p := range players[1:] {
		if score(p) > score(best) {
			best = p
		}
	}
	return best, true
}

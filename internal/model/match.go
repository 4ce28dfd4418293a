package model

import "github.com/shopspring/decimal"

// Instructions fine-tune how the team plays.
type Instructions struct {
	Pressing      string `json:"pressing" toml:"pressing"` // low|medium|high
	Tempo         string `json:"tempo" toml:"tempo"`       // slow|normal|fast
	Width         string `json:"width" toml:"width"`       // narrow|normal|wide
	CounterAttack bool   `json:"counterAttack" toml:"counter-attack"`
	ThroughMiddle bool   `json:"throughMiddle" toml:"through-middle"`
}

// InstructionOverrides merges into Instructions; nil fields keep the current value.
type InstructionOverrides struct {
	Pressing      *string `json:"pressing,omitempty" toml:"pressing"`
	Tempo         *string `json:"tempo,omitempty" toml:"tempo"`
	Width         *string `json:"width,omitempty" toml:"width"`
	CounterAttack *bool   `json:"counterAttack,omitempty" toml:"counter-attack"`
	ThroughMiddle *bool   `json:"throughMiddle,omitempty" toml:"through-middle"`
}

// Apply returns base with the overrides merged in.
func (o *InstructionOverrides) Apply(base Instructions) Instructions {
	if o == nil {
		return base
	}
	if o.Pressing != nil {
		base.Pressing = *o.Pressing
	}
	if o.Tempo != nil {
		base.Tempo = *o.Tempo
	}
	if o.Width != nil {
		base.Width = *o.Width
	}
	if o.CounterAttack != nil {
		base.CounterAttack = *o.CounterAttack
	}
	if o.ThroughMiddle != nil {
		base.ThroughMiddle = *o.ThroughMiddle
	}
	return base
}

// Substitution swaps a fielded player for a benched one.
type Substitution struct {
	Out    string `json:"out" toml:"out"`
	In     string `json:"in" toml:"in"`
	Reason string `json:"reason,omitempty" toml:"reason"`
}

// Adjustment is a scheduled tactical change. Minute 0 means the default trigger.
type Adjustment struct {
	Minute        int                   `json:"minute,omitempty" toml:"minute"`
	Tactic        Tactic                `json:"tactic,omitempty" toml:"tactic"`
	Formation     string                `json:"formation,omitempty" toml:"formation"`
	Instructions  *InstructionOverrides `json:"instructions,omitempty" toml:"instructions"`
	Substitutions []Substitution        `json:"substitutions,omitempty" toml:"substitutions"`
}

// MatchConfig is the immutable input for one match.
type MatchConfig struct {
	Opponent         string       `json:"opponent"`
	Home             bool         `json:"home"`
	OpponentStrength float64      `json:"opponentStrength"`
	Difficulty       float64      `json:"difficulty"`
	Tactic           Tactic       `json:"tactic"`
	Formation        string       `json:"formation"`
	Lineup           []string     `json:"lineup"`
	Bench            []string     `json:"bench"`
	Instructions     Instructions `json:"instructions"`
	Halftime         *Adjustment  `json:"halftime,omitempty"`
	Adjustments      []Adjustment `json:"adjustments,omitempty"`
	Seed             string       `json:"seed,omitempty"`
	ViewMode         string       `json:"viewMode,omitempty"`
}

// EventType classifies timeline entries.
type EventType string

// Timeline event types.
const (
	EventIntro              EventType = "intro"
	EventGoal               EventType = "goal"
	EventGoalAgainst        EventType = "goal_against"
	EventPenaltyGoal        EventType = "penalty_goal"
	EventPenaltyMiss        EventType = "penalty_miss"
	EventPenaltyGoalAgainst EventType = "penalty_goal_against"
	EventPenaltySaved       EventType = "penalty_saved"
	EventYellowCard         EventType = "yellow_card"
	EventSecondYellow       EventType = "second_yellow"
	EventRedCard            EventType = "red_card"
	EventOpponentYellow     EventType = "opponent_yellow"
	EventOpponentRed        EventType = "opponent_red"
	EventInjury             EventType = "injury"
	EventSubstitution       EventType = "substitution"
	EventSave               EventType = "save"
	EventSaveAgainst        EventType = "save_against"
	EventChance             EventType = "chance"
	EventChanceAgainst      EventType = "chance_against"
	EventTactical           EventType = "tactical"
	EventFullTime           EventType = "full_time"
)

// Injury severities.
const (
	SeverityMinor    = "minor"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"
)

// MatchEvent is one timeline entry. Events are ordered by minute, then insertion.
type MatchEvent struct {
	Minute          int       `json:"minute"`
	Type            EventType `json:"type"`
	Description     string    `json:"description"`
	PlayerID        string    `json:"playerId,omitempty"`
	RelatedPlayerID string    `json:"relatedPlayerId,omitempty"`
	Severity        string    `json:"severity,omitempty"`
	CardCount       int       `json:"cardCount,omitempty"`
}

// PlayerContribution is a finalized per-player match line.
type PlayerContribution struct {
	PlayerID        string   `json:"playerId"`
	Name            string   `json:"name"`
	Position        Position `json:"position"`
	Started         bool     `json:"started"`
	Rating          float64  `json:"rating"`
	Goals           int      `json:"goals"`
	Assists         int      `json:"assists"`
	Shots           int      `json:"shots"`
	ShotsOnTarget   int      `json:"shotsOnTarget"`
	PassesAttempted int      `json:"passesAttempted"`
	PassesCompleted int      `json:"passesCompleted"`
	Saves           int      `json:"saves"`
	Minutes         int      `json:"minutes"`
	YellowCards     int      `json:"yellowCards"`
	SentOff         bool     `json:"sentOff"`
	DoubleYellow    bool     `json:"doubleYellow"`
	RedCards        int      `json:"redCards"`
	Injury          string   `json:"injury,omitempty"`
}

// IntPair holds a for/against integer statistic.
type IntPair struct {
	For     int `json:"for"`
	Against int `json:"against"`
}

// FloatPair holds a for/against real statistic.
type FloatPair struct {
	For     float64 `json:"for"`
	Against float64 `json:"against"`
}

// MatchStatistics are team-level aggregates.
type MatchStatistics struct {
	Possession      FloatPair `json:"possession"`
	Shots           IntPair   `json:"shots"`
	ShotsOnTarget   IntPair   `json:"shotsOnTarget"`
	ExpectedGoals   FloatPair `json:"expectedGoals"`
	PassesAttempted IntPair   `json:"passesAttempted"`
	PassesCompleted IntPair   `json:"passesCompleted"`
	Fouls           IntPair   `json:"fouls"`
	YellowCards     IntPair   `json:"yellowCards"`
	RedCards        IntPair   `json:"redCards"`
	Injuries        IntPair   `json:"injuries"`
	Saves           IntPair   `json:"saves"`
}

// MatchResult is the immutable outcome of one simulation.
type MatchResult struct {
	Opponent          string               `json:"opponent"`
	Home              bool                 `json:"home"`
	GoalsFor          int                  `json:"goalsFor"`
	GoalsAgainst      int                  `json:"goalsAgainst"`
	Events            []MatchEvent         `json:"events"`
	MVP               string               `json:"mvp"`
	Narrative         []string             `json:"narrative"`
	Contributions     []PlayerContribution `json:"contributions"`
	Statistics        MatchStatistics      `json:"statistics"`
	Commentary        []string             `json:"commentary"`
	ViewMode          string               `json:"viewMode"`
	Seed              string               `json:"seed"`
	Formation         string               `json:"formation"`
	Lineup            []string             `json:"lineup"`
	Bench             []string             `json:"bench"`
	SubstitutionsUsed int                  `json:"substitutionsUsed"`
	Fielded           []string             `json:"fielded"`
}

// Outcome returns "W", "D" or "L".
func (r MatchResult) Outcome() string {
	switch {
	case r.GoalsFor > r.GoalsAgainst:
		return "W"
	case r.GoalsFor < r.GoalsAgainst:
		return "L"
	default:
		return "D"
	}
}

// Contribution returns the line for a player id.
func (r MatchResult) Contribution(id string) (PlayerContribution, bool) {
	for _, c := range r.Contributions {
		if c.PlayerID == id {
			return c, true
		}
	}
	return PlayerContribution{}, false
}

// DecisionOutcome is the resolved result of a risky pre-match decision.
type DecisionOutcome struct {
	DecisionID      string          `json:"decisionId"`
	Success         bool            `json:"success"`
	ReputationDelta float64         `json:"reputationDelta"`
	MoraleDelta     float64         `json:"moraleDelta"`
	FinanceDelta    decimal.Decimal `json:"financeDelta"`
	RiskLevel       string          `json:"riskLevel"`
	Sanctions       string          `json:"sanctions,omitempty"`
	Narrative       string          `json:"narrative"`
	AppliedToClub   bool            `json:"appliedToClub"`
}

// LineItem is one named amount in a finance breakdown.
type LineItem struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// StaffImpact collects staff-driven side effects of a match-day.
type StaffImpact struct {
	MoraleDelta     float64         `json:"moraleDelta"`
	ReputationDelta float64         `json:"reputationDelta"`
	BudgetDelta     decimal.Decimal `json:"budgetDelta"`
	Notes           []string        `json:"notes"`
}

// FinanceReport is the finance engine's match-day breakdown.
type FinanceReport struct {
	Income           decimal.Decimal `json:"income"`
	Expenses         decimal.Decimal `json:"expenses"`
	Net              decimal.Decimal `json:"net"`
	IncomeBreakdown  []LineItem      `json:"incomeBreakdown"`
	ExpenseBreakdown []LineItem      `json:"expenseBreakdown"`
	Notes            []string        `json:"notes"`
	Attendance       int             `json:"attendance"`
	UpdatedSponsors  []Sponsor       `json:"updatedSponsors"`
	StaffImpact      *StaffImpact    `json:"staffImpact,omitempty"`
}

// MatchDayReport is the externally visible unit of work for one match-day.
type MatchDayReport struct {
	ID              string           `json:"id"`
	MatchDay        int              `json:"matchDay"`
	Result          MatchResult      `json:"result"`
	DecisionOutcome *DecisionOutcome `json:"decisionOutcome,omitempty"`
	FinanceDelta    decimal.Decimal  `json:"financeDelta"`
	Finance         FinanceReport    `json:"finance"`
	Club            Club             `json:"club"`
}

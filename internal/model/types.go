// Package model defines shared data structures.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is a player's pitch role.
type Position string

// Player positions.
const (
	Goalkeeper Position = "GK"
	Defender   Position = "DEF"
	Midfielder Position = "MID"
	Forward    Position = "FWD"
)

// Tactic is the team's overall approach.
type Tactic string

// Supported tactics. Unknown values behave like TacticBalanced.
const (
	TacticDefensive Tactic = "defensive"
	TacticBalanced  Tactic = "balanced"
	TacticAttacking Tactic = "attacking"
)

// Attributes are 0-99 player ratings.
type Attributes struct {
	Pace       int `json:"pace" toml:"pace" yaml:"pace"`
	Stamina    int `json:"stamina" toml:"stamina" yaml:"stamina"`
	Dribbling  int `json:"dribbling" toml:"dribbling" yaml:"dribbling"`
	Passing    int `json:"passing" toml:"passing" yaml:"passing"`
	Shooting   int `json:"shooting" toml:"shooting" yaml:"shooting"`
	Defending  int `json:"defending" toml:"defending" yaml:"defending"`
	Leadership int `json:"leadership" toml:"leadership" yaml:"leadership"`
	Potential  int `json:"potential" toml:"potential" yaml:"potential"`
}

// Availability tracks matches a player must still sit out. Zero means eligible.
type Availability struct {
	InjuryMatches     int `json:"injuryMatches" toml:"injury-matches" yaml:"injury_matches"`
	SuspensionMatches int `json:"suspensionMatches" toml:"suspension-matches" yaml:"suspension_matches"`
}

// Eligible reports whether the player may be selected.
func (a Availability) Eligible() bool {
	return a.InjuryMatches == 0 && a.SuspensionMatches == 0
}

// SeasonLog accumulates a player's season record.
type SeasonLog struct {
	Matches     int `json:"matches"`
	Minutes     int `json:"minutes"`
	Goals       int `json:"goals"`
	Assists     int `json:"assists"`
	YellowCards int `json:"yellowCards"`
	RedCards    int `json:"redCards"`
	Injuries    int `json:"injuries"`
	CleanSheets int `json:"cleanSheets"`
}

// Player is a squad member. Players are replaced wholesale after each match-day.
type Player struct {
	ID           string          `json:"id" toml:"id" yaml:"id"`
	Name         string          `json:"name" toml:"name" yaml:"name"`
	Age          int             `json:"age" toml:"age" yaml:"age"`
	Position     Position        `json:"position" toml:"position" yaml:"position"`
	Attributes   Attributes      `json:"attributes" toml:"attributes" yaml:"attributes"`
	Morale       float64         `json:"morale" toml:"morale" yaml:"morale"`
	Fitness      float64         `json:"fitness" toml:"fitness" yaml:"fitness"`
	Wage         decimal.Decimal `json:"wage" toml:"wage" yaml:"wage"`
	Availability Availability    `json:"availability" toml:"availability" yaml:"availability"`
	Season       SeasonLog       `json:"season" toml:"-" yaml:"-"`
}

// Sponsor is a commercial deal paying per match.
type Sponsor struct {
	Name             string          `json:"name" toml:"name" yaml:"name"`
	PerMatch         decimal.Decimal `json:"perMatch" toml:"per-match" yaml:"per_match"`
	WinBonus         decimal.Decimal `json:"winBonus" toml:"win-bonus" yaml:"win_bonus"`
	RemainingMatches int             `json:"remainingMatches" toml:"remaining-matches" yaml:"remaining_matches"`
}

// StaffMember is a non-playing employee whose quality (0-100) shapes match-day side effects.
type StaffMember struct {
	Name    string          `json:"name" toml:"name" yaml:"name"`
	Role    string          `json:"role" toml:"role" yaml:"role"`
	Quality int             `json:"quality" toml:"quality" yaml:"quality"`
	Wage    decimal.Decimal `json:"wage" toml:"wage" yaml:"wage"`
}

// SeasonStats aggregates club results across match-days.
type SeasonStats struct {
	Played          int      `json:"played"`
	Wins            int      `json:"wins"`
	Draws           int      `json:"draws"`
	Losses          int      `json:"losses"`
	GoalsFor        int      `json:"goalsFor"`
	GoalsAgainst    int      `json:"goalsAgainst"`
	PossessionTotal float64  `json:"possessionTotal"`
	UnbeatenStreak  int      `json:"unbeatenStreak"`
	Form            []string `json:"form"`
}

// Points returns league points (3 per win, 1 per draw).
func (s SeasonStats) Points() int {
	return s.Wins*3 + s.Draws
}

// AveragePossession returns the mean possession across played matches.
func (s SeasonStats) AveragePossession() float64 {
	if s.Played == 0 {
		return 0
	}
	return s.PossessionTotal / float64(s.Played)
}

// DecisionEntry records a decision outcome folded into the club.
type DecisionEntry struct {
	MatchDay        int             `json:"matchDay"`
	DecisionID      string          `json:"decisionId"`
	Success         bool            `json:"success"`
	ReputationDelta float64         `json:"reputationDelta"`
	MoraleDelta     float64         `json:"moraleDelta"`
	FinanceDelta    decimal.Decimal `json:"financeDelta"`
	Narrative       string          `json:"narrative"`
}

// Club is the persistent club state.
type Club struct {
	ID              string          `json:"id" toml:"id" yaml:"id"`
	Name            string          `json:"name" toml:"name" yaml:"name"`
	Budget          decimal.Decimal `json:"budget" toml:"budget" yaml:"budget"`
	Reputation      float64         `json:"reputation" toml:"reputation" yaml:"reputation"`
	StadiumCapacity int             `json:"stadiumCapacity" toml:"stadium-capacity" yaml:"stadium_capacity"`
	TicketPrice     decimal.Decimal `json:"ticketPrice" toml:"ticket-price" yaml:"ticket_price"`
	Squad           []Player        `json:"squad" toml:"players" yaml:"players"`
	Staff           []StaffMember   `json:"staff" toml:"staff" yaml:"staff"`
	Sponsors        []Sponsor       `json:"sponsors" toml:"sponsors" yaml:"sponsors"`
	Season          SeasonStats     `json:"season" toml:"-" yaml:"-"`
	MatchDay        int             `json:"matchDay" toml:"-" yaml:"-"`
	DecisionLog     []DecisionEntry `json:"decisionLog" toml:"-" yaml:"-"`
}

// PlayerByID returns the squad member with the given id.
func (c Club) PlayerByID(id string) (Player, bool) {
	for _, p := range c.Squad {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// Clone returns a deep copy so callers can mutate it without touching the original.
func (c Club) Clone() Club {
	out := c
	out.Squad = append([]Player(nil), c.Squad...)
	out.Staff = append([]StaffMember(nil), c.Staff...)
	out.Sponsors = append([]Sponsor(nil), c.Sponsors...)
	out.Season.Form = append([]string(nil), c.Season.Form...)
	out.DecisionLog = append([]DecisionEntry(nil), c.DecisionLog...)
	return out
}

// ClubSummary is a lightweight listing row for stored clubs.
type ClubSummary struct {
	ID        string
	Name      string
	MatchDay  int
	UpdatedAt time.Time
}

package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/touchline/internal/model"
)

func replayFixture() (model.Club, model.MatchResult) {
	club := model.Club{
		Name: "Harbour Town",
		Squad: []model.Player{
			{ID: "gk", Name: "Sam Keeper", Position: model.Goalkeeper},
			{ID: "st", Name: "Lee Striker", Position: model.Forward},
			{ID: "cb", Name: "Bo Back", Position: model.Defender},
		},
	}
	res := model.MatchResult{
		Opponent:  "Rivals",
		Home:      true,
		GoalsFor:  2,
		Formation: "4-4-2",
		Lineup:    []string{"st", "gk", "cb"},
		Events: []model.MatchEvent{
			{Minute: 0, Type: model.EventIntro, Description: "Kick-off."},
			{Minute: 15, Type: model.EventGoal, Description: "Striker scores!"},
			{Minute: 15, Type: model.EventYellowCard, Description: "Back is booked."},
			{Minute: 60, Type: model.EventPenaltyGoal, Description: "Striker converts the penalty."},
			{Minute: 90, Type: model.EventFullTime, Description: "Full time."},
		},
		Narrative: []string{"Player of the match: Lee Striker."},
	}
	return club, res
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestReplayStartsWithIntro(t *testing.T) {
	club, res := replayFixture()
	m := NewModel(club, res, time.Millisecond)
	if m.shown != 1 || m.minute != 0 || m.Finished() {
		t.Fatalf("unexpected initial state: shown=%d minute=%d", m.shown, m.minute)
	}
	if m.Init() == nil {
		t.Fatalf("expected a tick to be scheduled")
	}
}

func TestReplayTickAdvances(t *testing.T) {
	club, res := replayFixture()
	m := NewModel(club, res, time.Millisecond)
	m.Init()
	for i := 0; i < 15; i++ {
		m.Update(tickMsg(time.Now()))
	}
	if m.minute != 15 || m.shown != 3 || m.goalsFor != 1 {
		t.Fatalf("unexpected state at 15': minute=%d shown=%d goals=%d", m.minute, m.shown, m.goalsFor)
	}
}

func TestReplayNextEventAndFinish(t *testing.T) {
	club, res := replayFixture()
	m := NewModel(club, res, time.Millisecond)

	m.Update(key("n"))
	if m.minute != 15 || m.shown != 3 {
		t.Fatalf("expected to jump to 15', got minute=%d shown=%d", m.minute, m.shown)
	}
	m.Update(key("n"))
	if m.minute != 60 || m.goalsFor != 2 {
		t.Fatalf("expected the penalty at 60', got minute=%d goals=%d", m.minute, m.goalsFor)
	}

	_, cmd := m.Update(key("f"))
	if cmd != nil {
		t.Fatalf("expected no command after finishing")
	}
	if !m.Finished() || m.goalsFor != res.GoalsFor || m.goalsAgainst != res.GoalsAgainst {
		t.Fatalf("unexpected final state %d-%d", m.goalsFor, m.goalsAgainst)
	}
	view := m.View()
	if !strings.Contains(view, "Harbour Town 2 - 0 Rivals") || !strings.Contains(view, "FT") {
		t.Fatalf("unexpected scoreboard:\n%s", view)
	}
	if !strings.Contains(view, "Player of the match") {
		t.Fatalf("expected the narrative after full time")
	}
}

func TestReplayPause(t *testing.T) {
	club, res := replayFixture()
	m := NewModel(club, res, time.Millisecond)
	m.Init()
	m.Update(key(" "))
	if !m.paused {
		t.Fatalf("expected pause")
	}
	_, cmd := m.Update(tickMsg(time.Now()))
	if cmd != nil || m.minute != 0 {
		t.Fatalf("expected the clock to stop while paused")
	}
	_, cmd = m.Update(key(" "))
	if cmd == nil {
		t.Fatalf("expected resume to schedule a tick")
	}
	if !strings.Contains(m.renderFooter(), "playing") {
		t.Fatalf("unexpected footer %q", m.renderFooter())
	}
}

func TestReplayAwayScoreboard(t *testing.T) {
	club, res := replayFixture()
	res.Home = false
	m := NewModel(club, res, time.Millisecond)
	m.advance(90)
	if got := m.renderScoreboard(); !strings.Contains(got, "Rivals 0 - 2 Harbour Town") {
		t.Fatalf("unexpected away scoreboard %q", got)
	}
}

func TestReplayPitchUsesPositions(t *testing.T) {
	club, res := replayFixture()
	m := NewModel(club, res, time.Millisecond)
	pitch := m.renderPitch()
	rows := strings.Split(pitch, "\n")
	if len(rows) != 4 {
		t.Fatalf("expected 4 lines for 4-4-2, got %d", len(rows))
	}
	if !strings.Contains(rows[len(rows)-1], "Keeper") {
		t.Fatalf("expected the keeper on the bottom line, got %q", rows[len(rows)-1])
	}
	if !strings.Contains(rows[len(rows)-2], "Back") {
		t.Fatalf("expected the defender on the back line, got %q", rows[len(rows)-2])
	}
}

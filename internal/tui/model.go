// Package tui provides the Bubble Tea match replay.
package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/touchline/internal/engine"
	"github.com/verte-zerg/touchline/internal/model"
)

// DefaultTick is the replay time per match minute.
const DefaultTick = 250 * time.Millisecond

const (
	commentaryShare = 0.70
	nameWidth       = 8
	fullTime        = 90
)

var (
	scoreStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	goalStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	concedeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#E0C040"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	pitchStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAF5F"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	pitchBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#3A5F3A")).
			Padding(0, 1)
)

type tickMsg time.Time

// Model implements the Bubble Tea replay UI.
type Model struct {
	clubName string
	result   model.MatchResult
	squad    map[string]model.Player
	tick     time.Duration

	width  int
	height int

	minute   int
	shown    int
	paused   bool
	ticking  bool
	finished bool

	goalsFor     int
	goalsAgainst int
}

// NewModel constructs a replay of a finished match. A zero tick uses DefaultTick.
func NewModel(club model.Club, result model.MatchResult, tick time.Duration) *Model {
	if tick <= 0 {
		tick = DefaultTick
	}
	m := &Model{
		clubName: club.Name,
		result:   result,
		squad:    make(map[string]model.Player, len(club.Squad)),
		tick:     tick,
	}
	for _, p := range club.Squad {
		m.squad[p.ID] = p
	}
	m.reveal()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.scheduleTick()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		m.ticking = false
		if m.paused || m.finished {
			return m, nil
		}
		m.advance(m.minute + 1)
		return m, m.scheduleTick()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
			return m, m.scheduleTick()
		case "n":
			m.nextEvent()
			return m, m.scheduleTick()
		case "f":
			m.advance(fullTime)
			return m, nil
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	header := m.renderScoreboard()
	pitch := pitchBoxStyle.Render(m.renderPitch())
	commentaryWidth := max(20, int(float64(width)*commentaryShare))
	commentary := m.renderCommentary(commentaryWidth)
	footer := m.renderFooter()

	body := lipgloss.JoinVertical(lipgloss.Left, header, "", pitch, "", commentary)
	if m.height <= 0 {
		return body + "\n" + footer
	}
	bodyHeight := max(1, m.height-1)
	lines := strings.Split(body, "\n")
	if len(lines) > bodyHeight {
		lines = lines[len(lines)-bodyHeight:]
	}
	content := lipgloss.Place(width, bodyHeight, lipgloss.Center, lipgloss.Top, strings.Join(lines, "\n"))
	return content + "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, footer)
}

// Finished reports whether every event has been revealed.
func (m *Model) Finished() bool {
	return m.finished
}

func (m *Model) scheduleTick() tea.Cmd {
	if m.ticking || m.paused || m.finished {
		return nil
	}
	m.ticking = true
	return tea.Tick(m.tick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// advance moves the clock to minute and reveals everything up to it.
func (m *Model) advance(minute int) {
	m.minute = min(fullTime, max(m.minute, minute))
	m.reveal()
}

// nextEvent jumps the clock to the next unrevealed event.
func (m *Model) nextEvent() {
	if m.shown >= len(m.result.Events) {
		m.advance(fullTime)
		return
	}
	m.advance(m.result.Events[m.shown].Minute)
}

func (m *Model) reveal() {
	events := m.result.Events
	for m.shown < len(events) && events[m.shown].Minute <= m.minute {
		switch events[m.shown].Type {
		case model.EventGoal, model.EventPenaltyGoal:
			m.goalsFor++
		case model.EventGoalAgainst, model.EventPenaltyGoalAgainst:
			m.goalsAgainst++
		}
		m.shown++
	}
	if m.minute >= fullTime && m.shown >= len(events) {
		m.finished = true
	}
}

func (m *Model) renderScoreboard() string {
	home, away := m.clubName, m.result.Opponent
	homeGoals, awayGoals := m.goalsFor, m.goalsAgainst
	if !m.result.Home {
		home, away = away, home
		homeGoals, awayGoals = awayGoals, homeGoals
	}
	clock := fmt.Sprintf("%d'", m.minute)
	if m.finished {
		clock = "FT"
	}
	return scoreStyle.Render(fmt.Sprintf("%s %d - %d %s", home, homeGoals, awayGoals, away)) +
		"  " + pendingStyle.Render(clock)
}

// renderPitch draws the starting formation, attack at the top.
func (m *Model) renderPitch() string {
	lines := engine.Layout(m.result.Formation)
	names := m.lineupByLine(lines)
	rows := make([]string, 0, len(lines))
	rowWidth := 0
	for i := len(lines) - 1; i >= 0; i-- {
		row := strings.Join(names[i], "  ")
		rowWidth = max(rowWidth, lipgloss.Width(row))
		rows = append(rows, row)
	}
	for i, row := range rows {
		rows[i] = pitchStyle.Render(lipgloss.PlaceHorizontal(rowWidth, lipgloss.Center, row))
	}
	return strings.Join(rows, "\n")
}

// lineupByLine assigns starters to formation lines in position order.
func (m *Model) lineupByLine(lines [][]engine.Slot) [][]string {
	starters := append([]string(nil), m.result.Lineup...)
	rank := map[model.Position]int{model.Goalkeeper: 0, model.Defender: 1, model.Midfielder: 2, model.Forward: 3}
	sort.SliceStable(starters, func(i, j int) bool {
		return rank[m.squad[starters[i]].Position] < rank[m.squad[starters[j]].Position]
	})
	out := make([][]string, len(lines))
	next := 0
	for i, line := range lines {
		for range line {
			label := "--"
			if next < len(starters) {
				label = shortName(m.playerName(starters[next]), nameWidth)
				next++
			}
			out[i] = append(out[i], label)
		}
	}
	return out
}

func (m *Model) playerName(id string) string {
	if p, ok := m.squad[id]; ok && p.Name != "" {
		return p.Name
	}
	if c, ok := m.result.Contribution(id); ok && c.Name != "" {
		return c.Name
	}
	return id
}

func (m *Model) renderCommentary(width int) string {
	lines := make([]string, 0, m.shown)
	for _, ev := range m.result.Events[:m.shown] {
		text := fmt.Sprintf("%d' %s", ev.Minute, ev.Description)
		lines = append(lines, wrapText(text, eventStyle(ev.Type), width))
	}
	if m.finished {
		for _, line := range m.result.Narrative {
			lines = append(lines, wrapText(line, pendingStyle, width))
		}
	}
	return strings.Join(lines, "\n")
}

func eventStyle(t model.EventType) lipgloss.Style {
	switch t {
	case model.EventGoal, model.EventPenaltyGoal:
		return goalStyle
	case model.EventGoalAgainst, model.EventPenaltyGoalAgainst:
		return concedeStyle
	case model.EventYellowCard, model.EventSecondYellow, model.EventRedCard:
		return cardStyle
	default:
		return lipgloss.NewStyle()
	}
}

func (m *Model) renderFooter() string {
	state := "playing"
	switch {
	case m.finished:
		state = "full time"
	case m.paused:
		state = "paused"
	}
	segments := []string{
		fmt.Sprintf("Minute %d", m.minute),
		state,
		fmt.Sprintf("Events %d/%d", m.shown, len(m.result.Events)),
		"space pause · n next event · f finish · q quit",
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

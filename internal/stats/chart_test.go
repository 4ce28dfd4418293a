package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/touchline/internal/model"
)

func TestRenderChartPanels(t *testing.T) {
	var buf bytes.Buffer
	err := RenderChart(&buf, "Season Curves", []Curve{
		{Name: "Points/game", Values: []float64{3, 1.5, 1.33, 1.75, 2}, Min: 0, Max: 3},
		{Name: "Possession %", Values: []float64{48, 51, 55, 53, 60}, Min: 25, Max: 75, Format: "%.0f"},
		{Name: "Empty"},
	}, 10, 8, false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 1+2*(1+4) {
		t.Fatalf("expected title plus two panels of four rows, got %d lines:\n%s", len(lines), buf.String())
	}
	if lines[0] != "Season Curves" {
		t.Fatalf("unexpected title %q", lines[0])
	}
	if lines[1] != "Points/game  last 2.0  high 3.0  low 1.3" {
		t.Fatalf("unexpected header %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "  3.0"+axisTick) || !strings.HasPrefix(lines[4], "  1.5"+axisTick) || !strings.HasPrefix(lines[5], "  0.0"+axisTick) {
		t.Fatalf("unexpected points axis:\n%s", strings.Join(lines[2:6], "\n"))
	}
	if !strings.HasPrefix(lines[7], "   75"+axisTick) || !strings.HasPrefix(lines[10], "   25"+axisTick) {
		t.Fatalf("unexpected possession axis:\n%s", strings.Join(lines[7:11], "\n"))
	}
	if strings.Contains(buf.String(), "Empty") {
		t.Fatalf("expected curves without values to be skipped")
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected no color codes")
	}
}

func TestRenderChartNothingToDraw(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderChart(&buf, "Season Curves", []Curve{{Name: "Empty"}}, 10, 4, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestChartWidthFor(t *testing.T) {
	want := 80 - axisLabelWidth - runewidth.StringWidth(axisTick)
	if got := ChartWidthFor(80); got != want {
		t.Fatalf("expected width %d, got %d", want, got)
	}
	if got := ChartWidthFor(0); got != minChartWidth {
		t.Fatalf("expected min width %d, got %d", minChartWidth, got)
	}
	if got := ChartWidthFor(9); got != minChartWidth {
		t.Fatalf("expected min width for a narrow terminal, got %d", got)
	}
}

func TestCanvasFlatLine(t *testing.T) {
	grid := newCanvas(10, 1)
	grid.plot(Curve{Values: []float64{1.5, 1.5}, Min: 0, Max: 3})
	want := strings.Repeat(string(rune(0x2800+0x04+0x20)), 10)
	if got := grid.lines()[0]; got != want {
		t.Fatalf("expected a continuous flat line %q, got %q", want, got)
	}
}

func TestCanvasClampsToScale(t *testing.T) {
	grid := newCanvas(10, 1)
	grid.plot(Curve{Values: []float64{-5, 10}, Min: 0, Max: 3})
	cells := grid.cells[0]
	if cells[0]&0x40 == 0 {
		t.Fatalf("expected the low value on the bottom dot row, got %08b", cells[0])
	}
	if cells[len(cells)-1]&0x08 == 0 {
		t.Fatalf("expected the high value on the top dot row, got %08b", cells[len(cells)-1])
	}
	for i, mask := range cells {
		if mask == 0 {
			t.Fatalf("expected no gap in the line at column %d", i)
		}
	}
}

func TestFitPoints(t *testing.T) {
	got := fitPoints([]float64{1, 3, 2, 2, 5, 7}, 3)
	want := []float64{2, 2, 6}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	short := []float64{1, 2}
	if out := fitPoints(short, 10); len(out) != 2 || out[1] != 2 {
		t.Fatalf("expected short series kept, got %v", out)
	}
}

func TestRenderCurvesLabelsWindow(t *testing.T) {
	days := []model.MatchDaySummary{
		{GoalsFor: 2, GoalsAgainst: 0, PossessionFor: 55},
		{GoalsFor: 1, GoalsAgainst: 1, PossessionFor: 48},
		{GoalsFor: 0, GoalsAgainst: 1, PossessionFor: 41},
	}
	var buf bytes.Buffer
	if err := RenderCurvesWithSize(&buf, days, 3, 60, 6, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Points/game (3-match average)  last 1.3") {
		t.Fatalf("expected the points panel header, got:\n%s", out)
	}
	if !strings.Contains(out, "Possession % (3-match average)  last 48") {
		t.Fatalf("expected the possession panel header, got:\n%s", out)
	}

	buf.Reset()
	if err := RenderCurves(&buf, days, 1); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(buf.String(), "average") {
		t.Fatalf("expected raw values without a window note")
	}
}

package stats

import (
	"strings"
	"testing"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Player", "Goals", "Apps"}
	rows := [][]string{
		{"Ana", "12", "30"},
		{"Bo Def", "3", "7"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Player Goals Apps" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Ana       12   30" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Bo Def     3    7" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Name", "G"}, [][]string{{"李明", "1"}, {"Ed", "2"}}, map[int]bool{1: true})
	if lines[1] != "李明 1" {
		t.Fatalf("unexpected wide row: %q", lines[1])
	}
	if lines[2] != "Ed   2" {
		t.Fatalf("unexpected narrow row: %q", lines[2])
	}
}

func TestFormatTableTruncatesLongCells(t *testing.T) {
	long := strings.Repeat("x", maxCellWidth+10)
	lines := formatTable([]string{"Name"}, [][]string{{long}}, nil)
	if got := displayWidth(lines[1]); got != maxCellWidth {
		t.Fatalf("expected width %d, got %d (%q)", maxCellWidth, got, lines[1])
	}
	if !strings.HasSuffix(lines[1], "…") {
		t.Fatalf("expected an ellipsis, got %q", lines[1])
	}
}

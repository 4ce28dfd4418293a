package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

var plain = lipgloss.NewStyle()

func TestWrapTextBreaksAtSpaces(t *testing.T) {
	got := wrapText("12' Ana shoots wide", plain, 10)
	want := "12' Ana\nshoots\nwide"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWrapTextSplitsLongWords(t *testing.T) {
	got := wrapText("abcdefghij", plain, 4)
	if got != "abcd\nefgh\nij" {
		t.Fatalf("unexpected wrap %q", got)
	}
}

func TestWrapTextWideRunes(t *testing.T) {
	got := wrapText("李明 进球", plain, 5)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 || lines[0] != "李明" || lines[1] != "进球" {
		t.Fatalf("unexpected wide wrap %q", got)
	}
}

func TestWrapTextNoWidth(t *testing.T) {
	if got := wrapText("a b c", plain, 0); got != "a b c" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestShortName(t *testing.T) {
	if got := shortName("Sam Keeper", 4); got != "Keep" {
		t.Fatalf("unexpected short name %q", got)
	}
	if got := shortName("Pele", 8); got != "Pele" {
		t.Fatalf("unexpected short name %q", got)
	}
}

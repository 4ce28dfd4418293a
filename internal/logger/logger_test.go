package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"WARN":    zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"loud":    zerolog.InfoLevel,
	}
	for name, want := range cases {
		if got := ParseLevel(name); got != want {
			t.Fatalf("%q: expected %v, got %v", name, want, got)
		}
	}
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn")
	l.Info().Msg("hidden")
	l.Warn().Str("club", "abc").Msg("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") || !strings.Contains(out, "club=abc") {
		t.Fatalf("unexpected output %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no color codes for a buffer, got %q", out)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvLevel, "error")
	if got := FromEnv(&bytes.Buffer{}, "debug").GetLevel(); got != zerolog.ErrorLevel {
		t.Fatalf("expected env level, got %v", got)
	}
}

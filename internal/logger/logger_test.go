package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	t.Parallel()
	log := Default()
	if log == nil {
		t.Fatal("Default() returned nil")
	}
	log.Debug("debug message")
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	log := Discard()
	log.Error("dropped")
	log.With("k", "v").Warn("dropped too")
}

func TestSetupQuietWritesNothing(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := Setup(&buf, Options{Quiet: true, Verbosity: 3})
	log.Error("should not appear")
	if buf.Len() > 0 {
		t.Fatalf("expected no output when quiet, got: %s", buf.String())
	}
}

func TestSetupJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := Setup(&buf, Options{Format: "json"})
	log.Info("hello", "key", "value")

	output := buf.String()
	if !strings.Contains(output, `"key":"value"`) {
		t.Fatalf("expected key=value in JSON output, got: %s", output)
	}
	if !strings.Contains(output, `"level":"INFO"`) {
		t.Fatalf("expected level INFO in output, got: %s", output)
	}
}

func TestSetupLevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := Setup(&buf, Options{Format: "text"})
	log.Debug("should not appear")
	if buf.Len() > 0 {
		t.Fatalf("expected debug to be filtered at default verbosity, got: %s", buf.String())
	}

	buf.Reset()
	log = Setup(&buf, Options{Format: "text", Verbosity: 1})
	log.Debug("should appear")
	if !strings.Contains(buf.String(), "should appear") {
		t.Fatalf("expected debug message with -v, got: %s", buf.String())
	}
}

func TestSetupPrettyHidesInfoLevel(t *testing.T) {
	t.Parallel()
	off := false
	var buf bytes.Buffer
	log := Setup(&buf, Options{Color: &off})
	log.Info("Writing WWINP file")
	log.Warn("skipping", "set", 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two lines, got: %q", buf.String())
	}
	if lines[0] != "Writing WWINP file" {
		t.Fatalf("info line should carry no level prefix, got: %q", lines[0])
	}
	if lines[1] != "WARN  skipping set=2" {
		t.Fatalf("unexpected warn line: %q", lines[1])
	}
}

func TestSetupPrettyVerboseShowsLevel(t *testing.T) {
	t.Parallel()
	off := false
	var buf bytes.Buffer
	log := Setup(&buf, Options{Color: &off, Verbosity: 1})
	log.Info("message")
	if !strings.HasPrefix(buf.String(), "INFO  message") {
		t.Fatalf("expected level prefix when verbose, got: %q", buf.String())
	}
}

func TestSetupPrettySource(t *testing.T) {
	t.Parallel()
	off := false
	var buf bytes.Buffer
	log := Setup(&buf, Options{Color: &off, Verbosity: 2})
	log.Debug("traced")
	if !strings.Contains(buf.String(), "logger_test.go:") {
		t.Fatalf("expected source location at -vv, got: %q", buf.String())
	}
}

func TestWith(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := Setup(&buf, Options{Format: "json"})
	childLog := log.With("component", "test")
	childLog.Info("child message")

	output := buf.String()
	if !strings.Contains(output, `"component":"test"`) {
		t.Fatalf("expected component=test in output, got: %s", output)
	}
}

func TestFromContextDefault(t *testing.T) {
	t.Parallel()
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext with no logger returned nil")
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := Setup(&buf, Options{Format: "text"})

	ctx := WithContext(context.Background(), log)
	FromContext(ctx).Info("roundtrip test")
	if !strings.Contains(buf.String(), "roundtrip test") {
		t.Fatalf("expected message via context logger, got: %s", buf.String())
	}
}

func TestLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		verbosity int
		expected  slog.Level
	}{
		{0, slog.LevelInfo},
		{1, slog.LevelDebug},
		{4, slog.LevelDebug},
	}
	for _, tc := range tests {
		if got := Level(tc.verbosity); got != tc.expected {
			t.Errorf("Level(%d): expected %v, got %v", tc.verbosity, tc.expected, got)
		}
	}
}

func TestPrettyHandlerEnabled(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, &PrettyOptions{HandlerOptions: slog.HandlerOptions{Level: slog.LevelWarn}})

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("expected info to be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("expected error to be enabled at warn level")
	}
}

func TestPrettyHandlerColor(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	slog.New(NewPrettyHandler(&buf, &PrettyOptions{Color: true})).Warn("coloured")
	if !strings.Contains(buf.String(), colorYellow) {
		t.Fatalf("expected ANSI colour in output, got: %q", buf.String())
	}

	buf.Reset()
	slog.New(NewPrettyHandler(&buf, nil)).Warn("plain")
	if strings.Contains(buf.String(), "\033[") {
		t.Fatalf("expected no ANSI codes, got: %q", buf.String())
	}
}

func TestPrettyHandlerWithAttrs(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, nil)

	slog.New(h.WithAttrs([]slog.Attr{slog.String("tally", "14")})).Info("with attrs")
	if !strings.Contains(buf.String(), "tally=14") {
		t.Fatalf("expected 'tally=14' in output, got: %s", buf.String())
	}
}

func TestPrettyHandlerNestedGroups(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, nil)

	slog.New(h.WithGroup("a").WithGroup("b")).Info("nested", "key", "val")
	if !strings.Contains(buf.String(), "a.b.key=val") {
		t.Fatalf("expected 'a.b.key=val' in output, got: %s", buf.String())
	}
}

func TestPrettyHandlerEmptyGroup(t *testing.T) {
	t.Parallel()
	h := NewPrettyHandler(&bytes.Buffer{}, nil)
	if h.WithGroup("") != h {
		t.Fatal("WithGroup empty string should return same handler")
	}
}

func TestPrettyQuotesStrings(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	slog.New(NewPrettyHandler(&buf, nil)).Info("test", "path", "my file.msht", "key", "simple")

	output := buf.String()
	if !strings.Contains(output, `path="my file.msht"`) {
		t.Fatalf("expected quoted string with spaces, got: %s", output)
	}
	if !strings.Contains(output, "key=simple") {
		t.Fatalf("expected unquoted simple string, got: %s", output)
	}
}

func TestNeedsQuoting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected bool
	}{
		{"simple", false},
		{"has space", true},
		{"has\ttab", true},
		{`has"quote`, true},
		{"a=b", true},
		{"", false},
	}

	for _, tc := range tests {
		if got := needsQuoting(tc.input); got != tc.expected {
			t.Errorf("needsQuoting(%q): expected %v, got %v", tc.input, tc.expected, got)
		}
	}
}

func TestIsTerminalRejectsBuffers(t *testing.T) {
	t.Parallel()
	if IsTerminal(&bytes.Buffer{}) {
		t.Fatal("a bytes.Buffer is never a terminal")
	}
}

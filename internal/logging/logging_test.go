package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoggerWritesLogfmtFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Debug).(*logfmtLogger)
	logger.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	logger.With(F("component", "tea")).Info("update", F("name", "WatchLater"), F("retried", true), Err(errors.New("boom now")))

	got := strings.TrimSpace(buf.String())
	want := `ts=2024-01-02T03:04:05Z level=info msg=update component=tea name=WatchLater retried=true error="boom now"`
	if got != want {
		t.Fatalf("unexpected line:\n got=%s\nwant=%s", got, want)
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Warn)
	logger.Info("hidden")
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn, got %q", buf.String())
	}
	if logger.Enabled(Info) {
		t.Fatalf("info should be disabled at warn level")
	}
	if !logger.Enabled(Error) {
		t.Fatalf("error should be enabled at warn level")
	}
}

func TestNopDiscardsEverything(t *testing.T) {
	logger := Nop()
	if logger.Enabled(Error) {
		t.Fatalf("nop logger should not be enabled")
	}
	logger.Error("ignored")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   Debug,
		" WARN ":  Warn,
		"warning": Warn,
		"error":   Error,
		"":        Info,
		"verbose": Info,
	}
	for raw, want := range cases {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", raw, got, want)
		}
	}
}

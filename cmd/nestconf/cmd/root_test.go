package cmd

import (
	"log/slog"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tc := range tests {
		lvl, err := parseLogLevel(tc.in)
		if err != nil {
			t.Fatalf("%q: %v", tc.in, err)
		}
		if lvl != tc.want {
			t.Fatalf("%q: got %v, want %v", tc.in, lvl, tc.want)
		}
	}

	_, err := parseLogLevel("loud")
	if err == nil {
		t.Fatal("no error for invalid level")
	}
	if !strings.Contains(err.Error(), `invalid --log-level "loud"`) {
		t.Fatalf("error: %v", err)
	}
}

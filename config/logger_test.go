package config

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Formats(t *testing.T) {
	tests := []struct {
		name   string
		format string
		tty    bool
		json   bool
	}{
		{"auto on terminal", "auto", true, false},
		{"auto piped", "auto", false, true},
		{"forced console", "console", false, false},
		{"forced json", "json", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := newLogger(LogConfig{Level: "info", Format: tt.format}, zapcore.AddSync(&buf), tt.tty)
			if err != nil {
				t.Fatalf("newLogger: %v", err)
			}
			l.Info("hello")
			_ = l.Sync()

			line := strings.TrimSpace(buf.String())
			var m map[string]any
			isJSON := json.Unmarshal([]byte(line), &m) == nil
			if isJSON != tt.json {
				t.Errorf("json = %v, want %v: %q", isJSON, tt.json, line)
			}
			if !strings.Contains(line, "hello") {
				t.Errorf("output %q missing message", line)
			}
		})
	}
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	l, err := newLogger(LogConfig{Level: "warn", Format: "json"}, zapcore.AddSync(&buf), false)
	if err != nil {
		t.Fatal(err)
	}
	l.Info("hidden")
	l.Warn("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("output = %q", buf.String())
	}

	if _, err := newLogger(LogConfig{Level: "loud"}, zapcore.AddSync(&buf), false); err == nil {
		t.Error("expected error for unknown level")
	}
}

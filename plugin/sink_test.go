package plugin

import (
	"fmt"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapSink(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sink := ZapSink{Logger: zap.New(core)}

	tests := []struct {
		level LogLevel
		want  zapcore.Level
	}{
		{LogError, zapcore.ErrorLevel},
		{LogWarning, zapcore.WarnLevel},
		{LogNotice, zapcore.InfoLevel},
		{LogDebug, zapcore.DebugLevel},
	}
	for _, tt := range tests {
		sink.Log(HostContext(7), tt.level, "msg "+tt.level.String())
	}

	entries := logs.All()
	if len(entries) != len(tests) {
		t.Fatalf("entries = %d, want %d", len(entries), len(tests))
	}
	for i, tt := range tests {
		e := entries[i]
		if e.Level != tt.want {
			t.Errorf("%s mapped to %v, want %v", tt.level, e.Level, tt.want)
		}
		if e.Message != "msg "+tt.level.String() {
			t.Errorf("message = %q", e.Message)
		}
		if got := e.ContextMap()["host"]; got != uintptr(7) {
			t.Errorf("host field = %v (%T)", got, got)
		}
	}
}

func TestZapSink_RespectsLevel(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	sink := ZapSink{Logger: zap.New(core)}

	sink.Log(0, LogDebug, "hidden")
	sink.Log(0, LogNotice, "hidden")
	sink.Log(0, LogWarning, "shown")

	if logs.Len() != 1 {
		t.Errorf("entries = %d, want 1", logs.Len())
	}
}

func TestSinkFunc(t *testing.T) {
	var got LogLevel
	var sink LogSink = SinkFunc(func(_ HostContext, level LogLevel, _ string) {
		got = level
	})
	sink.Log(0, LogNotice, "x")
	if got != LogNotice {
		t.Errorf("level = %v", got)
	}
}

func TestManagedString_Null(t *testing.T) {
	var s ManagedString
	if !s.IsNull() || s.Copy() != "" {
		t.Errorf("null string = %q", s.Copy())
	}
}

func TestManagedString_FormatsAsAddress(t *testing.T) {
	// Formatting must not read through the pointer.
	s := ManagedString(0x2000)
	if got := fmt.Sprintf("%v", s); got != "8192" {
		t.Errorf("%%v = %q, want 8192", got)
	}
	if got := fmt.Sprintf("%#x", s); got != "0x2000" {
		t.Errorf("%%#x = %q, want 0x2000", got)
	}
}

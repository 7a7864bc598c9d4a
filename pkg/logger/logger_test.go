package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestCloudRunHandler_WritesSeverityAndData(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCloudRunHandlerTo(&buf, slog.LevelInfo)).With("request_id", "abc")

	log.Debug("hidden")
	log.Warn("layout save failed", "component_id", "c1")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one json line, got %q: %v", buf.String(), err)
	}
	if entry["severity"] != "WARNING" {
		t.Fatalf("expected WARNING, got %v", entry["severity"])
	}
	data, _ := entry["data"].(map[string]any)
	if data["component_id"] != "c1" || data["request_id"] != "abc" {
		t.Fatalf("unexpected data: %v", data)
	}
}

func TestGetSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"DEBUG": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range cases {
		if got := getSlogLevel(in); got != want {
			t.Fatalf("getSlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected default logger")
	}
	log := slog.New(NewTestHandler(slog.LevelDebug))
	ctx := ToContext(context.Background(), log)
	if !IsDebugEnabled(ctx) {
		t.Fatal("expected debug to be enabled")
	}
}

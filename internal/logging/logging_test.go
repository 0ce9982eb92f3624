package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/smileynet/contacts/internal/config"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	// Given: a log path in a directory that does not exist yet
	path := filepath.Join(t.TempDir(), "nested", "contacts.log")

	// When: a logger is built and used
	logger, err := New(config.Log{Level: "debug"}, path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Debug("refresh failed")
	_ = logger.Sync()

	// Then: the file holds one JSON entry with the expected keys
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, data)
	}
	if entry["message"] != "refresh failed" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["level"] != "debug" {
		t.Errorf("level = %v", entry["level"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Error("entry missing ts")
	}
}

func TestNew_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.log")

	logger, err := New(config.Log{Level: "warn"}, path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	_ = logger.Sync()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") {
		t.Errorf("info entry written at warn level:\n%s", data)
	}
	if !strings.Contains(string(data), "shown") {
		t.Errorf("warn entry missing:\n%s", data)
	}
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.log")

	logger, err := New(config.Log{Level: "chatty"}, path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be enabled after fallback")
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug should be disabled after fallback")
	}
}

func TestNop(t *testing.T) {
	// Nop must be safe to use without configuration.
	Nop().Info("ignored")
}

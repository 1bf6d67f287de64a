package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"alexabot/internal/config"

	"github.com/sirupsen/logrus"
)

func TestConfigureWritesJSONToLogFile(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	cfg.Paths.StateDir = dir
	cfg.Paths.LogPath = filepath.Join(dir, "logs", "alexabot.log")
	cfg.Paths.HistoryPath = filepath.Join(dir, "history.log")
	cfg.Logging.Format = "json"
	cfg.Logging.Level = "warn"

	logger, err := Configure(cfg)
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	if logger.GetLevel() != logrus.WarnLevel {
		t.Fatalf("level = %s", logger.GetLevel())
	}
	logger.Info("hidden")
	logger.WithField("intent", "weather").Warn("lookup failed")

	data, err := os.ReadFile(cfg.Paths.LogPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one entry, got %q", data)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("not json: %v", err)
	}
	if entry["intent"] != "weather" || entry["msg"] != "lookup failed" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestUnknownLevelKeepsInfo(t *testing.T) {
	cfg, _ := config.Default()
	dir := t.TempDir()
	cfg.Paths.StateDir = dir
	cfg.Paths.LogPath = filepath.Join(dir, "a.log")
	cfg.Paths.HistoryPath = filepath.Join(dir, "h.log")
	cfg.Logging.Level = "chatty"
	logger, err := Configure(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if logger.GetLevel() != logrus.InfoLevel {
		t.Fatalf("level = %s", logger.GetLevel())
	}
}

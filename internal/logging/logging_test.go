package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewDefaultsToWarn(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Console: &buf})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer closeFn()

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info entry should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn entry missing: %q", out)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	if _, _, err := New(Options{Level: "loud"}); err == nil {
		t.Error("New() should reject an unknown level")
	}
}

func TestNewTeesToFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "travelrec.log")

	logger, closeFn, err := New(Options{Level: "debug", File: path, Console: &buf})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	logger.Debug("stored")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if !strings.Contains(buf.String(), "stored") {
		t.Errorf("console missing entry: %q", buf.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("log file is not JSON: %v (%q)", err, data)
	}
	if entry["msg"] != "stored" || entry["level"] != "debug" {
		t.Errorf("unexpected entry %v", entry)
	}
}

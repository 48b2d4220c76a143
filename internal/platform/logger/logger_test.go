package logger

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeKVsRedactsCredentials(t *testing.T) {
	got := sanitizeKVs([]interface{}{"password", "hash", "username", "ada", "dangling"})
	if len(got) != 5 {
		t.Fatalf("len: want=5 got=%d", len(got))
	}
	if got[1] != "[REDACTED]" {
		t.Fatalf("password not redacted: %v", got[1])
	}
	if got[3] != "ada" {
		t.Fatalf("username altered: %v", got[3])
	}
	if got[4] != "dangling" {
		t.Fatalf("dangling key dropped: %v", got)
	}
}

func TestNewWithOptionsWritesFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forumcore.log")
	log, err := NewWithOptions(Options{Mode: "production", File: path})
	if err != nil {
		t.Fatalf("NewWithOptions: %v", err)
	}
	log.Info("hello", "k", "v")
	log.Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if len(raw) == 0 {
		t.Fatalf("expected log output in %s", path)
	}
}

func TestNewWithOptionsRejectsBadLevel(t *testing.T) {
	if _, err := NewWithOptions(Options{Level: "loud"}); err == nil {
		t.Fatalf("expected error for invalid level")
	}
}

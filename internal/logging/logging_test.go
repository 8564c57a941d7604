package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"empty", "", "****"},
		{"short", "abcd", "****"},
		{"boundary", "12345678", "****"},
		{"long", "abcdef1234567890", "abcd...7890"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeToken(tt.token); got != tt.want {
				t.Errorf("SanitizeToken(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}

func TestSanitizePath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}

	got := SanitizePath(filepath.Join(home, "ClipTrim", "IN"))
	if !strings.HasPrefix(got, "~") {
		t.Errorf("SanitizePath() = %q, want ~ prefix", got)
	}

	outside := filepath.Join(string(filepath.Separator), "srv", "media")
	if got := SanitizePath(outside); got != outside {
		t.Errorf("SanitizePath(%q) = %q, want unchanged", outside, got)
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")

	logger, err := NewFileLogger(path, "info")
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	logger.Info("hello", "k", "v")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Errorf("log file content = %s", data)
	}
}

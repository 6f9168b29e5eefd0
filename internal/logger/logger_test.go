package logger

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{"warn", WARN},
		{"warning", WARN},
		{"error", ERROR},
		{"fatal", FATAL},
		{"", INFO},
		{"verbose", INFO},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New("warn")
	l.SetOutput(&buf)

	l.Debugf("hidden %d", 1)
	l.Infof("hidden %d", 2)
	l.Warnf("shown %d", 3)
	l.Errorf("shown %d", 4)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("output contains filtered messages: %q", out)
	}
	if !strings.Contains(out, "[WARN ]") || !strings.Contains(out, "shown 3") {
		t.Errorf("missing WARN line: %q", out)
	}
	if !strings.Contains(out, "[ERROR]") || !strings.Contains(out, "shown 4") {
		t.Errorf("missing ERROR line: %q", out)
	}
	if !strings.Contains(out, "logger_test.go:") {
		t.Errorf("caller prefix missing: %q", out)
	}
}

func TestFatalExits(t *testing.T) {
	var buf bytes.Buffer
	l := New("info")
	l.SetOutput(&buf)
	code := -1
	l.exit = func(c int) { code = c }

	l.Fatalf("boom")

	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("fatal message not written: %q", buf.String())
	}
}

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "kiln.log")
	l, err := NewWithFile("debug", path)
	if err != nil {
		t.Fatalf("NewWithFile: %v", err)
	}
	defer l.Close()
	if l.file == nil {
		t.Fatal("log file not opened")
	}
	if l.useColors {
		t.Error("colors should be disabled when writing to a file")
	}
}

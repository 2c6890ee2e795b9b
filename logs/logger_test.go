package logs

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLogger(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := New(buf, &Options{Level: slog.LevelDebug})
	logger.Info("test", "hello", "world!")
	logger.Debug("details", "addr", "0x1000")
	if isSystemdService() {
		t.Skip("running as a systemd service; records go to the journal")
	}
	out := buf.String()
	if !strings.Contains(out, "hello=world!") || !strings.Contains(out, "addr=0x1000") {
		t.Fatalf("got %q", out)
	}
}

func TestLoggerLevel(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := New(buf, nil)
	logger.Debug("hidden")
	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("debug record logged at default level: %q", buf.String())
	}
}

func TestDebugLogf(t *testing.T) {
	buf := new(bytes.Buffer)
	logf := DebugLogf(New(buf, &Options{Level: slog.LevelDebug}), "sexp", 1)
	logf(1, "decode 0x%x", 0x1234)
	logf(2, "too verbose")
	if isSystemdService() {
		t.Skip("running as a systemd service; records go to the journal")
	}
	out := buf.String()
	if !strings.Contains(out, "decode 0x1234") || !strings.Contains(out, "pkg=sexp") {
		t.Fatalf("got %q", out)
	}
	if strings.Contains(out, "too verbose") {
		t.Fatalf("verbosity 2 logged with maxVerbosity 1: %q", out)
	}
}

func TestToJournalKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"error", "ERROR"},
		{"logs.span", "LOGS_SPAN"},
		{"addr-1", "ADDR_1"},
	}
	for _, test := range tests {
		if got := toJournalKey(test.key); got != test.want {
			t.Errorf("toJournalKey(%q)=%q want %q", test.key, got, test.want)
		}
	}
}

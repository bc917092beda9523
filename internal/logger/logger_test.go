package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestSetupWriterLevels(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "")

	var buf bytes.Buffer
	l := SetupWriter(&buf)
	l.Info("hidden")
	l.Warn("shown", "radius", 10)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "radius=10") {
		t.Errorf("warn line missing: %q", out)
	}
	if L() != l {
		t.Error("L should return the logger built by SetupWriter")
	}
}

func TestSetupWriterJSON(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	var buf bytes.Buffer
	SetupWriter(&buf).Debug("reload", "events", 3)

	if !strings.Contains(buf.String(), `"events":3`) {
		t.Errorf("expected JSON output, got %q", buf.String())
	}
}

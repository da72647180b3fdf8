package plog

import (
	"bytes"
	"strings"
	"testing"
)

func TestInfoRespectsQuiet(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)

	SetQuiet(true)
	Info("hidden")
	if strings.Contains(buf.String(), "hidden") {
		t.Error("Info logged in quiet mode")
	}

	SetQuiet(false)
	Info("shown", "key", "value")
	if !strings.Contains(buf.String(), "shown") {
		t.Error("Info suppressed outside quiet mode")
	}
	if !strings.Contains(buf.String(), "key=value") {
		t.Error("attributes missing from record")
	}
}

func TestWarnAndErrorAlwaysLog(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetQuiet(true)
	defer SetQuiet(false)

	Warn("careful")
	Error("broken")

	out := buf.String()
	if !strings.Contains(out, "careful") {
		t.Error("Warn suppressed in quiet mode")
	}
	if !strings.Contains(out, "broken") {
		t.Error("Error suppressed in quiet mode")
	}
}

func TestSetOutputClearsQuiet(t *testing.T) {
	SetQuiet(true)
	var buf bytes.Buffer
	SetOutput(&buf)

	if IsQuiet() {
		t.Error("SetOutput should clear quiet mode")
	}
}

package format

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerLevelRouting(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLogger(&out, &errOut)

	l.Infof("info %d", 1)
	l.Warnf("warn %d", 2)
	l.Errorf("error %d", 3)

	if s := out.String(); !strings.Contains(s, "info 1") {
		t.Errorf("stdout = %q, missing info line", s)
	}
	if s := out.String(); strings.Contains(s, "warn 2") {
		t.Errorf("warning leaked to stdout: %q", s)
	}
	errStr := errOut.String()
	if !strings.Contains(errStr, "warn 2") || !strings.Contains(errStr, "error 3") {
		t.Errorf("stderr = %q, missing warning or error", errStr)
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLogger(&out, &errOut)

	l.Debugf("hidden")
	if out.Len() != 0 {
		t.Errorf("debug emitted at info level: %q", out.String())
	}

	l.SetLevel(LevelDebug)
	l.Debugf("visible")
	if !strings.Contains(out.String(), "visible") {
		t.Errorf("debug not emitted at debug level: %q", out.String())
	}

	l.SetLevel(LevelError)
	out.Reset()
	errOut.Reset()
	l.Infof("quiet")
	l.Warnf("quiet")
	if out.Len() != 0 || errOut.Len() != 0 {
		t.Error("messages below error level emitted")
	}
	if l.Level() != LevelError {
		t.Errorf("Level() = %v", l.Level())
	}
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarning, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("LogLevel(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

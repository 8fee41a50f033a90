package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name       string
		logger     Logger
		wantInfo   bool
		wantDebug  bool
		wantWarn   bool
		wantErrors bool
	}{
		{"quiet", Logger{}, false, false, false, false},
		{"verbose", Logger{Verbose: true}, true, false, true, false},
		{"debug", Logger{Debug: true}, true, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			l := tt.logger
			l.Out = &out
			l.Err = &errOut

			l.Infof("info %d", 1)
			l.Debugf("debug %d", 2)
			l.Warnf("warn %d", 3)
			l.Errorf("error %d", 4)

			if got := strings.Contains(out.String(), "info 1"); got != tt.wantInfo {
				t.Errorf("info shown = %t, want %t", got, tt.wantInfo)
			}
			if got := strings.Contains(out.String(), "debug 2"); got != tt.wantDebug {
				t.Errorf("debug shown = %t, want %t", got, tt.wantDebug)
			}
			if got := strings.Contains(errOut.String(), "warn 3"); got != tt.wantWarn {
				t.Errorf("warn shown = %t, want %t", got, tt.wantWarn)
			}
			if got := strings.Contains(errOut.String(), "error 4"); got != tt.wantErrors {
				t.Errorf("error shown = %t, want %t", got, tt.wantErrors)
			}
		})
	}
}

func TestWarnfAlways(t *testing.T) {
	var errOut bytes.Buffer
	l := Logger{Err: &errOut}

	l.WarnfAlways("session expired")
	if !strings.Contains(errOut.String(), "session expired") {
		t.Errorf("expected warning, got %q", errOut.String())
	}
}

func TestErrorfAndReturn(t *testing.T) {
	var errOut bytes.Buffer
	l := Logger{Debug: true, Err: &errOut}
	sentinel := errors.New("boom")

	err := l.ErrorfAndReturn("failed to open page %s: %w", "p1", sentinel)
	if !errors.Is(err, sentinel) {
		t.Errorf("expected wrapped sentinel, got %v", err)
	}
	if err.Error() != "failed to open page p1: boom" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !strings.Contains(errOut.String(), "failed to open page p1: boom") {
		t.Errorf("expected error to be logged, got %q", errOut.String())
	}
}

package cli

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerFiltersByLevel(t *testing.T) {
	tests := []struct {
		level log.Level
		want  []string
	}{
		{log.DebugLevel, []string{"pass", "slice", "timeout"}},
		{log.InfoLevel, []string{"slice", "timeout"}},
		{log.WarnLevel, []string{"timeout"}},
		{log.ErrorLevel, nil},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			logger.Debug("pass")
			logger.Info("slice")
			logger.Warn("timeout")

			for _, msg := range []string{"pass", "slice", "timeout"} {
				want := false
				for _, w := range tt.want {
					want = want || w == msg
				}
				if got := strings.Contains(buf.String(), msg); got != want {
					t.Errorf("%q logged = %v, want %v", msg, got, want)
				}
			}
		})
	}
}

func TestNewLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("layout complete")

	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(buf.String()) {
		t.Errorf("line %q does not start with an HH:MM:SS.cc timestamp", buf.String())
	}
}

func TestOpTimerDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newOpTimer(newLogger(&buf, log.DebugLevel))
	time.Sleep(10 * time.Millisecond)

	if got := prog.elapsed(); got < 10*time.Millisecond || got%time.Millisecond != 0 {
		t.Errorf("elapsed() = %v, want a whole number of ms of at least 10ms", got)
	}
	prog.done("positions written")
	if !regexp.MustCompile(`positions written \(\d+(\.\d+)?m?s\)`).MatchString(buf.String()) {
		t.Errorf("done() output = %q", buf.String())
	}
}

func TestOpTimerDoneHiddenAtInfo(t *testing.T) {
	var buf bytes.Buffer
	newOpTimer(newLogger(&buf, log.InfoLevel)).done("frames written")
	if buf.Len() != 0 {
		t.Errorf("done() logged at info level: %q", buf.String())
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)

	c.Logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug output at info level: %q", buf.String())
	}

	c.SetLogLevel(LogDebug)
	c.Logger.Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("debug output missing after SetLogLevel: %q", buf.String())
	}
}

package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// opTimer tracks the start time of an operation.
type opTimer struct {
	logger *log.Logger
	start  time.Time
}

func newOpTimer(l *log.Logger) *opTimer {
	return &opTimer{logger: l, start: time.Now()}
}

// elapsed returns the time since the timer was created, rounded to the
// millisecond.
func (p *opTimer) elapsed() time.Duration {
	return time.Since(p.start).Round(time.Millisecond)
}

// done logs msg at debug level along with the elapsed time.
// Example output: "layout written (1.234s)"
func (p *opTimer) done(msg string) {
	p.logger.Debugf("%s (%s)", msg, p.elapsed())
}

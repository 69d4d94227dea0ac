// Package logx sets up the engine's structured logging. All components log
// through a single process-wide *slog.Logger, configured once by the CLI
// driver and retrieved with Default everywhere else.
package logx

import (
	"fmt"
	"log/slog"
	"os"
)

var def = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

// Logger wraps *slog.Logger with the Errorf/Infof/Debugf call shape used
// throughout the engine, so call sites don't format key/value pairs by hand
// for a plain diagnostic message.
type Logger struct {
	*slog.Logger
}

// Default returns the process-wide logger.
func Default() Logger {
	return Logger{def}
}

// Init installs a new default logger at the given level, writing to w. The
// CLI driver calls this once at startup; everything else keeps using
// Default.
func Init(w *os.File, level slog.Level) {
	programLevel := new(slog.LevelVar)
	programLevel.Set(level)
	l := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: programLevel}))
	def = l
	slog.SetDefault(l)
}

func (l Logger) Errorf(format string, args ...any) {
	l.Logger.Error(sprintf(format, args...))
}

func (l Logger) Infof(format string, args ...any) {
	l.Logger.Info(sprintf(format, args...))
}

func (l Logger) Debugf(format string, args ...any) {
	l.Logger.Debug(sprintf(format, args...))
}

func (l Logger) Warnf(format string, args ...any) {
	l.Logger.Warn(sprintf(format, args...))
}

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

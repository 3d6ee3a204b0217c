// Package logging builds the application's leveled, structured logger.
package logging

import (
	"io"
	stdlog "log"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

type Options struct {
	Level  string
	Format string
	Prefix string
}

// New returns a logger writing to w. Unknown levels fall back to info and
// unknown formats to text.
func New(w io.Writer, opts Options) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(opts.Level),
		Formatter:       ParseFormatter(opts.Format),
		ReportTimestamp: true,
		Prefix:          opts.Prefix,
	})
}

// SetDefault installs logger as the package default and routes the standard
// library logger through it.
func SetDefault(logger *log.Logger) {
	log.SetDefault(logger)
	stdlog.SetFlags(0)
	stdlog.SetOutput(logger.StandardLog(log.StandardLogOptions{ForceLevel: log.InfoLevel}).Writer())
}

func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

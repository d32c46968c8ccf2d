// Package logging builds the zerolog logger used for the harness's own diagnostic output.
//
// Step debug output does not go through here; it is captured per step by the framework and
// printed by the console test logger. This logger receives everything when --debug-all is set,
// and run-level events otherwise.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

const (
	FormatAuto    = "auto"
	FormatConsole = "console"
	FormatJSON    = "json"
)

const consoleTimeFormat = "15:04:05.000"

// Config holds logger configuration.
type Config struct {
	Level   string `mapstructure:"level"`  // trace, debug, info, warn, error
	Format  string `mapstructure:"format"` // auto, console, json
	NoColor bool   `mapstructure:"no_color"`
}

// ParseLevel converts a level name to a zerolog.Level. An empty name means info.
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "":
		return zerolog.InfoLevel, nil
	case "warning":
		return zerolog.WarnLevel, nil
	}
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q", level)
	}
	return l, nil
}

// New creates a logger writing to out. With FormatAuto, output is human-readable when out is a
// terminal and JSON otherwise.
func New(config Config, out io.Writer) (zerolog.Logger, error) {
	level, err := ParseLevel(config.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	format := strings.ToLower(strings.TrimSpace(config.Format))
	if format == "" || format == FormatAuto {
		format = FormatJSON
		if isTerminal(out) {
			format = FormatConsole
		}
	}

	var w io.Writer
	switch format {
	case FormatConsole:
		w = zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    config.NoColor || !isTerminal(out),
			TimeFormat: consoleTimeFormat,
		}
	case FormatJSON:
		w = out
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q (expected auto, console or json)", config.Format)
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Package console is the process-wide logger used by the CLI and the generator.
package console

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the shared console logger. DebugLevel > 0 enables Debug output.
var Logger = New(os.Stderr)

// markup matches color directives such as $Bold{...} and $Cyan{...}.
var markup = regexp.MustCompile(`\$[A-Za-z]+\{`)

// Console wraps a zerolog logger with printf-style helpers.
type Console struct {
	DebugLevel int
	Quiet      bool

	out zerolog.Logger
}

// New creates a console writing human readable lines to w.
func New(w io.Writer) *Console {
	writer := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: true}
	return &Console{out: zerolog.New(writer).With().Timestamp().Logger()}
}

// SetOutput redirects every level to w.
func (c *Console) SetOutput(w io.Writer) {
	*c = Console{DebugLevel: c.DebugLevel, Quiet: c.Quiet, out: New(w).out}
}

// Zerolog exposes the underlying logger. It satisfies the Printf based debugger
// interfaces accepted by the registry and the translator.
func (c *Console) Zerolog() *zerolog.Logger {
	if c.Quiet {
		nop := zerolog.Nop()
		return &nop
	}
	level := zerolog.InfoLevel
	if c.DebugLevel > 0 {
		level = zerolog.DebugLevel
	}
	l := c.out.Level(level)
	return &l
}

// Printf logs at debug level.
func (c *Console) Printf(format string, args ...interface{}) {
	c.Debug(format, args...)
}

// Debug logs only when DebugLevel is set.
func (c *Console) Debug(format string, args ...interface{}) {
	if c.DebugLevel <= 0 || c.Quiet {
		return
	}
	c.out.Debug().Msg(render(format, args...))
}

// Info logs unless quiet.
func (c *Console) Info(format string, args ...interface{}) {
	if c.Quiet {
		return
	}
	c.out.Info().Msg(render(format, args...))
}

// Warn logs unless quiet.
func (c *Console) Warn(format string, args ...interface{}) {
	if c.Quiet {
		return
	}
	c.out.Warn().Msg(render(format, args...))
}

// Error always logs.
func (c *Console) Error(format string, args ...interface{}) {
	c.out.Error().Msg(render(format, args...))
}

func render(format string, args ...interface{}) string {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return strings.TrimRight(stripMarkup(msg), "\n")
}

// stripMarkup removes $Color{...} wrappers, keeping their content.
func stripMarkup(s string) string {
	for {
		loc := markup.FindStringIndex(s)
		if loc == nil {
			return s
		}
		depth := 1
		end := -1
		for i := loc[1]; i < len(s); i++ {
			switch s[i] {
			case '{':
				depth++
			case '}':
				depth--
			}
			if depth == 0 {
				end = i
				break
			}
		}
		if end < 0 {
			return s[:loc[0]] + s[loc[1]:]
		}
		s = s[:loc[0]] + s[loc[1]:end] + s[end+1:]
	}
}

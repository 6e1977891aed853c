// Package logging builds the hclog loggers used across tabloom.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// New returns a named logger writing to w (stderr when nil). Unknown levels
// fall back to info.
func New(name, level string, w io.Writer) hclog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Level:  ParseLevel(level),
		Output: w,
	})
}

// ParseLevel maps trace|debug|info|warn|error|off to an hclog level.
func ParseLevel(level string) hclog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "off", "none":
		return hclog.Off
	case "":
		return hclog.Info
	}
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		return hclog.Info
	}
	return lvl
}

// OrNull returns l, or a discarding logger when l is nil.
func OrNull(l hclog.Logger) hclog.Logger {
	if l == nil {
		return hclog.NewNullLogger()
	}
	return l
}

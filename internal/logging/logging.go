// Package logging builds the logrus logger shared by the registry, the
// render pipeline and the session loop. Every entry carries target=wand so
// output can be filtered when wand runs inside a larger toolchain.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Target is attached to every entry as the `target` field.
const Target = "wand"

// Options configures New.
type Options struct {
	Level  string
	Output io.Writer
	JSON   bool
}

// New returns a logger entry writing to opts.Output (stderr by default) at
// opts.Level (info by default).
func New(opts Options) (*logrus.Entry, error) {
	level := logrus.InfoLevel
	if raw := strings.TrimSpace(opts.Level); raw != "" {
		parsed, err := logrus.ParseLevel(raw)
		if err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
		level = parsed
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	if opts.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
			DisableQuote:     true,
		})
	}

	return logger.WithField("target", Target), nil
}

// Discard returns a logger that drops everything. Packages fall back to it
// when no logger is injected.
func Discard() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger.WithField("target", Target)
}

// Package rlog is a thin verbosity-leveled wrapper around logrus, in the
// shape of the vlog.V(n).Infof(...) call sites this library's ancestor
// used, but backed by a real structured logger.
package rlog

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

var (
	base     = logrus.New()
	verbose  = 0
	initOnce bool
)

func init() {
	base.SetOutput(os.Stderr)
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if v, err := strconv.Atoi(os.Getenv("MDS_LOG_VERBOSITY")); err == nil {
		verbose = v
	}
}

// Level is a bound verbosity level; its Infof only emits when the
// configured verbosity is at least as high as the level requested at V().
type Level struct {
	enabled bool
	entry   *logrus.Entry
}

// V returns a Level gated on the process verbosity, mirroring vlog.V(n).
func V(n int) Level {
	return Level{enabled: n <= verbose, entry: base.WithField("scope", "rpc")}
}

// Infof logs at info level if this Level is enabled.
func (l Level) Infof(format string, args ...interface{}) {
	if l.enabled {
		l.entry.Infof(format, args...)
	}
}

// For returns a logger scoped to a named component (dispatcher, subscriber,
// master, facade, ...).
func For(component string) *logrus.Entry {
	return base.WithField("component", component)
}

// SetOutput redirects all logging to w.
func SetOutput(w interface{ Write([]byte) (int, error) }) {
	base.SetOutput(w)
}

// SetColor forces or disables ANSI color codes in the text formatter,
// used by cmd/vacrpc-probe to decide colorized output based on whether
// stderr is a terminal.
func SetColor(enabled bool) {
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		ForceColors:   enabled,
		DisableColors: !enabled,
	})
}

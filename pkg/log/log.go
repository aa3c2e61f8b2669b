// Package log provides the logging interface shared by every component,
// backed by logrus.
package log

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger is the logging interface components accept. *logrus.Logger
// satisfies it directly.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

var _ Logger = (*logrus.Logger)(nil)

// New returns a logrus backed Logger writing plain text to w. Debug
// output is only produced when debug is true.
func New(w io.Writer, debug bool) Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.InfoLevel)
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	l.Formatter = &logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
		DisableSorting:   true,
		DisableQuote:     true,
	}
	return l
}

// WithField returns a Logger that tags every entry with the given
// component name, when l is logrus backed. Other loggers are returned
// unchanged.
func WithField(l Logger, key string, value interface{}) Logger {
	if lr, ok := l.(*logrus.Logger); ok {
		return lr.WithField(key, value)
	}
	if e, ok := l.(*logrus.Entry); ok {
		return e.WithField(key, value)
	}
	return l
}

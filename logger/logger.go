// Package logger configures the process-wide logrus logger.
package logger

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	mu     sync.RWMutex
	global = New("info", "text")
)

// New builds a logger writing to stdout. Unknown levels fall back to info; format is
// "json" or "text".
func New(level, format string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	if strings.EqualFold(format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	return l
}

// GetLogger returns the process logger.
func GetLogger() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()

	return global
}

// SetLogger replaces the process logger.
func SetLogger(l *logrus.Logger) {
	mu.Lock()
	defer mu.Unlock()

	global = l
}

// Component returns an entry tagged with the component name.
func Component(name string) *logrus.Entry {
	return GetLogger().WithField("component", name)
}

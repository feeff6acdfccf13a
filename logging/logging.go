// Package logging defines the minimal structured logging interface used across
// the client. Components accept the interface and default to NoOpLogger so the
// SDK stays silent unless the embedding application opts in.
package logging

import (
	"github.com/sirupsen/logrus"
)

// Logger is the minimal logging interface accepted by every component.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// NoOpLogger discards all log output. It is the default for components
// constructed without an explicit logger.
type NoOpLogger struct{}

func (NoOpLogger) Debug(msg string, fields map[string]interface{}) {}
func (NoOpLogger) Info(msg string, fields map[string]interface{})  {}
func (NoOpLogger) Warn(msg string, fields map[string]interface{})  {}
func (NoOpLogger) Error(msg string, fields map[string]interface{}) {}

// LogrusLogger adapts a logrus logger to the Logger interface.
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger creates a production logger backed by logrus. The component
// name is attached to every entry. An unrecognized level falls back to info.
func NewLogrusLogger(component, level string) *LogrusLogger {
	l := logrus.New()
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.SetLevel(parsed)
	l.SetFormatter(&logrus.JSONFormatter{})
	return &LogrusLogger{entry: l.WithField("component", component)}
}

// NewLogrusLoggerWith wraps an existing logrus logger so the embedding
// application can share one configured instance across components.
func NewLogrusLoggerWith(l *logrus.Logger, component string) *LogrusLogger {
	return &LogrusLogger{entry: l.WithField("component", component)}
}

func (l *LogrusLogger) Debug(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Debug(msg)
}

func (l *LogrusLogger) Info(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Info(msg)
}

func (l *LogrusLogger) Warn(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Warn(msg)
}

func (l *LogrusLogger) Error(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Error(msg)
}

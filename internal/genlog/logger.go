// Package genlog adapts the teacher's logrus-based logger (pkg/logger)
// to the generation pipeline's domain events: phase transitions,
// generation errors, stream control events, and anomaly injections.
package genlog

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger wraps logrus.Logger with domain-specific helper methods.
type Logger struct {
	*logrus.Logger
}

// Config mirrors the teacher's LoggingConfig shape.
type Config struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format string `yaml:"format" envconfig:"LOG_FORMAT"`
}

// New builds a Logger from cfg, defaulting to info/text.
func New(cfg Config) *Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return &Logger{Logger: logger}
}

// LogPhase records an orchestrator phase transition (C7).
func (l *Logger) LogPhase(phase string, fields logrus.Fields) {
	entry := l.WithField("phase", phase)
	if fields != nil {
		entry = entry.WithFields(fields)
	}
	entry.Info("phase transition")
}

// LogGenerationError records a recoverable generation-pipeline error
// (C4/C5), tagged with the component and call index it occurred at.
func (l *Logger) LogGenerationError(component string, callIndex uint64, err error) {
	l.WithFields(logrus.Fields{
		"component":  component,
		"call_index": callIndex,
	}).WithError(err).Error("generation error")
}

// LogStreamEvent records a streaming-service control event (C9): pause,
// resume, stop, rate change.
func (l *Logger) LogStreamEvent(event string, fields logrus.Fields) {
	entry := l.WithField("stream_event", event)
	if fields != nil {
		entry = entry.WithFields(fields)
	}
	entry.Info("stream event")
}

// LogAnomalyInjection records one anomaly label as it is appended to
// the C6 ledger, separate from the dedicated zap sink used for the
// ledger's own structured export.
func (l *Logger) LogAnomalyInjection(anomalyType, documentID string, severity int) {
	l.WithFields(logrus.Fields{
		"anomaly_type": anomalyType,
		"document_id":  documentID,
		"severity":     severity,
	}).Warn("anomaly injected")
}

package zap

import (
	"github.com/cardkit/debitcard"
	"go.uber.org/zap"
)

var _ debitcard.Logger = wrapper{}

type wrapper struct {
	logger *zap.Logger
}

// Wrap wraps a zap.Logger
func Wrap(logger *zap.Logger) debitcard.Logger {
	return wrapper{logger: logger}
}

// Error writes a log with log level error
func (w wrapper) Error(msg string, fields func(debitcard.LoggerEntry)) {
	w.logger.Error(msg, zapFields(fields)...)
}

// Warn writes a log with log level warning
func (w wrapper) Warn(msg string, fields func(debitcard.LoggerEntry)) {
	w.logger.Warn(msg, zapFields(fields)...)
}

// Info writes a log with log level info
func (w wrapper) Info(msg string, fields func(debitcard.LoggerEntry)) {
	w.logger.Info(msg, zapFields(fields)...)
}

// Debug writes a log with log level debug
func (w wrapper) Debug(msg string, fields func(debitcard.LoggerEntry)) {
	w.logger.Debug(msg, zapFields(fields)...)
}

// WithFields adds a set of fields to the log entry
func (w wrapper) WithFields(fields func(debitcard.LoggerEntry)) debitcard.Logger {
	return wrapper{logger: w.logger.With(zapFields(fields)...)}
}

func zapFields(fields func(debitcard.LoggerEntry)) []zap.Field {
	if fields == nil {
		return nil
	}

	entry := &loggerEntry{}
	fields(entry)

	return entry.fields
}

type loggerEntry struct {
	fields []zap.Field
}

func (e *loggerEntry) Int(k string, v int) {
	e.fields = append(e.fields, zap.Int(k, v))
}

func (e *loggerEntry) Int64(k string, v int64) {
	e.fields = append(e.fields, zap.Int64(k, v))
}

func (e *loggerEntry) String(k, v string) {
	e.fields = append(e.fields, zap.String(k, v))
}

func (e *loggerEntry) Error(err error) {
	e.fields = append(e.fields, zap.Error(err))
}

func (e *loggerEntry) Any(k string, v interface{}) {
	e.fields = append(e.fields, zap.Any(k, v))
}

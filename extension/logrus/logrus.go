package logrus

import (
	"github.com/cardkit/debitcard"
	"github.com/sirupsen/logrus"
)

var _ debitcard.Logger = wrapper{}

type wrapper struct {
	entry *logrus.Entry
}

// Wrap wraps a logrus.Logger
func Wrap(logger *logrus.Logger) debitcard.Logger {
	return wrapper{entry: logrus.NewEntry(logger)}
}

// WrapEntry wraps a logrus.Entry
func WrapEntry(entry *logrus.Entry) debitcard.Logger {
	return wrapper{entry: entry}
}

// StandardLogger returns a wrapped version of the logrus.StandardLogger()
func StandardLogger() debitcard.Logger {
	return wrapper{entry: logrus.NewEntry(logrus.StandardLogger())}
}

// Error writes a log with log level error
func (w wrapper) Error(msg string, fields func(debitcard.LoggerEntry)) {
	w.entryWithFields(fields).Error(msg)
}

// Warn writes a log with log level warn
func (w wrapper) Warn(msg string, fields func(debitcard.LoggerEntry)) {
	w.entryWithFields(fields).Warn(msg)
}

// Info writes a log with log level info
func (w wrapper) Info(msg string, fields func(debitcard.LoggerEntry)) {
	w.entryWithFields(fields).Info(msg)
}

// Debug writes a log with log level debug
func (w wrapper) Debug(msg string, fields func(debitcard.LoggerEntry)) {
	w.entryWithFields(fields).Debug(msg)
}

// WithFields adds a set of fields to the log entry
func (w wrapper) WithFields(fields func(debitcard.LoggerEntry)) debitcard.Logger {
	return wrapper{entry: w.entryWithFields(fields)}
}

func (w wrapper) entryWithFields(fields func(debitcard.LoggerEntry)) *logrus.Entry {
	if fields == nil {
		return w.entry
	}

	entry := loggerEntry{fields: logrus.Fields{}}
	fields(&entry)

	return w.entry.WithFields(entry.fields)
}

type loggerEntry struct {
	fields logrus.Fields
}

func (e *loggerEntry) Int(k string, v int) {
	e.fields[k] = v
}

func (e *loggerEntry) Int64(k string, v int64) {
	e.fields[k] = v
}

func (e *loggerEntry) String(k, v string) {
	e.fields[k] = v
}

func (e *loggerEntry) Error(err error) {
	e.fields[logrus.ErrorKey] = err
}

func (e *loggerEntry) Any(k string, v interface{}) {
	e.fields[k] = v
}

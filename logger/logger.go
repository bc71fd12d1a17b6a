package logger

import (
	"fmt"
	"io"
	"os"
)

// Logger takes in a message and tag pairs.
type Logger interface {
	Debug(msg string, tags ...interface{})
	Info(msg string, tags ...interface{})
	Warn(msg string, tags ...interface{})
	Error(msg string, tags ...interface{})

	// With returns a Logger that prepends tags to every entry it logs,
	// for attaching request- or executor-scoped context once rather than
	// repeating it at every call site.
	With(tags ...interface{}) Logger
}

type logger struct {
	out  io.Writer
	tags []interface{}
}

// New creates a logger that writes to stdout.
func New() Logger { return &logger{out: os.Stdout} }

func (l *logger) print(msg string, tags ...interface{}) {
	all := append([]interface{}{msg}, l.tags...)
	all = append(all, tags...)
	fmt.Fprintln(l.out, all...)
}

// Debug creates a debug log entry.
func (l *logger) Debug(msg string, tags ...interface{}) { l.print(msg, tags...) }

// Info creates an info log entry.
func (l *logger) Info(msg string, tags ...interface{}) { l.print(msg, tags...) }

// Warn creates a warn log entry.
func (l *logger) Warn(msg string, tags ...interface{}) { l.print(msg, tags...) }

// Error creates an error log entry.
func (l *logger) Error(msg string, tags ...interface{}) { l.print(msg, tags...) }

func (l *logger) With(tags ...interface{}) Logger {
	return &logger{out: l.out, tags: append(append([]interface{}{}, l.tags...), tags...)}
}

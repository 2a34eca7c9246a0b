// Copyright (C) MongoDB, Inc. 2023-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package logger is a small leveled logger that forwards structured messages to a LogSink.
package logger

import (
	"io"
	"os"
)

// KeyMessage is the key under which the message text is recorded by sinks that
// flatten messages into a single document.
const KeyMessage = "message"

// LogSink is an interface that can be implemented to provide a custom sink for the logger.
// The method set mirrors the logr.LogSink subset the driver relies on.
type LogSink interface {
	// Info logs a non-error message with the given key/value pairs. The level argument
	// is offset by DiffToInfo so that InfoLevel is passed as 0.
	Info(level int, msg string, keysAndValues ...interface{})

	// Error logs an error, with the given message and key/value pairs.
	Error(err error, msg string, keysAndValues ...interface{})
}

// Logger forwards messages at or below its configured level to a LogSink. A nil
// *Logger discards everything.
type Logger struct {
	level Level
	sink  LogSink
}

// New constructs a Logger writing to sink at the given level. If sink is nil, messages
// are written to os.Stderr by an IOSink.
func New(sink LogSink, level Level) *Logger {
	if sink == nil {
		sink = NewIOSink(os.Stderr)
	}
	return &Logger{level: level, sink: sink}
}

// NewWithWriter constructs a Logger that writes to w through an IOSink.
func NewWithWriter(w io.Writer, level Level) *Logger {
	return New(NewIOSink(w), level)
}

// Is reports whether messages at level would be forwarded to the sink.
func (logger *Logger) Is(level Level) bool {
	return logger != nil && level != OffLevel && logger.level >= level
}

// Print forwards msg and its key/value pairs to the sink when level is enabled.
func (logger *Logger) Print(level Level, msg string, keysAndValues ...interface{}) {
	if !logger.Is(level) {
		return
	}
	logger.sink.Info(int(level)-DiffToInfo, msg, keysAndValues...)
}

// Error forwards err to the sink whenever the logger is enabled at all.
func (logger *Logger) Error(err error, msg string, keysAndValues ...interface{}) {
	if !logger.Is(InfoLevel) {
		return
	}
	logger.sink.Error(err, msg, keysAndValues...)
}

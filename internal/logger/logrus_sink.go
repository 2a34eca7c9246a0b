// Copyright (C) MongoDB, Inc. 2023-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package logger

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// LogrusSink adapts a logrus.FieldLogger to the LogSink interface. Key/value pairs
// become logrus fields.
type LogrusSink struct {
	log logrus.FieldLogger
}

var _ LogSink = &LogrusSink{}

// NewLogrusSink wraps l. A nil l uses logrus.StandardLogger().
func NewLogrusSink(l logrus.FieldLogger) *LogrusSink {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &LogrusSink{log: l}
}

// Info logs at logrus' info level for level 0 and at debug level above it.
func (sink *LogrusSink) Info(level int, msg string, keysAndValues ...interface{}) {
	entry := sink.log.WithFields(fields(keysAndValues))
	if level > 0 {
		entry.Debug(msg)
		return
	}
	entry.Info(msg)
}

// Error logs err at logrus' error level.
func (sink *LogrusSink) Error(err error, msg string, keysAndValues ...interface{}) {
	sink.log.WithFields(fields(keysAndValues)).WithError(err).Error(msg)
}

func fields(keysAndValues []interface{}) logrus.Fields {
	f := make(logrus.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		f[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return f
}

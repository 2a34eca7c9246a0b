// Copyright (C) MongoDB, Inc. 2023-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package logger

import (
	"strings"
)

// DiffToInfo is the number of levels that come before the "Info" level. This ensures that "Info"
// is the 0th level passed to the sink.
const DiffToInfo = 1

// Level is an enumeration representing the supported log severity levels.
//
// The order of the levels is important: sinks built on logr treat InfoLevel as 0, so any
// addition before InfoLevel must also update DiffToInfo.
type Level int

const (
	// OffLevel suppresses logging.
	OffLevel Level = iota

	// InfoLevel enables logging of informational messages, such as rejected commands.
	InfoLevel

	// DebugLevel enables logging of debug messages, such as every decoded command.
	DebugLevel
)

// LevelLiteral are the textual log levels accepted from configuration files and environment
// variables. Several literals collapse onto the same Level.
type LevelLiteral string

const (
	OffLevelLiteral       LevelLiteral = "off"
	EmergencyLevelLiteral LevelLiteral = "emergency"
	AlertLevelLiteral     LevelLiteral = "alert"
	CriticalLevelLiteral  LevelLiteral = "critical"
	ErrorLevelLiteral     LevelLiteral = "error"
	WarnLevelLiteral      LevelLiteral = "warn"
	NoticeLevelLiteral    LevelLiteral = "notice"
	InfoLevelLiteral      LevelLiteral = "info"
	DebugLevelLiteral     LevelLiteral = "debug"
	TraceLevelLiteral     LevelLiteral = "trace"
)

// Level returns the Level associated with the literal, or OffLevel if the literal is unknown.
func (llevel LevelLiteral) Level() Level {
	switch llevel {
	case EmergencyLevelLiteral, AlertLevelLiteral, CriticalLevelLiteral, ErrorLevelLiteral,
		WarnLevelLiteral, NoticeLevelLiteral, InfoLevelLiteral:
		return InfoLevel
	case DebugLevelLiteral, TraceLevelLiteral:
		return DebugLevel
	default:
		return OffLevel
	}
}

func (llevel LevelLiteral) equalFold(str string) bool {
	return strings.EqualFold(string(llevel), str)
}

// AllLevelLiterals returns every recognised level literal.
func AllLevelLiterals() []LevelLiteral {
	return []LevelLiteral{
		OffLevelLiteral,
		EmergencyLevelLiteral,
		AlertLevelLiteral,
		CriticalLevelLiteral,
		ErrorLevelLiteral,
		WarnLevelLiteral,
		NoticeLevelLiteral,
		InfoLevelLiteral,
		DebugLevelLiteral,
		TraceLevelLiteral,
	}
}

// ParseLevel case-insensitively maps a level literal to a Level. The default is OffLevel.
func ParseLevel(level string) Level {
	for _, llevel := range AllLevelLiterals() {
		if llevel.equalFold(level) {
			return llevel.Level()
		}
	}

	return OffLevel
}

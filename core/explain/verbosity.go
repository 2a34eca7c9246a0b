// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package explain defines the verbosity levels an explain request can be run at.
package explain

import "fmt"

// Verbosity is the amount of detail an explain request reports.
type Verbosity int

// These are the verbosity levels, from least to most detailed.
const (
	QueryPlanner Verbosity = iota
	ExecutionStats
	AllPlansExecution
)

// Literals used for the verbosity field of the explain command.
const (
	QueryPlannerLiteral      = "queryPlanner"
	ExecutionStatsLiteral    = "executionStats"
	AllPlansExecutionLiteral = "allPlansExecution"
)

// ParseVerbosity converts a verbosity literal into a Verbosity.
func ParseVerbosity(s string) (Verbosity, error) {
	switch s {
	case QueryPlannerLiteral:
		return QueryPlanner, nil
	case ExecutionStatsLiteral:
		return ExecutionStats, nil
	case AllPlansExecutionLiteral:
		return AllPlansExecution, nil
	}
	return 0, fmt.Errorf("verbosity string must be one of {'%s', '%s', '%s'}",
		QueryPlannerLiteral, ExecutionStatsLiteral, AllPlansExecutionLiteral)
}

// Ptr returns a pointer to a copy of v, for APIs that take an optional verbosity.
func (v Verbosity) Ptr() *Verbosity { return &v }

func (v Verbosity) String() string {
	switch v {
	case QueryPlanner:
		return QueryPlannerLiteral
	case ExecutionStats:
		return ExecutionStatsLiteral
	case AllPlansExecution:
		return AllPlansExecutionLiteral
	}
	return fmt.Sprintf("Verbosity(%d)", int(v))
}

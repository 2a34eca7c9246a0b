// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package command

import (
	"errors"
	"fmt"

	"github.com/ikmak/mongo-aggregate/core"
	"github.com/ikmak/mongo-aggregate/core/explain"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// VerbosityName is the field of the explain command that holds the verbosity.
const VerbosityName = "verbosity"

// DefaultExplainVerbosity is used when an explain command has no verbosity field.
const DefaultExplainVerbosity = explain.AllPlansExecution

// ErrNotExplain is returned by EncodeExplain for requests that are not explain requests.
var ErrNotExplain = errors.New("aggregation request is not an explain request")

// EncodeExplain wraps the encoded aggregate command of an explain request in an explain
// command that carries the verbosity:
//
//	{explain: {aggregate: ..., pipeline: [...]}, verbosity: "<level>"}
func EncodeExplain(r AggregationRequest) (bsoncore.Document, error) {
	verbosity, ok := r.Explain()
	if !ok {
		return nil, ErrNotExplain
	}

	return bsoncore.BuildDocumentFromElements(nil,
		bsoncore.AppendDocumentElement(nil, ExplainName, r.Encode()),
		bsoncore.AppendStringElement(nil, VerbosityName, verbosity.String()),
	), nil
}

// ParseExplain parses an explain command wrapping an aggregate command. The inner command is
// parsed with the verbosity of the explain command, so it must not carry an explain field of
// its own.
func (p AggregateParser) ParseExplain(ns core.Namespace, cmd bsoncore.Document) (AggregationRequest, error) {
	if err := cmd.Validate(); err != nil {
		return AggregationRequest{}, Error{Code: FailedToParse, Message: fmt.Sprintf("invalid command document: %v", err)}
	}

	inner, ok := cmd.Lookup(ExplainName).DocumentOK()
	if !ok {
		return AggregationRequest{}, Error{
			Code:    TypeMismatch,
			Field:   ExplainName,
			Actual:  cmd.Lookup(ExplainName).Type,
			Message: "explain command requires a nested object",
		}
	}

	first, err := inner.IndexErr(0)
	if err != nil || first.Key() != CommandName {
		name := ""
		if err == nil {
			name = first.Key()
		}
		return AggregationRequest{}, Error{
			Code:    FailedToParse,
			Field:   ExplainName,
			Message: fmt.Sprintf("explain is only supported for '%s', not '%s'", CommandName, name),
		}
	}

	verbosity := DefaultExplainVerbosity
	if val, err := cmd.LookupErr(VerbosityName); err == nil {
		if val.Type != bsontype.String {
			return AggregationRequest{}, Error{
				Code:    FailedToParse,
				Field:   VerbosityName,
				Actual:  val.Type,
				Message: "explain verbosity must be a string",
			}
		}
		verbosity, err = explain.ParseVerbosity(val.StringValue())
		if err != nil {
			return AggregationRequest{}, Error{Code: FailedToParse, Field: VerbosityName, Message: err.Error()}
		}
	}

	return p.Parse(ns, inner, &verbosity)
}

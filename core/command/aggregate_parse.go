// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package command

import (
	"fmt"
	"strings"

	"github.com/ikmak/mongo-aggregate/core"
	"github.com/ikmak/mongo-aggregate/core/explain"
	"github.com/ikmak/mongo-aggregate/internal/logger"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// AggregateParser parses aggregate command documents.
//
// The zero value is ready to use and parses as a writable node with logging disabled.
type AggregateParser struct {
	// ReadOnly is set when the storage engine runs in read-only mode. Options that would
	// require writing, such as allowDiskUse, are then rejected.
	ReadOnly bool

	// Logger receives a debug message for each parsed command and an info message for
	// each rejected one. May be nil.
	Logger *logger.Logger
}

// ParseAggregate parses cmd with a zero-value AggregateParser.
func ParseAggregate(ns core.Namespace, cmd bsoncore.Document, verbosity *explain.Verbosity) (AggregationRequest, error) {
	return AggregateParser{}.Parse(ns, cmd, verbosity)
}

// Parse validates cmd and converts it into an AggregationRequest against ns.
//
// A non-nil verbosity marks the request as an explain request; it is how an enclosing
// explain command passes its verbosity, and cmd must then not carry its own explain field.
// The first violation found is returned as an Error.
func (p AggregateParser) Parse(ns core.Namespace, cmd bsoncore.Document, verbosity *explain.Verbosity) (AggregationRequest, error) {
	req, err := p.parse(ns, cmd, verbosity)
	if err != nil {
		p.Logger.Print(logger.InfoLevel, "aggregate command rejected",
			"namespace", ns.FullName(),
			"error", err.Error(),
		)
		return AggregationRequest{}, err
	}

	p.Logger.Print(logger.DebugLevel, "aggregate command parsed",
		"namespace", ns.FullName(),
		"stages", len(req.pipeline),
		"batchSize", req.batchSize,
		"explain", req.IsExplain(),
	)
	return req, nil
}

// aggregateParse is the state of a single Parse call.
type aggregateParse struct {
	readOnly bool
	cmd      bsoncore.Document
	builder  *Builder

	hasCursor  bool
	hasExplain bool
}

type optionParser func(ap *aggregateParse, elem bsoncore.Element) error

// optionsParsedElsewhere are accepted without inspection.
var optionsParsedElsewhere = map[string]struct{}{
	MaxTimeMSName:    {},
	WriteConcernName: {},
	PipelineName:     {},
	CommandName:      {},
	ReadConcernName:  {},
}

var optionParsers = map[string]optionParser{
	CursorName:                   parseCursor,
	CollationName:                parseCollation,
	HintName:                     parseHint,
	ExplainName:                  parseExplain,
	FromRouterName:               parseFromRouter,
	AllowDiskUseName:             parseAllowDiskUse,
	BypassDocumentValidationName: parseBypassDocumentValidation,
}

func (p AggregateParser) parse(ns core.Namespace, cmd bsoncore.Document, verbosity *explain.Verbosity) (AggregationRequest, error) {
	if err := cmd.Validate(); err != nil {
		return AggregationRequest{}, Error{Code: FailedToParse, Message: fmt.Sprintf("invalid command document: %v", err)}
	}

	pipeline, err := parsePipeline(cmd)
	if err != nil {
		return AggregationRequest{}, err
	}

	ap := &aggregateParse{
		readOnly: p.ReadOnly,
		cmd:      cmd,
		builder:  NewBuilder(ns, nil),
	}
	ap.builder.req.pipeline = pipeline

	elems, _ := cmd.Elements()
	for _, elem := range elems {
		key := elem.Key()

		// Top-level fields prefixed with $ are for the command processor.
		if strings.HasPrefix(key, "$") {
			continue
		}
		if _, ok := optionsParsedElsewhere[key]; ok {
			continue
		}

		parseOption, ok := optionParsers[key]
		if !ok {
			return AggregationRequest{}, Error{
				Code:    FailedToParse,
				Field:   key,
				Message: fmt.Sprintf("unrecognized field '%s'", key),
			}
		}
		if err := parseOption(ap, elem); err != nil {
			return AggregationRequest{}, err
		}
	}

	if err := ap.checkCombinations(verbosity); err != nil {
		return AggregationRequest{}, err
	}
	return ap.builder.Build(), nil
}

func parsePipeline(cmd bsoncore.Document) ([]bsoncore.Document, error) {
	val, err := cmd.LookupErr(PipelineName)
	arr, ok := val.ArrayOK()
	if err != nil || !ok {
		return nil, Error{
			Code:    TypeMismatch,
			Field:   PipelineName,
			Actual:  val.Type,
			Message: "'pipeline' option must be specified as an array",
		}
	}

	stages, _ := arr.Values()
	pipeline := make([]bsoncore.Document, 0, len(stages))
	for _, stage := range stages {
		doc, ok := stage.DocumentOK()
		if !ok {
			return nil, Error{
				Code:    TypeMismatch,
				Field:   PipelineName,
				Actual:  stage.Type,
				Message: "Each element of the 'pipeline' array must be an object",
			}
		}
		pipeline = append(pipeline, copyDocument(doc))
	}
	return pipeline, nil
}

func (ap *aggregateParse) checkCombinations(verbosity *explain.Verbosity) error {
	if verbosity != nil {
		if ap.hasExplain {
			return Error{
				Code:    FailedToParse,
				Field:   ExplainName,
				Message: fmt.Sprintf("The '%s' option is illegal when an explain verbosity is also provided", ExplainName),
			}
		}
		ap.builder.SetExplain(verbosity)
	}

	isExplain := ap.builder.req.IsExplain()
	if !ap.hasCursor && !isExplain {
		return Error{
			Code:    FailedToParse,
			Field:   CursorName,
			Message: fmt.Sprintf("The '%s' option is required, except for aggregation explain", CursorName),
		}
	}

	if isExplain {
		for _, field := range []string{ReadConcernName, WriteConcernName} {
			if _, err := ap.cmd.LookupErr(field); err == nil {
				return Error{
					Code:    FailedToParse,
					Field:   field,
					Message: fmt.Sprintf("Aggregation explain does not support the '%s' option", field),
				}
			}
		}
	}
	return nil
}

func notABoolean(elem bsoncore.Element) error {
	return Error{
		Code:    TypeMismatch,
		Field:   elem.Key(),
		Actual:  elem.Value().Type,
		Message: fmt.Sprintf("%s must be a boolean, not a %s", elem.Key(), typeName(elem.Value().Type)),
	}
}

func parseCursor(ap *aggregateParse, _ bsoncore.Element) error {
	batchSize, err := ParseCursorOptions(ap.cmd, DefaultBatchSize)
	if err != nil {
		return err
	}
	ap.hasCursor = true
	ap.builder.SetBatchSize(batchSize)
	return nil
}

func parseCollation(ap *aggregateParse, elem bsoncore.Element) error {
	val := elem.Value()
	doc, ok := val.DocumentOK()
	if !ok {
		return Error{
			Code:    TypeMismatch,
			Field:   CollationName,
			Actual:  val.Type,
			Message: fmt.Sprintf("%s must be an object, not a %s", CollationName, typeName(val.Type)),
		}
	}
	ap.builder.SetCollation(doc)
	return nil
}

func parseHint(ap *aggregateParse, elem bsoncore.Element) error {
	val := elem.Value()
	switch val.Type {
	case bsontype.EmbeddedDocument:
		ap.builder.SetHint(val.Document())
	case bsontype.String:
		ap.builder.SetHint(bsoncore.BuildDocumentFromElements(nil,
			bsoncore.AppendStringElement(nil, "$hint", val.StringValue()),
		))
	default:
		return Error{
			Code:   FailedToParse,
			Field:  HintName,
			Actual: val.Type,
			Message: fmt.Sprintf("%s must be specified as a string representing an index name, "+
				"or an object representing an index's key pattern", HintName),
		}
	}
	return nil
}

func parseExplain(ap *aggregateParse, elem bsoncore.Element) error {
	b, ok := elem.Value().BooleanOK()
	if !ok {
		return notABoolean(elem)
	}

	ap.hasExplain = true
	// explain: true never asks for more than the query planner's output.
	if b {
		ap.builder.SetExplain(explain.QueryPlanner.Ptr())
	}
	return nil
}

func parseFromRouter(ap *aggregateParse, elem bsoncore.Element) error {
	b, ok := elem.Value().BooleanOK()
	if !ok {
		return notABoolean(elem)
	}
	ap.builder.SetFromRouter(b)
	return nil
}

func parseAllowDiskUse(ap *aggregateParse, elem bsoncore.Element) error {
	if ap.readOnly {
		return Error{
			Code:    IllegalOperation,
			Field:   AllowDiskUseName,
			Message: fmt.Sprintf("The '%s' option is not permitted in read-only mode.", AllowDiskUseName),
		}
	}

	b, ok := elem.Value().BooleanOK()
	if !ok {
		return notABoolean(elem)
	}
	ap.builder.SetAllowDiskUse(b)
	return nil
}

// bypassDocumentValidation accepts any type and is coerced with trueValue, unlike the
// boolean-only options above.
func parseBypassDocumentValidation(ap *aggregateParse, elem bsoncore.Element) error {
	ap.builder.SetBypassDocumentValidation(trueValue(elem.Value()))
	return nil
}

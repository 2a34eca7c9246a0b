// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package command

import (
	"strconv"

	"github.com/ikmak/mongo-aggregate/core"
	"github.com/ikmak/mongo-aggregate/core/explain"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// Field names of the aggregate command.
const (
	CommandName                  = "aggregate"
	PipelineName                 = "pipeline"
	CollationName                = "collation"
	ExplainName                  = "explain"
	FromRouterName               = "fromRouter"
	AllowDiskUseName             = "allowDiskUse"
	HintName                     = "hint"
	BypassDocumentValidationName = "bypassDocumentValidation"
)

// Generic command fields that are parsed by other components.
const (
	MaxTimeMSName    = "maxTimeMS"
	ReadConcernName  = "readConcern"
	WriteConcernName = "writeConcern"
)

// DefaultBatchSize is the batch size used when the cursor document doesn't specify one.
const DefaultBatchSize int64 = 101

// AggregationRequest represents a validated aggregate command.
//
// Values are created by ParseAggregate, NewAggregationRequest or a Builder and are not
// modified afterwards. All documents are owned by the request; accessors return copies.
type AggregationRequest struct {
	ns       core.Namespace
	pipeline []bsoncore.Document

	batchSize int64

	// An empty document means no collation was specified.
	collation bsoncore.Document

	// Either an index key pattern, or {$hint: <index name>}. Empty means no hint.
	hint bsoncore.Document

	// Non-nil only for explain requests.
	explain *explain.Verbosity

	allowDiskUse             bool
	fromRouter               bool
	bypassDocumentValidation bool
}

// NewAggregationRequest returns a request for ns and pipeline with every option at its default.
func NewAggregationRequest(ns core.Namespace, pipeline []bsoncore.Document) AggregationRequest {
	return AggregationRequest{
		ns:        ns,
		pipeline:  copyPipeline(pipeline),
		batchSize: DefaultBatchSize,
	}
}

// Namespace returns the namespace the aggregation runs against.
func (r AggregationRequest) Namespace() core.Namespace { return r.ns }

// Pipeline returns the stages of the aggregation, in order.
func (r AggregationRequest) Pipeline() []bsoncore.Document { return copyPipeline(r.pipeline) }

// BatchSize returns the requested size of the first batch.
func (r AggregationRequest) BatchSize() int64 { return r.batchSize }

// Collation returns the collation, or nil if none was specified.
func (r AggregationRequest) Collation() bsoncore.Document { return copyDocument(r.collation) }

// Hint returns the index hint, or nil if none was specified. A hint given by index name is
// returned as {$hint: <name>}.
func (r AggregationRequest) Hint() bsoncore.Document { return copyDocument(r.hint) }

// Explain returns the explain verbosity and true if this is an explain request.
func (r AggregationRequest) Explain() (explain.Verbosity, bool) {
	if r.explain == nil {
		return 0, false
	}
	return *r.explain, true
}

// IsExplain reports whether the request should be explained rather than executed.
func (r AggregationRequest) IsExplain() bool { return r.explain != nil }

// AllowDiskUse reports whether stages may spill to temporary files.
func (r AggregationRequest) AllowDiskUse() bool { return r.allowDiskUse }

// FromRouter reports whether the command was sent by a router on behalf of a client.
func (r AggregationRequest) FromRouter() bool { return r.fromRouter }

// BypassDocumentValidation reports whether writes done by the pipeline skip document validation.
func (r AggregationRequest) BypassDocumentValidation() bool { return r.bypassDocumentValidation }

// ToBuilder returns a Builder initialized with a copy of r.
func (r AggregationRequest) ToBuilder() *Builder {
	return &Builder{req: r.clone()}
}

// Encode serializes the request as an aggregate command document. Options are only written
// when they differ from their defaults. The explain verbosity is never written: explain
// requests are sent inside an explain command, see EncodeExplain, and carry no cursor
// document.
func (r AggregationRequest) Encode() bsoncore.Document {
	idx, dst := bsoncore.AppendDocumentStart(nil)
	dst = bsoncore.AppendStringElement(dst, CommandName, r.ns.Collection)

	var aidx int32
	aidx, dst = bsoncore.AppendArrayElementStart(dst, PipelineName)
	for i, stage := range r.pipeline {
		dst = bsoncore.AppendDocumentElement(dst, strconv.Itoa(i), stage)
	}
	dst, _ = bsoncore.AppendArrayEnd(dst, aidx)

	if r.allowDiskUse {
		dst = bsoncore.AppendBooleanElement(dst, AllowDiskUseName, true)
	}
	if r.fromRouter {
		dst = bsoncore.AppendBooleanElement(dst, FromRouterName, true)
	}
	if r.bypassDocumentValidation {
		dst = bsoncore.AppendBooleanElement(dst, BypassDocumentValidationName, true)
	}
	if !isEmptyDocument(r.collation) {
		dst = bsoncore.AppendDocumentElement(dst, CollationName, r.collation)
	}
	if r.explain == nil {
		var cidx int32
		cidx, dst = bsoncore.AppendDocumentElementStart(dst, CursorName)
		dst = bsoncore.AppendInt64Element(dst, BatchSizeName, r.batchSize)
		dst, _ = bsoncore.AppendDocumentEnd(dst, cidx)
	}
	if !isEmptyDocument(r.hint) {
		dst = bsoncore.AppendDocumentElement(dst, HintName, r.hint)
	}

	dst, _ = bsoncore.AppendDocumentEnd(dst, idx)
	return dst
}

func (r AggregationRequest) clone() AggregationRequest {
	c := r
	c.pipeline = copyPipeline(r.pipeline)
	c.collation = copyDocument(r.collation)
	c.hint = copyDocument(r.hint)
	if r.explain != nil {
		c.explain = r.explain.Ptr()
	}
	return c
}

func copyPipeline(pipeline []bsoncore.Document) []bsoncore.Document {
	if pipeline == nil {
		return nil
	}
	out := make([]bsoncore.Document, len(pipeline))
	for i, stage := range pipeline {
		out[i] = copyDocument(stage)
	}
	return out
}

// Builder configures an AggregationRequest before it is handed to other components.
// Setters return the Builder so calls can be chained.
type Builder struct {
	req AggregationRequest
}

// NewBuilder returns a Builder for ns and pipeline with every option at its default.
func NewBuilder(ns core.Namespace, pipeline []bsoncore.Document) *Builder {
	return &Builder{req: NewAggregationRequest(ns, pipeline)}
}

// SetBatchSize sets the batch size. A negative size is a programming error and panics with
// an InvariantError.
func (b *Builder) SetBatchSize(batchSize int64) *Builder {
	if batchSize < 0 {
		panic(newInvariantError("batch size must be non-negative, got %d", batchSize))
	}
	b.req.batchSize = batchSize
	return b
}

// SetCollation sets the collation. A nil or empty document clears it.
func (b *Builder) SetCollation(collation bsoncore.Document) *Builder {
	b.req.collation = copyDocument(collation)
	return b
}

// SetHint sets the index hint. A nil or empty document clears it.
func (b *Builder) SetHint(hint bsoncore.Document) *Builder {
	b.req.hint = copyDocument(hint)
	return b
}

// SetExplain sets the explain verbosity. A nil verbosity makes this a regular request.
func (b *Builder) SetExplain(verbosity *explain.Verbosity) *Builder {
	b.req.explain = nil
	if verbosity != nil {
		b.req.explain = verbosity.Ptr()
	}
	return b
}

// SetAllowDiskUse sets whether stages may write temporary files.
func (b *Builder) SetAllowDiskUse(allowDiskUse bool) *Builder {
	b.req.allowDiskUse = allowDiskUse
	return b
}

// SetFromRouter sets whether the request was sent by a router.
func (b *Builder) SetFromRouter(fromRouter bool) *Builder {
	b.req.fromRouter = fromRouter
	return b
}

// SetBypassDocumentValidation sets whether writes skip document validation.
func (b *Builder) SetBypassDocumentValidation(bypass bool) *Builder {
	b.req.bypassDocumentValidation = bypass
	return b
}

// Build returns the configured request. The Builder may keep being used; later changes do
// not affect requests already built.
func (b *Builder) Build() AggregationRequest {
	return b.req.clone()
}

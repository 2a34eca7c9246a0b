// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package command parses and serializes the options of the aggregate command.
//
// ParseAggregate turns a raw command document into a validated AggregationRequest, or
// returns an Error carrying the server error code, the offending field and a message.
// AggregationRequest.Encode goes the other way and produces the command document that is
// forwarded to another node. Encoding is not an exact inverse of parsing: hints given by
// index name come back as {$hint: <name>}, options at their default value are dropped, and
// the explain verbosity is carried by the enclosing explain command instead (see
// EncodeExplain and AggregateParser.ParseExplain).
//
// Pipeline stages are kept as opaque documents; nothing in this package inspects them.
package command

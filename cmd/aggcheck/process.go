// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ikmak/mongo-aggregate/core"
	"github.com/ikmak/mongo-aggregate/core/command"
	"github.com/ikmak/mongo-aggregate/core/explain"
	krpretty "github.com/kr/pretty"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/tidwall/pretty"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// processor parses aggregate commands read one per line and writes the re-encoded commands.
type processor struct {
	parser    command.AggregateParser
	ns        core.Namespace
	verbosity *explain.Verbosity
	envelope  bool
	compact   bool
	dump      bool
	bench     int
}

// result is the output of a single input stream.
type result struct {
	out      bytes.Buffer
	failures int
}

func (p *processor) process(name string, r io.Reader) (*result, error) {
	res := &result{}

	lineNumber := 0
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lineNumber++

		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}

		if err := p.processLine(&res.out, line); err != nil {
			res.failures++
			fmt.Fprintf(&res.out, "%s:%d: %v\n", name, lineNumber, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "error reading %s", name)
	}
	return res, nil
}

func (p *processor) processLine(w io.Writer, line string) error {
	var d bson.D
	if err := bson.UnmarshalExtJSON([]byte(line), false, &d); err != nil {
		return errors.Wrap(err, "invalid extended JSON")
	}
	raw, err := bson.Marshal(d)
	if err != nil {
		return errors.Wrap(err, "cannot convert to BSON")
	}
	cmd := bsoncore.Document(raw)

	req, err := p.parse(cmd)
	if err != nil {
		return err
	}

	encoded := req.Encode()
	if p.envelope {
		if encoded, err = command.EncodeExplain(req); err != nil {
			return err
		}
	}

	out, err := p.format(encoded)
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return err
	}

	if p.dump {
		fmt.Fprintf(w, "%# v\n", krpretty.Formatter(req))
	}
	if p.bench > 0 {
		summary, err := p.benchmark(cmd)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, summary)
	}
	return nil
}

func (p *processor) parse(cmd bsoncore.Document) (command.AggregationRequest, error) {
	if p.envelope {
		return p.parser.ParseExplain(p.ns, cmd)
	}
	return p.parser.Parse(p.ns, cmd, p.verbosity)
}

func (p *processor) format(doc bsoncore.Document) ([]byte, error) {
	var d bson.D
	if err := bson.Unmarshal(doc, &d); err != nil {
		return nil, errors.Wrap(err, "cannot decode encoded command")
	}
	out, err := bson.MarshalExtJSON(d, false, false)
	if err != nil {
		return nil, errors.Wrap(err, "cannot render encoded command")
	}
	if p.compact {
		return append(out, '\n'), nil
	}
	return pretty.Pretty(out), nil
}

// benchmark parses cmd p.bench times and summarizes the timings in microseconds.
func (p *processor) benchmark(cmd bsoncore.Document) (string, error) {
	timings := make([]float64, 0, p.bench)
	for i := 0; i < p.bench; i++ {
		start := time.Now()
		if _, err := p.parse(cmd); err != nil {
			return "", err
		}
		timings = append(timings, float64(time.Since(start).Nanoseconds())/1e3)
	}

	median, err := stats.Median(timings)
	if err != nil {
		return "", errors.Wrap(err, "could not calculate median")
	}
	p95, err := stats.Percentile(timings, 95)
	if err != nil {
		return "", errors.Wrap(err, "could not calculate 95th percentile")
	}
	min, err := stats.Min(timings)
	if err != nil {
		return "", errors.Wrap(err, "could not calculate min")
	}
	max, err := stats.Max(timings)
	if err != nil {
		return "", errors.Wrap(err, "could not calculate max")
	}

	return fmt.Sprintf("bench: n=%d median=%.2fus p95=%.2fus min=%.2fus max=%.2fus",
		len(timings), median, p95, min, max), nil
}

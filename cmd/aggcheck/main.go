// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Command aggcheck validates aggregate commands written as extended JSON, one per line, and
// prints them the way they would be forwarded to another node.
//
//	aggcheck [-ns db.coll] [-read-only] [-verbosity queryPlanner] [file ...]
//
// Commands are read from stdin when no file is given or the file is "-". Invalid commands
// are reported as <file>:<line>: <error> and make aggcheck exit with status 1.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ikmak/mongo-aggregate/core"
	"github.com/ikmak/mongo-aggregate/core/command"
	"github.com/ikmak/mongo-aggregate/core/explain"
	"github.com/ikmak/mongo-aggregate/internal/logger"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Getenv))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) int {
	failures, err := mainReal(args, stdin, stdout, stderr, getenv)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if failures > 0 {
		return 1
	}
	return 0
}

func mainReal(args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) (int, error) {
	cfg, files, err := parseConfig(args, getenv)
	if err != nil {
		return 0, err
	}

	p, err := newProcessor(cfg, stderr)
	if err != nil {
		return 0, err
	}

	if len(files) == 0 {
		files = []string{"-"}
	}

	results := make([]*result, len(files))
	g, ctx := errgroup.WithContext(context.Background())
	for i, name := range files {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := processFile(p, name, stdin)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	failures := 0
	for _, res := range results {
		failures += res.failures
		if _, err := res.out.WriteTo(stdout); err != nil {
			return 0, errors.Wrap(err, "error writing output")
		}
	}
	return failures, nil
}

func newProcessor(cfg config, stderr io.Writer) (*processor, error) {
	ns, err := core.ParseNamespace(cfg.Namespace)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid namespace %q", cfg.Namespace)
	}

	var verbosity *explain.Verbosity
	if cfg.Verbosity != "" {
		v, err := explain.ParseVerbosity(cfg.Verbosity)
		if err != nil {
			return nil, errors.Wrap(err, "invalid verbosity")
		}
		verbosity = &v
	}

	base := logrus.New()
	base.SetOutput(stderr)
	base.SetLevel(logrus.DebugLevel)

	return &processor{
		parser: command.AggregateParser{
			ReadOnly: cfg.ReadOnly,
			Logger:   logger.New(logger.NewLogrusSink(base), logger.ParseLevel(cfg.LogLevel)),
		},
		ns:        ns,
		verbosity: verbosity,
		envelope:  cfg.ExplainEnvelope,
		compact:   cfg.Compact,
		dump:      cfg.Dump,
		bench:     cfg.Bench,
	}, nil
}

func processFile(p *processor, name string, stdin io.Reader) (*result, error) {
	if name == "-" {
		return p.process("<stdin>", stdin)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open file %s", name)
	}
	defer f.Close()

	return p.process(name, f)
}

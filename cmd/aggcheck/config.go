// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package main

import (
	"flag"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Environment variables read by aggcheck. They override the config file and are overridden
// by flags.
const (
	envNamespace = "AGGCHECK_NAMESPACE"
	envReadOnly  = "AGGCHECK_READ_ONLY"
	envLogLevel  = "AGGCHECK_LOG_LEVEL"
)

type config struct {
	Namespace       string `yaml:"namespace"`
	ReadOnly        bool   `yaml:"readOnly"`
	Verbosity       string `yaml:"verbosity"`
	ExplainEnvelope bool   `yaml:"explainEnvelope"`
	Compact         bool   `yaml:"compact"`
	Dump            bool   `yaml:"dump"`
	Bench           int    `yaml:"bench"`
	LogLevel        string `yaml:"logLevel"`
}

func defaultConfig() config {
	return config{
		Namespace: "test.coll",
		LogLevel:  "off",
	}
}

func loadConfigFile(path string, cfg *config) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "cannot open config file %s", path)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return errors.Wrapf(err, "cannot parse config file %s", path)
	}
	return nil
}

func applyEnv(cfg *config, getenv func(string) string) error {
	if v := getenv(envNamespace); v != "" {
		cfg.Namespace = v
	}
	if v := getenv(envReadOnly); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", envReadOnly)
		}
		cfg.ReadOnly = b
	}
	if v := getenv(envLogLevel); v != "" {
		cfg.LogLevel = v
	}
	return nil
}

// parseConfig builds the configuration from, in increasing order of precedence, the
// defaults, the file named by -config, the environment and the remaining flags. It returns
// the positional arguments.
func parseConfig(args []string, getenv func(string) string) (config, []string, error) {
	var (
		flagCfg    config
		configPath string
	)

	fs := flag.NewFlagSet("aggcheck", flag.ContinueOnError)
	fs.StringVar(&configPath, "config", "", "path to a YAML config file")
	fs.StringVar(&flagCfg.Namespace, "ns", "", "namespace (db.collection) the commands run against")
	fs.BoolVar(&flagCfg.ReadOnly, "read-only", false, "parse as a node whose storage is read-only")
	fs.StringVar(&flagCfg.Verbosity, "verbosity", "", "explain verbosity passed alongside every command")
	fs.BoolVar(&flagCfg.ExplainEnvelope, "explain-envelope", false, "input lines are explain commands wrapping an aggregate")
	fs.BoolVar(&flagCfg.Compact, "compact", false, "print compact extended JSON")
	fs.BoolVar(&flagCfg.Dump, "dump", false, "print the parsed request value")
	fs.IntVar(&flagCfg.Bench, "bench", 0, "parse every valid command this many times and report timings")
	fs.StringVar(&flagCfg.LogLevel, "log-level", "", "log level (off, info, debug)")
	if err := fs.Parse(args); err != nil {
		return config{}, nil, err
	}

	cfg := defaultConfig()
	if configPath != "" {
		if err := loadConfigFile(configPath, &cfg); err != nil {
			return config{}, nil, err
		}
	}
	if err := applyEnv(&cfg, getenv); err != nil {
		return config{}, nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "ns":
			cfg.Namespace = flagCfg.Namespace
		case "read-only":
			cfg.ReadOnly = flagCfg.ReadOnly
		case "verbosity":
			cfg.Verbosity = flagCfg.Verbosity
		case "explain-envelope":
			cfg.ExplainEnvelope = flagCfg.ExplainEnvelope
		case "compact":
			cfg.Compact = flagCfg.Compact
		case "dump":
			cfg.Dump = flagCfg.Dump
		case "bench":
			cfg.Bench = flagCfg.Bench
		case "log-level":
			cfg.LogLevel = flagCfg.LogLevel
		}
	})

	if cfg.Bench < 0 {
		return config{}, nil, errors.Errorf("bench must not be negative, got %d", cfg.Bench)
	}
	if cfg.ExplainEnvelope && cfg.Verbosity != "" {
		return config{}, nil, errors.New("verbosity cannot be combined with explain-envelope")
	}

	files := fs.Args()
	stdinCount := 0
	for _, name := range files {
		if name == "-" {
			stdinCount++
		}
	}
	if stdinCount > 1 {
		return config{}, nil, errors.New("standard input (\"-\") may only be given once")
	}
	return cfg, files, nil
}

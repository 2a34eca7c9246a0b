// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, files, err := parseConfig(nil, envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
	assert.Empty(t, files)
}

func TestParseConfigPrecedence(t *testing.T) {
	path := writeFile(t, "aggcheck.yaml", `
namespace: file.coll
readOnly: true
verbosity: executionStats
logLevel: info
compact: true
`)

	t.Run("file", func(t *testing.T) {
		cfg, _, err := parseConfig([]string{"-config", path}, envMap(nil))
		require.NoError(t, err)
		assert.Equal(t, "file.coll", cfg.Namespace)
		assert.True(t, cfg.ReadOnly)
		assert.Equal(t, "executionStats", cfg.Verbosity)
		assert.True(t, cfg.Compact)
		assert.Equal(t, "info", cfg.LogLevel)
	})
	t.Run("env over file", func(t *testing.T) {
		cfg, _, err := parseConfig([]string{"-config", path}, envMap(map[string]string{
			envNamespace: "env.coll",
			envReadOnly:  "false",
			envLogLevel:  "debug",
		}))
		require.NoError(t, err)
		assert.Equal(t, "env.coll", cfg.Namespace)
		assert.False(t, cfg.ReadOnly)
		assert.Equal(t, "debug", cfg.LogLevel)
	})
	t.Run("flags over env", func(t *testing.T) {
		cfg, files, err := parseConfig(
			[]string{"-config", path, "-ns", "flag.coll", "-read-only=false", "-compact=false", "a.json", "b.json"},
			envMap(map[string]string{envNamespace: "env.coll", envReadOnly: "true"}),
		)
		require.NoError(t, err)
		assert.Equal(t, "flag.coll", cfg.Namespace)
		assert.False(t, cfg.ReadOnly)
		assert.False(t, cfg.Compact)
		assert.Equal(t, []string{"a.json", "b.json"}, files)
	})
}

func TestParseConfigErrors(t *testing.T) {
	_, _, err := parseConfig([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")}, envMap(nil))
	assert.Error(t, err)

	_, _, err = parseConfig([]string{"-config", writeFile(t, "bad.yaml", "nmespace: x\n")}, envMap(nil))
	assert.Error(t, err)

	_, _, err = parseConfig(nil, envMap(map[string]string{envReadOnly: "maybe"}))
	assert.Error(t, err)

	_, _, err = parseConfig([]string{"-bench", "-1"}, envMap(nil))
	assert.Error(t, err)

	_, _, err = parseConfig([]string{"-explain-envelope", "-verbosity", "queryPlanner"}, envMap(nil))
	assert.Error(t, err)

	cfgPath := writeFile(t, "verbose.yaml", "verbosity: executionStats\n")
	_, _, err = parseConfig([]string{"-config", cfgPath, "-explain-envelope"}, envMap(nil))
	assert.Error(t, err)

	_, _, err = parseConfig([]string{"-", "a.json", "-"}, envMap(nil))
	assert.Error(t, err)

	_, files, err := parseConfig([]string{"-", "a.json"}, envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"-", "a.json"}, files)
}

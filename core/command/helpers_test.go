// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package command

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ikmak/mongo-aggregate/core"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

var testNS = core.Namespace{DB: "db", Collection: "coll"}

func marshalDoc(t *testing.T, d bson.D) bsoncore.Document {
	t.Helper()

	b, err := bson.Marshal(d)
	require.NoError(t, err, "error marshaling %v", d)
	return bsoncore.Document(b)
}

func mustDecimal(t *testing.T, s string) primitive.Decimal128 {
	t.Helper()

	d, err := primitive.ParseDecimal128(s)
	require.NoError(t, err, "error parsing decimal %q", s)
	return d
}

func requireDocEqual(t *testing.T, want bson.D, got bsoncore.Document) {
	t.Helper()

	wantStr := bson.Raw(marshalDoc(t, want)).String()
	gotStr := bson.Raw(got).String()
	if diff := cmp.Diff(wantStr, gotStr); diff != "" {
		t.Fatalf("documents differ (-want +got):\n%s", diff)
	}
}

func requireCode(t *testing.T, err error, code ErrorCode) Error {
	t.Helper()

	require.Error(t, err)
	cmdErr, ok := err.(Error)
	require.True(t, ok, "expected command.Error, got %T: %v", err, err)
	require.Equal(t, code, cmdErr.Code, "unexpected error: %v", err)
	return cmdErr
}

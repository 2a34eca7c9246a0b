// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package command

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func nan() float64 { return math.NaN() }

func TestError(t *testing.T) {
	err := Error{Code: FailedToParse, Field: "foo", Message: "unrecognized field 'foo'"}

	assert.Equal(t, "(FailedToParse) unrecognized field 'foo'", err.Error())
	assert.Equal(t, "FailedToParse", err.Name())
	assert.True(t, IsFailedToParse(err))
	assert.False(t, IsTypeMismatch(err))

	wrapped := fmt.Errorf("running aggregate: %w", err)
	assert.True(t, IsFailedToParse(wrapped))
	assert.False(t, IsIllegalOperation(wrapped))
	assert.False(t, IsBadValue(nil))

	assert.Equal(t, "TypeMismatch", TypeMismatch.String())
	assert.Equal(t, "IllegalOperation", IllegalOperation.String())
	assert.Equal(t, "BadValue", BadValue.String())
	assert.Equal(t, "Location12345", ErrorCode(12345).String())
}

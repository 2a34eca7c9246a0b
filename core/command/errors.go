// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package command

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-stack/stack"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// ErrorCode is a server error code.
type ErrorCode int32

// These are the error codes produced while parsing command options.
const (
	BadValue         ErrorCode = 2
	FailedToParse    ErrorCode = 9
	TypeMismatch     ErrorCode = 14
	IllegalOperation ErrorCode = 20
)

// String returns the code name the server reports alongside the numeric code.
func (c ErrorCode) String() string {
	switch c {
	case BadValue:
		return "BadValue"
	case FailedToParse:
		return "FailedToParse"
	case TypeMismatch:
		return "TypeMismatch"
	case IllegalOperation:
		return "IllegalOperation"
	}
	return fmt.Sprintf("Location%d", int32(c))
}

// Error is a command option parsing error. Field names the offending option and Actual, when
// non-zero, is the BSON type that was found for it.
type Error struct {
	Code    ErrorCode
	Field   string
	Actual  bsontype.Type
	Message string
}

// Error implements the error interface.
func (e Error) Error() string {
	return fmt.Sprintf("(%v) %v", e.Code, e.Message)
}

// Name returns the name of the error code.
func (e Error) Name() string { return e.Code.String() }

// HasCode reports whether err is an Error with the given code.
func HasCode(err error, code ErrorCode) bool {
	var e Error
	return errors.As(err, &e) && e.Code == code
}

// IsTypeMismatch indicates if err is a TypeMismatch error.
func IsTypeMismatch(err error) bool { return HasCode(err, TypeMismatch) }

// IsFailedToParse indicates if err is a FailedToParse error.
func IsFailedToParse(err error) bool { return HasCode(err, FailedToParse) }

// IsIllegalOperation indicates if err is an IllegalOperation error.
func IsIllegalOperation(err error) bool { return HasCode(err, IllegalOperation) }

// IsBadValue indicates if err is a BadValue error.
func IsBadValue(err error) bool { return HasCode(err, BadValue) }

// InvariantError is the panic value used when a caller breaks an API contract, such as
// setting a negative batch size. It is not meant to be recovered by parsing code.
type InvariantError struct {
	Message string
	Stack   stack.CallStack
}

func newInvariantError(format string, args ...interface{}) InvariantError {
	return InvariantError{
		Message: fmt.Sprintf(format, args...),
		Stack:   stack.Trace().TrimBelow(stack.Caller(2)).TrimRuntime(),
	}
}

// Error implements the error interface.
func (e InvariantError) Error() string {
	return "invariant failure: " + e.Message
}

// ErrorStack returns a string representing the stack at the point where the contract was broken.
func (e InvariantError) ErrorStack() string {
	s := bytes.NewBufferString(e.Error() + ": [")

	for i, call := range e.Stack {
		if i != 0 {
			s.WriteString(", ")
		}

		// go vet doesn't like %k even though it's part of stack's API, so the format string is
		// kept in a variable.
		callFormat := "%k.%n %v"

		s.WriteString(fmt.Sprintf(callFormat, call, call, call))
	}

	s.WriteRune(']')

	return s.String()
}

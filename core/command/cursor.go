// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package command

import (
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// Names of the cursor sub-document and its single option.
const (
	CursorName    = "cursor"
	BatchSizeName = "batchSize"
)

// ParseCursorOptions reads the batch size from the "cursor" field of a command document.
// If the field is absent, or the cursor document is empty, defaultBatchSize is returned.
func ParseCursorOptions(cmd bsoncore.Document, defaultBatchSize int64) (int64, error) {
	cursorVal, err := cmd.LookupErr(CursorName)
	if err != nil {
		return defaultBatchSize, nil
	}

	cursor, ok := cursorVal.DocumentOK()
	if !ok {
		return 0, Error{
			Code:    TypeMismatch,
			Field:   CursorName,
			Actual:  cursorVal.Type,
			Message: "cursor field must be missing or an object",
		}
	}

	elems, err := cursor.Elements()
	if err != nil {
		return 0, Error{Code: FailedToParse, Field: CursorName, Message: err.Error()}
	}

	batchSize, hasBatchSize := bsoncore.Value{}, false
	for _, elem := range elems {
		if elem.Key() != BatchSizeName || hasBatchSize {
			return 0, Error{
				Code:    BadValue,
				Field:   CursorName,
				Message: "cursor object can't contain fields other than batchSize",
			}
		}
		batchSize, hasBatchSize = elem.Value(), true
	}
	if !hasBatchSize {
		return defaultBatchSize, nil
	}

	if !isNumber(batchSize) {
		return 0, Error{
			Code:    TypeMismatch,
			Field:   CursorName + "." + BatchSizeName,
			Actual:  batchSize.Type,
			Message: "cursor.batchSize must be a number",
		}
	}

	n := numberLong(batchSize)
	// All negative values are reserved.
	if n < 0 {
		return 0, Error{
			Code:    BadValue,
			Field:   CursorName + "." + BatchSizeName,
			Actual:  batchSize.Type,
			Message: "cursor.batchSize must not be negative",
		}
	}
	return n, nil
}

// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package command

import (
	"errors"
	"math"
	"strconv"

	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// typeName returns the short type alias the server uses in error messages.
func typeName(t bsontype.Type) string {
	switch t {
	case bsontype.Double:
		return "double"
	case bsontype.String:
		return "string"
	case bsontype.EmbeddedDocument:
		return "object"
	case bsontype.Array:
		return "array"
	case bsontype.Binary:
		return "binData"
	case bsontype.Undefined:
		return "undefined"
	case bsontype.ObjectID:
		return "objectId"
	case bsontype.Boolean:
		return "bool"
	case bsontype.DateTime:
		return "date"
	case bsontype.Null:
		return "null"
	case bsontype.Regex:
		return "regex"
	case bsontype.DBPointer:
		return "dbPointer"
	case bsontype.JavaScript:
		return "javascript"
	case bsontype.Symbol:
		return "symbol"
	case bsontype.CodeWithScope:
		return "javascriptWithScope"
	case bsontype.Int32:
		return "int"
	case bsontype.Timestamp:
		return "timestamp"
	case bsontype.Int64:
		return "long"
	case bsontype.Decimal128:
		return "decimal"
	case bsontype.MinKey:
		return "minKey"
	case bsontype.MaxKey:
		return "maxKey"
	}
	return "invalid"
}

// trueValue is the loose truthiness used for flags that accept any type: missing, null and
// undefined are false, numbers are true when non-zero, booleans are themselves and anything
// else is true.
func trueValue(v bsoncore.Value) bool {
	switch v.Type {
	case bsontype.Type(0), bsontype.Null, bsontype.Undefined:
		return false
	case bsontype.Boolean:
		return v.Boolean()
	case bsontype.Int32:
		return v.Int32() != 0
	case bsontype.Int64:
		return v.Int64() != 0
	case bsontype.Double:
		return v.Double() != 0
	case bsontype.Decimal128:
		coeff, _, err := v.Decimal128().BigInt()
		if err != nil {
			// NaN and infinities are not zero.
			return true
		}
		return coeff.Sign() != 0
	}
	return true
}

// isNumber reports whether v holds one of the four numeric BSON types.
func isNumber(v bsoncore.Value) bool {
	switch v.Type {
	case bsontype.Int32, bsontype.Int64, bsontype.Double, bsontype.Decimal128:
		return true
	}
	return false
}

// numberLong converts a numeric value to int64, saturating at the int64 bounds. Doubles are
// truncated toward zero; decimals are rounded half to even. NaN converts to 0.
func numberLong(v bsoncore.Value) int64 {
	switch v.Type {
	case bsontype.Int32:
		return int64(v.Int32())
	case bsontype.Int64:
		return v.Int64()
	case bsontype.Double:
		return saturateInt64(v.Double())
	case bsontype.Decimal128:
		// ParseFloat reports ErrRange with a signed infinity or zero, which saturates below.
		f, err := strconv.ParseFloat(v.Decimal128().String(), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0
		}
		return saturateInt64(math.RoundToEven(f))
	}
	return 0
}

func saturateInt64(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

// copyDocument returns an independently owned copy of doc. A nil doc stays nil.
func copyDocument(doc bsoncore.Document) bsoncore.Document {
	if doc == nil {
		return nil
	}
	return append(bsoncore.Document(nil), doc...)
}

// isEmptyDocument reports whether doc is absent or has no elements.
func isEmptyDocument(doc bsoncore.Document) bool {
	return len(doc) <= 5
}

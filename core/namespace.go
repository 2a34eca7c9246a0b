// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package core

import (
	"errors"
	"strings"
)

// ErrEmptyCollection is returned when a namespace has no collection name.
var ErrEmptyCollection = errors.New("collection name cannot be empty")

// ErrEmptyDatabase is returned when a namespace has no database name.
var ErrEmptyDatabase = errors.New("database name cannot be empty")

// Namespace identifies the collection an aggregate command targets.
type Namespace struct {
	DB         string
	Collection string
}

// ParseNamespace parses a namespace string into a Namespace.
//
// The namespace string must contain at least one ".", the first of which is the separator
// between the database and collection names. The result is then validated.
func ParseNamespace(fullName string) (Namespace, error) {
	idx := strings.Index(fullName, ".")
	if idx == -1 {
		return Namespace{}, errors.New("namespace must contain a '.'")
	}

	ns := Namespace{DB: fullName[:idx], Collection: fullName[idx+1:]}
	if err := ns.Validate(); err != nil {
		return Namespace{}, err
	}
	return ns, nil
}

// NewNamespace creates and validates a Namespace from the given database and collection names.
func NewNamespace(db, collection string) (Namespace, error) {
	ns := Namespace{DB: db, Collection: collection}
	if err := ns.Validate(); err != nil {
		return Namespace{}, err
	}
	return ns, nil
}

// Validate checks that neither name is empty and that the database name contains neither
// a "." nor a " ".
func (ns Namespace) Validate() error {
	switch {
	case ns.Collection == "":
		return ErrEmptyCollection
	case ns.DB == "":
		return ErrEmptyDatabase
	case strings.Contains(ns.DB, " "):
		return errors.New("database name cannot contain ' '")
	case strings.Contains(ns.DB, "."):
		return errors.New("database name cannot contain '.'")
	}
	return nil
}

// FullName returns the database and collection names joined with a ".".
func (ns Namespace) FullName() string {
	return ns.DB + "." + ns.Collection
}

func (ns Namespace) String() string { return ns.FullName() }

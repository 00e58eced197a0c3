// awy/errors.go
// Copyright(c) 2025 awyc contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package awy

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyReferenceData = errors.New("No usable entries found in either reference dataset")
	ErrMissingCSVColumn   = errors.New("Required column missing from route segment CSV")
	ErrNoRouteSegments    = errors.New("Route segment CSV has no header row")
)

// UnknownTypeClassError reports a route segment endpoint whose declared
// type is not part of the recognized vocabulary.
type UnknownTypeClassError struct {
	Side string // "start" or "end"
	Type string
}

func (e UnknownTypeClassError) Error() string {
	return fmt.Sprintf("%s: unknown %s point type class", e.Type, e.Side)
}

// UnresolvedEndpointError reports an endpoint identifier that was not
// found in the lookup table selected by its declared type.
type UnresolvedEndpointError struct {
	Side       string // "start" or "end"
	Identifier string
}

func (e UnresolvedEndpointError) Error() string {
	return fmt.Sprintf("%s: no region code found for %s point", e.Identifier, e.Side)
}

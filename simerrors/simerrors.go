// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package simerrors classifies the ways a transient pipe-flow run can go
// wrong, and tracks how many times each kind has fired so the driver can
// decide what to recover from locally and what to treat as fatal. Error
// formatting follows gosl/chk's Err convention; the counts-plus-last-error
// bookkeeping mirrors fem.Summary's run-diagnostics accumulation.
package simerrors

import "github.com/cpmech/gosl/io"

// Kind enumerates the ways a step can fail: malformed input geometry or
// configuration (fatal at init), a thermodynamic closure going out of
// range or failing to converge, numerical instability in the hyperbolic
// update, a slug-tracking invariant violation, or a boundary condition
// that cannot be satisfied (e.g. an outlet pressure below 1e5 Pa).
type Kind int

const (
	GeometryOutOfRange Kind = iota
	InvalidConfiguration
	ThermoFailureOutOfRange
	ThermoFailureConvergence
	NumericalInstability
	SlugInvariantViolated
	BoundaryUnsatisfiable
)

func (k Kind) String() string {
	switch k {
	case GeometryOutOfRange:
		return "GeometryOutOfRange"
	case InvalidConfiguration:
		return "InvalidConfiguration"
	case ThermoFailureOutOfRange:
		return "ThermoFailure(OutOfRange)"
	case ThermoFailureConvergence:
		return "ThermoFailure(ConvergenceFailed)"
	case NumericalInstability:
		return "NumericalInstability"
	case SlugInvariantViolated:
		return "SlugInvariantViolated"
	case BoundaryUnsatisfiable:
		return "BoundaryUnsatisfiable"
	default:
		return "Unknown"
	}
}

// Fatal reports whether this kind is fatal at init (GeometryOutOfRange,
// InvalidConfiguration) -- all other kinds are recovered locally and only
// surfaced as warnings, except NumericalInstability which escalates to
// fatal after Driver-tracked consecutive-step persistence.
func (k Kind) Fatal() bool {
	return k == GeometryOutOfRange || k == InvalidConfiguration
}

// Error wraps a Kind with a human-readable message and, where relevant,
// the offending cell index.
type Error struct {
	Kind Kind
	Msg  string
	Cell int // -1 when not cell-specific
}

func (e *Error) Error() string {
	if e.Cell >= 0 {
		return io.Sf("%s at cell %d: %s", e.Kind, e.Cell, e.Msg)
	}
	return io.Sf("%s: %s", e.Kind, e.Msg)
}

// New builds an Error not tied to a specific cell.
func New(k Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Msg: io.Sf(format, args...), Cell: -1}
}

// NewAtCell builds an Error tied to a specific cell index.
func NewAtCell(k Kind, cell int, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Msg: io.Sf(format, args...), Cell: cell}
}

// Counters accumulates non-fatal warning occurrences by kind plus the last
// error seen of each kind, mirroring fem.Summary's diagnostics bookkeeping.
type Counters struct {
	counts map[Kind]int
	last   map[Kind]*Error
}

// NewCounters returns an empty Counters.
func NewCounters() *Counters {
	return &Counters{counts: make(map[Kind]int), last: make(map[Kind]*Error)}
}

// Record increments the counter for e.Kind and stores e as the last error
// of that kind.
func (c *Counters) Record(e *Error) {
	c.counts[e.Kind]++
	c.last[e.Kind] = e
}

// Count returns how many times k has been recorded.
func (c *Counters) Count(k Kind) int { return c.counts[k] }

// Last returns the last recorded error of kind k, or nil.
func (c *Counters) Last(k Kind) *Error { return c.last[k] }

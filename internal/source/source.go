// Package source holds byte-offset ranges into an original markup string and
// the mapping between decoded text and the source it was extracted from.
package source

import (
	"errors"
	"fmt"
)

// ErrOffsetInconsistency reports a computed range that does not fit the text
// it claims to address. It signals a defect, never bad input.
var ErrOffsetInconsistency = errors.New("offset inconsistency")

// Range is a half-open [Start, End) byte range.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the width of r in bytes.
func (r Range) Len() int { return r.End - r.Start }

// Valid reports whether r lies inside a source of length n.
func (r Range) Valid(n int) bool {
	return r.Start >= 0 && r.Start <= r.End && r.End <= n
}

// Contains reports whether o lies entirely inside r.
func (r Range) Contains(o Range) bool {
	return o.Start >= r.Start && o.End <= r.End
}

// Overlaps reports whether r and o share at least one byte.
func (r Range) Overlaps(o Range) bool {
	return r.Start < o.End && o.Start < r.End
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// OffsetError describes a range that fell outside its bound.
type OffsetError struct {
	Op    string
	Range Range
	Bound Range
}

func (e *OffsetError) Error() string {
	return fmt.Sprintf("%s: range %s outside %s: %v", e.Op, e.Range, e.Bound, ErrOffsetInconsistency)
}

func (e *OffsetError) Unwrap() error { return ErrOffsetInconsistency }

// Check returns an *OffsetError when r is malformed or not inside bound.
func Check(op string, r, bound Range) error {
	if r.Start > r.End || !bound.Contains(r) {
		return &OffsetError{Op: op, Range: r, Bound: bound}
	}
	return nil
}

// Mapper translates offsets in decoded text back to source offsets and the
// other way round.
type Mapper interface {
	// Start maps a decoded offset used as the start of a span.
	Start(i int) int
	// End maps a decoded offset used as the end of a span.
	End(i int) int
	// Locate maps a source offset to a decoded offset.
	Locate(x int) (int, bool)
}

// Shift maps decoded text that was copied verbatim from the source at a
// fixed base offset.
type Shift int

func (s Shift) Start(i int) int { return int(s) + i }
func (s Shift) End(i int) int   { return int(s) + i }

func (s Shift) Locate(x int) (int, bool) {
	if x < int(s) {
		return 0, false
	}
	return x - int(s), true
}

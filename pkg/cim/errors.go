package cim

import (
	"errors"
	"fmt"
)

// Sentinel errors for metamodel lookups.
var (
	// ErrNotFound is returned when a lookup has no match.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguous is returned when a lookup expecting one match finds several.
	ErrAmbiguous = errors.New("ambiguous")
	// ErrUnsupportedVariant is returned when a variant type has no registered constructor.
	ErrUnsupportedVariant = errors.New("unsupported variant type")
	// ErrNilVariant is returned when a qualifier is built without a payload.
	ErrNilVariant = errors.New("qualifier payload must not be nil")
	// ErrTooFewReferences is returned when an association has fewer than two references.
	ErrTooFewReferences = errors.New("association needs at least two references")
)

// LookupError describes a failed lookup in a schema or an element.
type LookupError struct {
	// What was searched, e.g. "qualifier" or "class".
	What string
	// Key is the name or variant type searched for.
	Key string
	// In names the element searched.
	In string
	// Count is the number of matches found.
	Count int
	// Err is ErrNotFound or ErrAmbiguous.
	Err error
}

func (e *LookupError) Error() string {
	if errors.Is(e.Err, ErrAmbiguous) {
		return fmt.Sprintf("%s %q in %q: %d matches: %v", e.What, e.Key, e.In, e.Count, e.Err)
	}
	return fmt.Sprintf("%s %q in %q: %v", e.What, e.Key, e.In, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

func notFound(what, key, in string) error {
	return &LookupError{What: what, Key: key, In: in, Err: ErrNotFound}
}

func ambiguous(what, key, in string, count int) error {
	return &LookupError{What: what, Key: key, In: in, Count: count, Err: ErrAmbiguous}
}

package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when Save updates an id that matches no row.
	// Lookups report absence with nil results instead.
	ErrNotFound = errors.New("record not found")

	// ErrMissingColumn is returned when a row lacks a column its record requires.
	ErrMissingColumn = errors.New("missing column")
)

type FaultCode string

const (
	FaultConstraintUnique     FaultCode = "constraint_unique"
	FaultConstraintForeignKey FaultCode = "constraint_foreign_key"
	FaultConstraintNotNull    FaultCode = "constraint_not_null"
	FaultConstraint           FaultCode = "constraint"
	FaultBusy                 FaultCode = "busy"
	FaultMalformedQuery       FaultCode = "malformed_query"
	FaultConnection           FaultCode = "connection"
	FaultUnknown              FaultCode = "unknown"
)

// StoreFault is a query the store rejected. It is never recovered from
// locally.
type StoreFault struct {
	Op   string
	Code FaultCode
	Err  error
}

func (f *StoreFault) Error() string {
	return fmt.Sprintf("store fault (%s) during %s: %v", f.Code, f.Op, f.Err)
}

func (f *StoreFault) Unwrap() error {
	return f.Err
}

// FaultCodeOf reports the fault code carried anywhere in err's chain, or
// false when err is not a store fault.
func FaultCodeOf(err error) (FaultCode, bool) {
	var fault *StoreFault
	if errors.As(err, &fault) {
		return fault.Code, true
	}
	return "", false
}

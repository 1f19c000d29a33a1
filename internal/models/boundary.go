package models

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a turn could not be answered.
type FailureKind string

const (
	KindNone      FailureKind = ""
	KindBackend   FailureKind = "backend"
	KindIdentity  FailureKind = "identity"
	KindWarehouse FailureKind = "warehouse"
	KindNoSQL     FailureKind = "no_sql"
	KindUnknown   FailureKind = "unknown"
)

var (
	ErrBackend   = errors.New("backend call failed")
	ErrIdentity  = errors.New("identity token unavailable")
	ErrWarehouse = errors.New("warehouse execution failed")
	ErrNoSQL     = errors.New("no SQL generated")
)

// BoundaryError is the single failure shape for every call that leaves the
// process: backend HTTP, identity provider and warehouse.
type BoundaryError struct {
	Kind       FailureKind
	Op         string
	StatusCode int
	Err        error
}

func (e *BoundaryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Kind, e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Op, e.Err)
}

func (e *BoundaryError) Unwrap() error { return e.Err }

// Is matches the sentinel of the error's kind.
func (e *BoundaryError) Is(target error) bool {
	switch e.Kind {
	case KindBackend:
		return target == ErrBackend
	case KindIdentity:
		return target == ErrIdentity
	case KindWarehouse:
		return target == ErrWarehouse
	case KindNoSQL:
		return target == ErrNoSQL
	}
	return false
}

// NewBoundaryError wraps err under kind and op.
func NewBoundaryError(kind FailureKind, op string, err error) *BoundaryError {
	return &BoundaryError{Kind: kind, Op: op, Err: err}
}

// KindOf classifies err. nil yields KindNone.
func KindOf(err error) FailureKind {
	if err == nil {
		return KindNone
	}
	var be *BoundaryError
	if errors.As(err, &be) {
		return be.Kind
	}
	switch {
	case errors.Is(err, ErrIdentity):
		return KindIdentity
	case errors.Is(err, ErrBackend):
		return KindBackend
	case errors.Is(err, ErrWarehouse):
		return KindWarehouse
	case errors.Is(err, ErrNoSQL):
		return KindNoSQL
	}
	return KindUnknown
}

package fsdgs

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidData   = errors.New("invalid instance data")
	ErrVacuous       = errors.New("instance has no groups or no machines")
	ErrInfeasible    = errors.New("model is infeasible")
	ErrUnbounded     = errors.New("model is unbounded")
	ErrUnknownSolver = errors.New("unknown solver")
)

// DataError reports an inconsistency found before the model is built.
type DataError struct {
	Field string
	Msg   string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("invalid instance data: %s: %s", e.Field, e.Msg)
}

func (e *DataError) Unwrap() error {
	return ErrInvalidData
}

func dataErrorf(field, format string, args ...any) error {
	return &DataError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// StatusError is returned when a solver terminates without an optimal,
// infeasible or unbounded verdict.
type StatusError struct {
	Solver string
	Status Status
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: status: %v (%s)", e.Solver, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s: status: %v", e.Solver, e.Status)
}

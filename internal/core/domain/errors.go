// internal/core/domain/errors.go
package domain

import "errors"

// Errores de dominio comunes.
var (
	// Target errors
	ErrEmptyCompany   = errors.New("target company cannot be empty")
	ErrEmptyTargetURL = errors.New("target url cannot be empty")
	ErrInvalidStatus  = errors.New("invalid target status")
	ErrNilTarget      = errors.New("nil target")

	// Run state errors (structural)
	ErrCardinalityMismatch = errors.New("cardinality mismatch")
	ErrDuplicateCompany    = errors.New("duplicate company in run state")
	ErrUnknownCompany      = errors.New("unknown company in run state")
	ErrStateNotFound       = errors.New("run state not found")
	ErrStateMalformed      = errors.New("run state malformed")

	// Worker errors
	ErrWorkerTimeout = errors.New("timeout")
	ErrWorkerFailed  = errors.New("worker execution failed")

	// Run lifecycle errors
	ErrAttemptsExhausted = errors.New("self-heal attempts exhausted")

	// Publish errors
	ErrPushFailed = errors.New("push to remote failed")
)

package pipeline

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a pipeline failure tagged with the HTTP status spec §7's error
// taxonomy maps it to, so src/httpapi can turn it into a response without
// re-deriving the mapping.
type Error struct {
	Status int
	Err    error
}

func (e *Error) Error() string { return e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

func newError(status int, sentinel error, format string, args ...interface{}) *Error {
	return &Error{Status: status, Err: fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))}
}

var (
	// ErrBadRequest: missing or malformed repo. No resources acquired.
	ErrBadRequest = errors.New("pipeline: bad request")
	// ErrRegistryListFailure: tree endpoint non-2xx or unparseable body.
	ErrRegistryListFailure = errors.New("pipeline: registry list failure")
	// ErrEmptyRepository: tree endpoint returned zero file entries.
	ErrEmptyRepository = errors.New("pipeline: empty repository")
	// ErrSinkFailure: multipart create/upload/complete error.
	ErrSinkFailure = errors.New("pipeline: sink failure")
	// ErrInvariantViolation: a §6/§8 invariant failed to hold at emission time.
	ErrInvariantViolation = errors.New("pipeline: invariant violation")
	// ErrInternal: any other unexpected error.
	ErrInternal = errors.New("pipeline: internal error")
)

func badRequest(format string, args ...interface{}) *Error {
	return newError(http.StatusBadRequest, ErrBadRequest, format, args...)
}

func registryListFailure(format string, args ...interface{}) *Error {
	return newError(http.StatusBadGateway, ErrRegistryListFailure, format, args...)
}

func emptyRepository(repo string) *Error {
	return newError(http.StatusNotFound, ErrEmptyRepository, "repository %q has no files", repo)
}

func sinkFailure(format string, args ...interface{}) *Error {
	return newError(http.StatusInternalServerError, ErrSinkFailure, format, args...)
}

func invariantViolation(format string, args ...interface{}) *Error {
	return newError(http.StatusInternalServerError, ErrInvariantViolation, format, args...)
}

func internalError(format string, args ...interface{}) *Error {
	return newError(http.StatusInternalServerError, ErrInternal, format, args...)
}

package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthenticated indicates the request carries no valid identity.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrPermissionDenied indicates the requester lacks access to the
	// target company. Surfaced directly to the caller, never retried.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrMalformedPDF indicates the uploaded bytes could not be parsed as
	// a PDF at all. No document or chunk rows are persisted.
	ErrMalformedPDF = errors.New("malformed pdf")
)

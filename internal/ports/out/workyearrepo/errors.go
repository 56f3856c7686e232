package workyearrepo

import "errors"

var (
	// ErrNotFound indicates the requested work year does not exist.
	ErrNotFound = errors.New("work year not found")

	// ErrAlreadyExists indicates a work year already exists with the provided ID.
	ErrAlreadyExists = errors.New("work year already exists")

	// ErrNoCurrent indicates no work year is currently open.
	ErrNoCurrent = errors.New("no current work year")

	// ErrCurrentExists indicates an open work year already exists; it must be
	// closed before a new one starts.
	ErrCurrentExists = errors.New("a current work year already exists")
)

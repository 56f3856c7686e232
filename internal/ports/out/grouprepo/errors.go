package grouprepo

import "errors"

var (
	// ErrNotFound indicates the requested group does not exist.
	ErrNotFound = errors.New("group not found")

	// ErrAlreadyExists indicates a group already exists with the provided ID.
	ErrAlreadyExists = errors.New("group already exists")

	// ErrNameAlreadyUsed indicates another group in the same work year
	// already carries the provided name.
	ErrNameAlreadyUsed = errors.New("group name already used in work year")
)

package model

import "errors"

var (
	// ErrNotFound indicates a link, tag or tab id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument indicates input was rejected before any state changed.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidURL indicates an invalid URL was provided.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrDuplicate indicates a record id appears twice in a snapshot.
	ErrDuplicate = errors.New("duplicate id")
)

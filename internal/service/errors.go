package service

import (
	"errors"

	"github.com/emrgen/notion/internal/access"
)

var (
	// ErrUnauthorized is returned when the caller is anonymous or does not own the document.
	ErrUnauthorized = access.ErrUnauthorized
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidArgument is returned for malformed ids.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrCascadeNotFound is returned when a cascade is unknown or was already evicted.
	ErrCascadeNotFound = errors.New("cascade not found")
)

package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound       = errors.New("event not found")
	ErrInvalidCatalog = errors.New("invalid event catalog")
)

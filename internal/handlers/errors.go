package handlers

import "errors"

// Client-facing validation errors shared across handlers.
var (
	errInvalidLimit    = errors.New("invalid limit parameter")
	errInvalidOffset   = errors.New("invalid offset parameter")
	errUnknownCategory = errors.New("category does not exist")
)

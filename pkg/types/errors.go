package types

import "errors"

// Standard errors returned by the catalogue and its collaborators.
var (
	ErrNotFound          = errors.New("entity not found")
	ErrInvalidID         = errors.New("invalid entity ID")
	ErrInvalidReadStatus = errors.New("invalid read status")
	ErrSeriesNameEmpty   = errors.New("series name must not be empty")
)

package types

import "errors"

// Domain specific errors shared by the discovery packages.
var (
	ErrNotFound            = errors.New("requested item not found")
	ErrBadRequest          = errors.New("bad request")
	ErrProviderUnavailable = errors.New("external provider unavailable")
)

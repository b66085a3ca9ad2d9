package loader

import "errors"

// Sentinel errors for delivery loading.
var (
	ErrMissingColumn = errors.New("loader: missing column")
	ErrBadRecord     = errors.New("loader: bad record")
)

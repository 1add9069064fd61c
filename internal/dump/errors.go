package dump

import "errors"

// Domain-specific errors for the dump package.
var (
	ErrInvalidOrder    = errors.New("unknown result order")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
)

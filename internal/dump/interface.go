package dump

import "context"

// UseCase defines the business logic interface for the dump domain.
type UseCase interface {
	// Dump fetches all tasks matching the input query, following the
	// pagination cursor until the result set or the limit is exhausted.
	Dump(ctx context.Context, input Input) (Output, error)
}

package usecase

import (
	"github.com/em-/dumph/internal/dump/repository"
	pkgLog "github.com/em-/dumph/pkg/log"
)

const defaultPageSize = 100

type implUseCase struct {
	l      pkgLog.Logger
	source repository.TaskSource
}

// New creates a new dump UseCase instance.
func New(l pkgLog.Logger, source repository.TaskSource) *implUseCase {
	return &implUseCase{
		l:      l,
		source: source,
	}
}

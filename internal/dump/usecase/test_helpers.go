package usecase

import (
	"context"

	"github.com/em-/dumph/internal/dump/repository"
)

// fakeSource serves canned pages for testing the pagination loop.
type fakeSource struct {
	pages []repository.TaskPage
	err   error

	calls []repository.SearchTasksOptions
}

func (f *fakeSource) SearchTasks(ctx context.Context, opt repository.SearchTasksOptions) (repository.TaskPage, error) {
	f.calls = append(f.calls, opt)
	if f.err != nil {
		return repository.TaskPage{}, f.err
	}
	idx := len(f.calls) - 1
	if idx >= len(f.pages) {
		return repository.TaskPage{}, nil
	}
	return f.pages[idx], nil
}

package repository

import (
	"context"

	"github.com/em-/dumph/internal/model"
)

// TaskSource is the interface for fetching task records from the tracker.
type TaskSource interface {
	// SearchTasks fetches one page of tasks with all PHIDs resolved to
	// human-readable names. An empty NextCursor means the last page.
	SearchTasks(ctx context.Context, opt SearchTasksOptions) (TaskPage, error)
}

// TaskPage is one page of resolved task records.
type TaskPage struct {
	Tasks      []model.Task
	NextCursor string
}

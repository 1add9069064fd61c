package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/em-/dumph/internal/dump"
	"github.com/em-/dumph/internal/dump/repository"
	"github.com/em-/dumph/internal/model"
	pkgLog "github.com/em-/dumph/pkg/log"
	"github.com/em-/dumph/pkg/phabricator"
)

// Dump fetches every task matching the input, page by page, until the
// cursor or the overall limit is exhausted. Any fetch error aborts the run;
// no partial result is returned.
func (uc *implUseCase) Dump(ctx context.Context, input dump.Input) (dump.Output, error) {
	if input.Order != "" && !phabricator.ValidOrder(input.Order) {
		return dump.Output{}, fmt.Errorf("%w: %q", dump.ErrInvalidOrder, input.Order)
	}
	if input.PageSize < 0 || input.PageSize > 100 {
		return dump.Output{}, fmt.Errorf("%w: %d", dump.ErrInvalidPageSize, input.PageSize)
	}

	pageSize := input.PageSize
	if pageSize == 0 {
		pageSize = defaultPageSize
	}

	runID := uuid.NewString()
	ctx = pkgLog.ContextWithRunID(ctx, runID)

	uc.l.Infof(ctx, "dump: starting, order=%s limit=%d page_size=%d", input.Order, input.Limit, pageSize)

	opt := repository.SearchTasksOptions{
		Projects:   input.Projects,
		Statuses:   input.Statuses,
		Priorities: input.Priorities,
		Owners:     input.Owners,
		Query:      input.Query,
		Order:      input.Order,
		Limit:      pageSize,
	}
	if !input.Since.IsZero() {
		opt.CreatedAfter = input.Since.Unix()
	}
	if !input.Until.IsZero() {
		opt.CreatedBefore = input.Until.Unix()
	}

	var tasks []model.Task
	pages := 0

	for {
		if input.Limit > 0 {
			remaining := input.Limit - len(tasks)
			if remaining <= 0 {
				break
			}
			if remaining < pageSize {
				opt.Limit = remaining
			}
		}

		page, err := uc.source.SearchTasks(ctx, opt)
		if err != nil {
			uc.l.Errorf(ctx, "dump: page %d failed: %v", pages+1, err)
			return dump.Output{}, fmt.Errorf("failed to fetch tasks: %w", err)
		}
		pages++
		tasks = append(tasks, page.Tasks...)

		uc.l.Debugf(ctx, "dump: page %d fetched, %d tasks so far, cursor=%q", pages, len(tasks), page.NextCursor)

		if page.NextCursor == "" {
			break
		}
		opt.After = page.NextCursor
	}

	if input.Limit > 0 && len(tasks) > input.Limit {
		tasks = tasks[:input.Limit]
	}

	uc.l.Infof(ctx, "dump: finished, %d tasks in %d pages", len(tasks), pages)

	return dump.Output{
		Tasks: tasks,
		RunID: runID,
		Pages: pages,
	}, nil
}

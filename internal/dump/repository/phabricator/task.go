package phabricator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/em-/dumph/internal/dump/repository"
	"github.com/em-/dumph/internal/model"
	pkgPhab "github.com/em-/dumph/pkg/phabricator"
)

const (
	userPHIDPrefix    = "PHID-USER-"
	projectPHIDPrefix = "PHID-PROJ-"
)

func (s *implSource) SearchTasks(ctx context.Context, opt repository.SearchTasksOptions) (repository.TaskPage, error) {
	page, err := s.client.ManiphestSearch(ctx, pkgPhab.ManiphestSearchOptions{
		Projects:      opt.Projects,
		Statuses:      opt.Statuses,
		Priorities:    opt.Priorities,
		AssignedTo:    opt.Owners,
		CreatedAfter:  opt.CreatedAfter,
		CreatedBefore: opt.CreatedBefore,
		Query:         opt.Query,
		Order:         opt.Order,
		Limit:         opt.Limit,
		After:         opt.After,
	})
	if err != nil {
		s.l.Errorf(ctx, "phabricator repository: maniphest.search failed: %v", err)
		return repository.TaskPage{}, err
	}

	if err := s.resolveNames(ctx, page.Data); err != nil {
		return repository.TaskPage{}, err
	}

	tasks := make([]model.Task, 0, len(page.Data))
	for _, raw := range page.Data {
		tasks = append(tasks, s.taskToModel(raw))
	}

	return repository.TaskPage{
		Tasks:      tasks,
		NextCursor: page.Cursor.After,
	}, nil
}

// resolveNames fills the name cache for every PHID referenced by the page,
// batching one project.search and one user.search for the misses.
func (s *implSource) resolveNames(ctx context.Context, tasks []pkgPhab.Task) error {
	var userMisses, projectMisses []string
	seen := map[string]bool{}

	miss := func(phid string) {
		if phid == "" || seen[phid] {
			return
		}
		seen[phid] = true
		if _, ok := s.names.Get(phid); ok {
			return
		}
		switch {
		case strings.HasPrefix(phid, userPHIDPrefix):
			userMisses = append(userMisses, phid)
		case strings.HasPrefix(phid, projectPHIDPrefix):
			projectMisses = append(projectMisses, phid)
		}
	}

	for _, t := range tasks {
		miss(t.Fields.OwnerPHID)
		miss(t.Fields.AuthorPHID)
		for _, phid := range t.Attachments.Projects.ProjectPHIDs {
			miss(phid)
		}
	}

	if len(userMisses) > 0 {
		users, err := s.client.UserSearch(ctx, userMisses)
		if err != nil {
			s.l.Errorf(ctx, "phabricator repository: user.search failed: %v", err)
			return fmt.Errorf("failed to resolve users: %w", err)
		}
		for _, u := range users {
			s.names.Add(u.PHID, u.Fields.Username)
		}
	}

	if len(projectMisses) > 0 {
		projects, err := s.client.ProjectSearch(ctx, projectMisses)
		if err != nil {
			s.l.Errorf(ctx, "phabricator repository: project.search failed: %v", err)
			return fmt.Errorf("failed to resolve projects: %w", err)
		}
		for _, p := range projects {
			s.names.Add(p.PHID, p.Fields.Name)
		}
	}

	return nil
}

// name returns the cached name for a PHID, or the PHID itself when the
// viewer cannot see the referenced object.
func (s *implSource) name(phid string) string {
	if phid == "" {
		return ""
	}
	if n, ok := s.names.Get(phid); ok {
		return n
	}
	return phid
}

func (s *implSource) taskToModel(raw pkgPhab.Task) model.Task {
	projects := make([]string, 0, len(raw.Attachments.Projects.ProjectPHIDs))
	for _, phid := range raw.Attachments.Projects.ProjectPHIDs {
		projects = append(projects, s.name(phid))
	}

	return model.Task{
		ID:          raw.ID,
		Title:       raw.Fields.Name,
		Description: raw.Fields.Description.Raw,
		Status:      raw.Fields.Status.Name,
		Priority:    raw.Fields.Priority.Name,
		Owner:       s.name(raw.Fields.OwnerPHID),
		Author:      s.name(raw.Fields.AuthorPHID),
		Projects:    projects,
		Points:      raw.Fields.Points.String(),
		CreatedAt:   epochTime(raw.Fields.DateCreated),
		ModifiedAt:  epochTime(raw.Fields.DateModified),
		ClosedAt:    epochTime(raw.Fields.DateClosed),
		URI:         fmt.Sprintf("%s/T%d", s.baseURL, raw.ID),
	}
}

// epochTime converts Conduit epoch seconds to time.Time, keeping the zero
// value for unset dates (e.g. dateClosed on open tasks).
func epochTime(epoch int64) time.Time {
	if epoch == 0 {
		return time.Time{}
	}
	return time.Unix(epoch, 0).UTC()
}

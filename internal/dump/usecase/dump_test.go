package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/em-/dumph/internal/dump"
	"github.com/em-/dumph/internal/dump/repository"
	"github.com/em-/dumph/internal/model"
	pkgLog "github.com/em-/dumph/pkg/log"
)

func timeUnix(s int64) time.Time {
	return time.Unix(s, 0).UTC()
}

func tasksNumbered(ids ...int) []model.Task {
	out := make([]model.Task, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Task{ID: id})
	}
	return out
}

func TestDumpFollowsCursor(t *testing.T) {
	source := &fakeSource{
		pages: []repository.TaskPage{
			{Tasks: tasksNumbered(1, 2), NextCursor: "2"},
			{Tasks: tasksNumbered(3, 4), NextCursor: "4"},
			{Tasks: tasksNumbered(5), NextCursor: ""},
		},
	}
	uc := New(pkgLog.NewNop(), source)

	out, err := uc.Dump(context.Background(), dump.Input{Order: "newest"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Tasks) != 5 {
		t.Fatalf("expected 5 tasks, got %d", len(out.Tasks))
	}
	for i, task := range out.Tasks {
		if task.ID != i+1 {
			t.Errorf("task %d out of order: got ID %d", i, task.ID)
		}
	}
	if out.Pages != 3 {
		t.Errorf("expected 3 pages, got %d", out.Pages)
	}
	if out.RunID == "" {
		t.Errorf("expected a run ID")
	}

	// Cursor must be threaded through subsequent calls.
	if len(source.calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", len(source.calls))
	}
	if source.calls[0].After != "" || source.calls[1].After != "2" || source.calls[2].After != "4" {
		t.Errorf("cursor not threaded: %+v", source.calls)
	}
}

func TestDumpHonorsLimit(t *testing.T) {
	source := &fakeSource{
		pages: []repository.TaskPage{
			{Tasks: tasksNumbered(1, 2), NextCursor: "2"},
			{Tasks: tasksNumbered(3, 4), NextCursor: "4"},
		},
	}
	uc := New(pkgLog.NewNop(), source)

	out, err := uc.Dump(context.Background(), dump.Input{Limit: 3, PageSize: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(out.Tasks))
	}
	// The final page request should only ask for the remaining task.
	if got := source.calls[len(source.calls)-1].Limit; got != 1 {
		t.Errorf("expected final page limit 1, got %d", got)
	}
}

func TestDumpPropagatesFetchError(t *testing.T) {
	wantErr := errors.New("conduit exploded")
	source := &fakeSource{err: wantErr}
	uc := New(pkgLog.NewNop(), source)

	_, err := uc.Dump(context.Background(), dump.Input{})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped fetch error, got %v", err)
	}
}

func TestDumpValidation(t *testing.T) {
	uc := New(pkgLog.NewNop(), &fakeSource{})

	_, err := uc.Dump(context.Background(), dump.Input{Order: "sideways"})
	if !errors.Is(err, dump.ErrInvalidOrder) {
		t.Errorf("expected ErrInvalidOrder, got %v", err)
	}

	_, err = uc.Dump(context.Background(), dump.Input{PageSize: 500})
	if !errors.Is(err, dump.ErrInvalidPageSize) {
		t.Errorf("expected ErrInvalidPageSize, got %v", err)
	}
}

func TestDumpDateBounds(t *testing.T) {
	source := &fakeSource{pages: []repository.TaskPage{{Tasks: tasksNumbered(1)}}}
	uc := New(pkgLog.NewNop(), source)

	input := dump.Input{}
	input.Since = timeUnix(1700000000)
	input.Until = timeUnix(1700086400)

	if _, err := uc.Dump(context.Background(), input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := source.calls[0]; got.CreatedAfter != 1700000000 || got.CreatedBefore != 1700086400 {
		t.Errorf("date bounds not forwarded: %+v", got)
	}
}

package model

import (
	"strconv"
	"time"
)

// Task is one Maniphest task, flattened and with PHIDs resolved to names.
// Records are transient: built from an API response, written to the
// spreadsheet, and discarded.
type Task struct {
	ID          int       // task number, rendered as "T123"
	Title       string    // task name
	Description string    // raw remarkup body
	Status      string    // human status name ("Open", "Resolved", ...)
	Priority    string    // human priority name ("High", "Normal", ...)
	Owner       string    // assignee username, empty if unassigned
	Author      string    // reporter username
	Projects    []string  // project names the task is tagged with
	Points      string    // story points, empty when unset
	CreatedAt   time.Time
	ModifiedAt  time.Time
	ClosedAt    time.Time // zero when the task is still open
	URI         string    // web URL of the task on the instance
}

// Monogram returns the task's "T123" style identifier.
func (t Task) Monogram() string {
	return "T" + strconv.Itoa(t.ID)
}

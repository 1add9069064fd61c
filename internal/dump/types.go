package dump

import (
	"time"

	"github.com/em-/dumph/internal/model"
)

// Input is the task query for one dump run.
type Input struct {
	Projects   []string  // project slugs or PHIDs
	Statuses   []string  // status values ("open", "resolved", ...)
	Priorities []int     // Conduit priority values
	Owners     []string  // owner usernames or PHIDs
	Since      time.Time // created-after bound, zero = unbounded
	Until      time.Time // created-before bound, zero = unbounded
	Query      string    // fulltext query
	Order      string    // builtin result order
	Limit      int       // max tasks overall, 0 = all
	PageSize   int       // tasks per Conduit page
}

// Output is the result of one dump run.
type Output struct {
	Tasks []model.Task
	RunID string
	Pages int // Conduit pages fetched
}

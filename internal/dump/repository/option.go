package repository

// SearchTasksOptions holds the parameters for fetching one page of tasks.
type SearchTasksOptions struct {
	Projects      []string // project slugs or PHIDs
	Statuses      []string // status values
	Priorities    []int    // Conduit priority values
	Owners        []string // owner usernames or PHIDs
	CreatedAfter  int64    // epoch seconds, 0 = unbounded
	CreatedBefore int64    // epoch seconds, 0 = unbounded
	Query         string   // fulltext query
	Order         string   // builtin result order
	Limit         int      // page size
	After         string   // cursor from the previous page
}

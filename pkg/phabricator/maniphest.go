package phabricator

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Priority values understood by the maniphest.search "priorities" constraint.
// Conduit wants the numeric values, users type the names.
var priorityValues = map[string]int{
	"unbreak":      100,
	"unbreak now!": 100,
	"triage":       90,
	"needs triage": 90,
	"high":         80,
	"normal":       50,
	"low":          25,
	"wish":         0,
	"wishlist":     0,
}

// PriorityValue maps a human priority name to its Conduit constraint value.
func PriorityValue(name string) (int, error) {
	v, ok := priorityValues[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown priority %q", name)
	}
	return v, nil
}

// Builtin result orders accepted by maniphest.search.
var builtinOrders = map[string]bool{
	"priority":  true,
	"updated":   true,
	"outdated":  true,
	"newest":    true,
	"oldest":    true,
	"closed":    true,
	"title":     true,
	"relevance": true,
}

// ValidOrder reports whether order is a builtin maniphest.search order.
func ValidOrder(order string) bool {
	return builtinOrders[order]
}

// ManiphestSearchOptions holds the query parameters for one
// maniphest.search page.
type ManiphestSearchOptions struct {
	Projects      []string // project slugs or PHIDs
	Statuses      []string // status values ("open", "resolved", ...)
	Priorities    []int    // Conduit priority values, see PriorityValue
	AssignedTo    []string // owner usernames or PHIDs
	CreatedAfter  int64    // epoch seconds, 0 = unbounded
	CreatedBefore int64    // epoch seconds, 0 = unbounded
	Query         string   // fulltext query
	Order         string   // builtin order, see ValidOrder
	Limit         int      // page size
	After         string   // cursor from the previous page
}

// ManiphestSearch fetches one page of tasks matching the given constraints,
// with the projects attachment populated.
func (c *Client) ManiphestSearch(ctx context.Context, opt ManiphestSearchOptions) (*TaskPage, error) {
	params := url.Values{}

	setConstraint(params, "projects", opt.Projects)
	setConstraint(params, "statuses", opt.Statuses)
	setConstraint(params, "priorities", opt.Priorities)
	setConstraint(params, "assigned", opt.AssignedTo)

	if opt.CreatedAfter > 0 {
		params.Set("constraints[createdStart]", strconv.FormatInt(opt.CreatedAfter, 10))
	}
	if opt.CreatedBefore > 0 {
		params.Set("constraints[createdEnd]", strconv.FormatInt(opt.CreatedBefore, 10))
	}
	if opt.Query != "" {
		params.Set("constraints[query]", opt.Query)
	}
	if opt.Order != "" {
		params.Set("order", opt.Order)
	}
	if opt.Limit > 0 {
		params.Set("limit", strconv.Itoa(opt.Limit))
	}
	if opt.After != "" {
		params.Set("after", opt.After)
	}
	params.Set("attachments[projects]", "1")

	var page TaskPage
	if err := c.call(ctx, "maniphest.search", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

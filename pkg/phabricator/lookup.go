package phabricator

import (
	"context"
	"net/url"
)

// ProjectSearch fetches project records for the given PHIDs.
func (c *Client) ProjectSearch(ctx context.Context, phids []string) ([]Project, error) {
	if len(phids) == 0 {
		return nil, nil
	}

	params := url.Values{}
	setConstraint(params, "phids", phids)

	var page projectPage
	if err := c.call(ctx, "project.search", params, &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

// UserSearch fetches user records for the given PHIDs.
func (c *Client) UserSearch(ctx context.Context, phids []string) ([]User, error) {
	if len(phids) == 0 {
		return nil, nil
	}

	params := url.Values{}
	setConstraint(params, "phids", phids)

	var page userPage
	if err := c.call(ctx, "user.search", params, &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

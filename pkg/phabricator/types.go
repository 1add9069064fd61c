package phabricator

import (
	"encoding/json"
	"fmt"
)

// conduitEnvelope is the wrapper every Conduit method response comes in.
type conduitEnvelope struct {
	Result    json.RawMessage `json:"result"`
	ErrorCode string          `json:"error_code"`
	ErrorInfo string          `json:"error_info"`
}

// ConduitError is an application-level error reported by the Conduit API
// (as opposed to a transport failure).
type ConduitError struct {
	Code string
	Info string
}

func (e *ConduitError) Error() string {
	return fmt.Sprintf("conduit error %s: %s", e.Code, e.Info)
}

// AuthFailed reports whether the error is an authentication problem, so the
// caller can tell the user to check their token instead of their query.
func (e *ConduitError) AuthFailed() bool {
	return e.Code == "ERR-INVALID-AUTH" || e.Code == "ERR-INVALID-SESSION" || e.Code == "ERR-INVALID-TOKEN"
}

// Cursor is the pagination cursor returned by *.search methods. An empty
// After means the result set is exhausted.
type Cursor struct {
	Limit  int    `json:"limit"`
	After  string `json:"after"`
	Before string `json:"before"`
}

// Task is a Maniphest task record as returned by maniphest.search.
type Task struct {
	ID     int    `json:"id"`
	Type   string `json:"type"`
	PHID   string `json:"phid"`
	Fields struct {
		Name        string `json:"name"`
		Description struct {
			Raw string `json:"raw"`
		} `json:"description"`
		AuthorPHID string `json:"authorPHID"`
		OwnerPHID  string `json:"ownerPHID"`
		Status     struct {
			Value string `json:"value"`
			Name  string `json:"name"`
			Color string `json:"color.ansi"`
		} `json:"status"`
		Priority struct {
			Value int    `json:"value"`
			Name  string `json:"name"`
		} `json:"priority"`
		Points       json.Number `json:"points"`
		Subtype      string      `json:"subtype"`
		CloserPHID   string      `json:"closerPHID"`
		DateCreated  int64       `json:"dateCreated"`
		DateModified int64       `json:"dateModified"`
		DateClosed   int64       `json:"dateClosed"`
	} `json:"fields"`
	Attachments struct {
		Projects struct {
			ProjectPHIDs []string `json:"projectPHIDs"`
		} `json:"projects"`
	} `json:"attachments"`
}

// TaskPage is one page of maniphest.search results.
type TaskPage struct {
	Data   []Task `json:"data"`
	Cursor Cursor `json:"cursor"`
}

// Project is a project record as returned by project.search.
type Project struct {
	ID     int    `json:"id"`
	Type   string `json:"type"`
	PHID   string `json:"phid"`
	Fields struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	} `json:"fields"`
}

// User is a user record as returned by user.search.
type User struct {
	ID     int    `json:"id"`
	Type   string `json:"type"`
	PHID   string `json:"phid"`
	Fields struct {
		Username string `json:"username"`
		RealName string `json:"realName"`
	} `json:"fields"`
}

type projectPage struct {
	Data   []Project `json:"data"`
	Cursor Cursor    `json:"cursor"`
}

type userPage struct {
	Data   []User `json:"data"`
	Cursor Cursor `json:"cursor"`
}

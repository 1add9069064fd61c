package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/em-/dumph/internal/model"
)

// Header is the fixed column order of the output spreadsheet. Keep it
// stable: downstream consumers reference columns by position.
var Header = []string{
	"ID",
	"Title",
	"Status",
	"Priority",
	"Owner",
	"Author",
	"Projects",
	"Points",
	"Created",
	"Modified",
	"Closed",
	"URI",
}

// cellValues maps a task to typed cell values in Header order. Timestamps
// stay time.Time so the xlsx writer can emit native datetime cells; zero
// times become nil (blank cell).
func cellValues(t model.Task) []any {
	return []any{
		t.Monogram(),
		t.Title,
		t.Status,
		t.Priority,
		t.Owner,
		t.Author,
		strings.Join(t.Projects, ", "),
		t.Points,
		cellTime(t.CreatedAt),
		cellTime(t.ModifiedAt),
		cellTime(t.ClosedAt),
		t.URI,
	}
}

// rowStrings maps a task to string cells in Header order, with RFC3339
// timestamps. Used by the CSV writer.
func rowStrings(t model.Task) []string {
	row := make([]string, 0, len(Header))
	for _, v := range cellValues(t) {
		switch val := v.(type) {
		case nil:
			row = append(row, "")
		case time.Time:
			row = append(row, val.Format(time.RFC3339))
		default:
			row = append(row, fmt.Sprint(val))
		}
	}
	return row
}

func cellTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

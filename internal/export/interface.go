package export

import (
	"errors"

	"github.com/em-/dumph/internal/model"
)

// Supported output formats.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// ErrUnknownFormat is returned by New for formats other than xlsx/csv.
var ErrUnknownFormat = errors.New("unknown output format")

// Writer serializes a full task list to a spreadsheet file. Write is called
// once per run, after the fetch has succeeded, so a fetch failure never
// touches the output path.
type Writer interface {
	Write(path string, tasks []model.Task) error
}

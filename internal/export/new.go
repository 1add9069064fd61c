package export

import (
	"fmt"
	"path/filepath"
	"strings"
)

// New returns the writer for the given format.
func New(format string) (Writer, error) {
	switch format {
	case FormatXLSX:
		return xlsxWriter{}, nil
	case FormatCSV:
		return csvWriter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// InferFormat guesses the output format from the file extension, defaulting
// to xlsx.
func InferFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	default:
		return FormatXLSX
	}
}

package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/em-/dumph/internal/model"
)

type csvWriter struct{}

func (csvWriter) Write(path string, tasks []model.Task) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, t := range tasks {
		if err := w.Write(rowStrings(t)); err != nil {
			return fmt.Errorf("failed to write task %s: %w", t.Monogram(), err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return f.Close()
}

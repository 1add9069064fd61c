package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/em-/dumph/internal/model"
)

const sheetName = "Tasks"

// Column widths tuned for the fixed Header layout.
var colWidths = map[string]float64{
	"A": 8,  // ID
	"B": 60, // Title
	"C": 12, // Status
	"D": 12, // Priority
	"E": 16, // Owner
	"F": 16, // Author
	"G": 30, // Projects
	"H": 8,  // Points
	"I": 18, // Created
	"J": 18, // Modified
	"K": 18, // Closed
	"L": 40, // URI
}

type xlsxWriter struct{}

func (xlsxWriter) Write(path string, tasks []model.Task) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &Header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, t := range tasks {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell for row %d: %w", i+2, err)
		}
		row := cellValues(t)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write task %s: %w", t.Monogram(), err)
		}
	}

	if err := styleSheet(f, len(tasks)); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// styleSheet applies the bold frozen header, column widths and datetime
// number format for the Created/Modified/Closed columns.
func styleSheet(f *excelize.File, rows int) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "L1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	if rows > 0 {
		// NumFmt 22: "m/d/yy h:mm", the builtin datetime format.
		datetime, err := f.NewStyle(&excelize.Style{NumFmt: 22})
		if err != nil {
			return fmt.Errorf("failed to create datetime style: %w", err)
		}
		if err := f.SetCellStyle(sheetName, "I2", fmt.Sprintf("K%d", rows+1), datetime); err != nil {
			return fmt.Errorf("failed to style date columns: %w", err)
		}
	}

	for col, width := range colWidths {
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("failed to set width of column %s: %w", col, err)
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header row: %w", err)
	}
	return nil
}

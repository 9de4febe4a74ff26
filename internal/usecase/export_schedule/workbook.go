package export_schedule

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Листы книги
const (
	sheetSummary = "Summary"
	sheetSlots   = "Slots"
	sheetVisits  = "Visits"
)

// workbook последовательно пишет строки в листы excelize
type workbook struct {
	file         *excelize.File
	currentSheet string
	currentRow   int
	headerStyle  int
}

func newWorkbook() (*workbook, error) {
	f := excelize.NewFile()

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	return &workbook{file: f, headerStyle: style}, nil
}

// addSheet создает лист и делает его текущим. Первый лист переименовывает Sheet1.
func (w *workbook) addSheet(name string, columns []string) error {
	if w.currentSheet == "" {
		if err := w.file.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("rename sheet %s: %w", name, err)
		}
	} else if _, err := w.file.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}

	w.currentSheet = name
	w.currentRow = 1

	if err := w.writeRow(toValues(columns)); err != nil {
		return err
	}

	startCell, _ := excelize.CoordinatesToCellName(1, 1)
	endCell, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := w.file.SetCellStyle(name, startCell, endCell, w.headerStyle); err != nil {
		return fmt.Errorf("style header %s: %w", name, err)
	}

	return w.file.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func (w *workbook) writeRow(values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, w.currentRow)
	if err != nil {
		return err
	}
	if err := w.file.SetSheetRow(w.currentSheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d of %s: %w", w.currentRow, w.currentSheet, err)
	}
	w.currentRow++
	return nil
}

func (w *workbook) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := w.file.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *workbook) close() {
	_ = w.file.Close()
}

func toValues(columns []string) []interface{} {
	values := make([]interface{}, len(columns))
	for i, c := range columns {
		values[i] = c
	}
	return values
}

// Package export renders entry lists as xlsx workbooks.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"fintrack/internal/core"
)

const dateLayout = "2006-01-02"

// Workbook builds an xlsx workbook for one kind of entries. Every call
// allocates its own workbook and buffer so concurrent exports never share
// state.
func Workbook(kind core.Kind, entries []core.Entry) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(kind)
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	header := []any{labelHeader(kind), "Amount", "Date"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		row := []any{e.Label, e.Amount.Euros(), e.Date.Format(dateLayout)}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf, nil
}

// Filename returns the download name clients expect for a kind.
func Filename(kind core.Kind) string {
	return string(kind) + "_details.xlsx"
}

func sheetName(kind core.Kind) string {
	if kind == core.KindIncome {
		return "Income"
	}
	return "Expense"
}

func labelHeader(kind core.Kind) string {
	if kind == core.KindIncome {
		return "Source"
	}
	return "Category"
}

package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tally-dev/tally/internal/model"
)

// WorkbookFile is the workbook name inside the destination directory.
const WorkbookFile = "summary.xlsx"

// Sheet names used by the summary workbook.
const (
	CreditCardSheet  = "Credit Card"
	BankAccountSheet = "Bank Account"
)

// Sheet is one worksheet of a summary workbook.
type Sheet struct {
	Name string
	Rows []model.Transaction
}

// WriteWorkbook saves sheets to an XLSX file at path, one summary per sheet.
// Amounts are stored as numbers so spreadsheet formulas work on them.
func WriteWorkbook(path string, sheets []Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.Name); err != nil {
				return fmt.Errorf("naming sheet %s: %w", s.Name, err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return fmt.Errorf("adding sheet %s: %w", s.Name, err)
		}
		if err := writeSheet(f, s, bold); err != nil {
			return fmt.Errorf("sheet %s: %w", s.Name, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, s Sheet, headerStyle int) error {
	header := strings.Split(Header, ",")
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := f.SetSheetRow(s.Name, "A1", &cells); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(s.Name, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, t := range s.Rows {
		row := MarshalTransaction(t)
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cells[colAmount] = t.Amount.Round(2).InexactFloat64()

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.Name, cell, &cells); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	return f.SetColWidth(s.Name, "B", "B", 40)
}

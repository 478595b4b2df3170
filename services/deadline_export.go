package services

import (
	"bytes"
	"fmt"

	"minerva_app_go/services/i18n"

	"github.com/xuri/excelize/v2"
)

// DeadlinesSpreadsheetContentType is the MIME type of the deadlines export
const DeadlinesSpreadsheetContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var deadlineExportColumns = []string{
	"title", "case_type", "case_number", "start_date", "due_date", "days_left", "priority", "description",
}

// ExportDeadlinesXLSX writes the deadlines to a single-sheet workbook with a
// bold header row and one row per deadline
func ExportDeadlinesXLSX(deadlines []DeadlineView, lang string) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := i18n.Translate(lang, "deadlines.export.sheet")
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, column := range deadlineExportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, i18n.Translate(lang, "deadlines.export.headers."+column))
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(deadlineExportColumns), 1)
	f.SetCellStyle(sheet, "A1", lastHeader, headerStyle)

	for i, d := range deadlines {
		row := i + 2
		caseNumber := ""
		if d.CaseNumber != nil {
			caseNumber = *d.CaseNumber
		}
		values := []interface{}{
			d.Title,
			d.CaseType,
			caseNumber,
			FormatDateES(d.StartDate),
			FormatDateES(d.DueDate),
			d.DaysLeft,
			i18n.Translate(lang, "deadlines.priority."+d.Priority),
			d.Description,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	f.SetColWidth(sheet, "A", "A", 30)
	f.SetColWidth(sheet, "B", "G", 16)
	f.SetColWidth(sheet, "H", "H", 50)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return buf, nil
}

package services

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/campus-portal/portal-service/internal/analytics"
	"github.com/campus-portal/portal-service/internal/models"
)

const (
	recordsSheet = "Attendance"
	summarySheet = "Summary"
)

// writeAttendanceWorkbook renders day groups as two sheets: one row per mark,
// and one row per day with the present ratio.
func writeAttendanceWorkbook(groups []models.DayAttendance, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", recordsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	rows := [][]interface{}{{"Course", "Date", "Student ID", "Name", "Status"}}
	summary := [][]interface{}{{"Course", "Date", "Present", "Total", "Percentage"}}
	for _, g := range groups {
		for _, st := range g.Students {
			rows = append(rows, []interface{}{g.CourseID, g.Date, st.StudentID, st.Name, st.Status})
		}
		summary = append(summary, []interface{}{g.CourseID, g.Date, g.Present, g.Total, analytics.Percentage(g.Present, g.Total)})
	}

	if err := writeRows(f, recordsSheet, rows); err != nil {
		return err
	}
	if err := writeRows(f, summarySheet, summary); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

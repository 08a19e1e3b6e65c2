package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/projecthub/project-hub-backend/internal/estimation"
	"github.com/projecthub/project-hub-backend/internal/repository"
)

// ============================================
// Export Service
// ============================================

const (
	estimationsSheet = "Estimations"
	summarySheet     = "Summary"
)

var estimationHeaders = []string{
	"ID", "Name", "Created At", "Project Type", "Technology", "Complexity",
	"Pages", "Forms", "APIs",
	"Estimated Hours", "Frontend Hours", "Backend Hours", "Testing Hours", "Design Hours",
	"Developers", "Min Weeks", "Estimated Weeks", "Max Weeks",
	"Min Cost", "Estimated Cost", "Max Cost",
	"Risk Multiplier", "Buffer %", "Confidence",
}

type ExportService interface {
	// ExportEstimations renders the tenant's estimates, newest first, as an
	// XLSX workbook.
	ExportEstimations(ctx context.Context, filter repository.EstimationFilter) (*bytes.Buffer, error)
}

type exportService struct {
	repo repository.EstimationRepository
}

func NewExportService(repo repository.EstimationRepository) ExportService {
	return &exportService{repo: repo}
}

func (s *exportService) ExportEstimations(ctx context.Context, filter repository.EstimationFilter) (*bytes.Buffer, error) {
	items, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	// The summary describes exactly the exported rows.
	records := make([]estimation.Record, len(items))
	for i, e := range items {
		records[i] = e.Record()
	}
	stats := estimation.Aggregate(records)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), estimationsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}

	header, err := headerStyle(f)
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	if err := writeRow(f, estimationsSheet, 1, toCells(estimationHeaders)); err != nil {
		return nil, err
	}
	if err := styleRow(f, estimationsSheet, 1, len(estimationHeaders), header); err != nil {
		return nil, err
	}
	for i, e := range items {
		if err := writeRow(f, estimationsSheet, i+2, estimationRow(e)); err != nil {
			return nil, err
		}
	}
	if err := f.SetPanes(estimationsSheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}
	if err := autoWidth(f, estimationsSheet, len(estimationHeaders)); err != nil {
		return nil, err
	}

	summary := [][]interface{}{
		{"Metric", "Value"},
		{"Total Estimations", stats.TotalProjects},
		{"Average Hours", stats.AverageHours},
		{"Average Cost", stats.AverageCost.String()},
		{"Average Weeks", stats.AverageWeeks},
		{"Most Common Technology", optionalString(stats.MostCommonTechnology)},
		{"Most Common Project Type", optionalString(stats.MostCommonProjectType)},
		{},
		{"Month", "Count", "Total Hours", "Total Cost"},
	}
	months := make([]string, 0, len(stats.EstimationsByMonth))
	for m := range stats.EstimationsByMonth {
		months = append(months, m)
	}
	sort.Strings(months)
	for _, m := range months {
		b := stats.EstimationsByMonth[m]
		summary = append(summary, []interface{}{m, b.Count, b.TotalHours, b.TotalCost.String()})
	}

	for i, row := range summary {
		if err := writeRow(f, summarySheet, i+1, row); err != nil {
			return nil, err
		}
	}
	if err := styleRow(f, summarySheet, 1, 2, header); err != nil {
		return nil, err
	}
	if err := styleRow(f, summarySheet, 9, 4, header); err != nil {
		return nil, err
	}
	if err := autoWidth(f, summarySheet, 4); err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

func estimationRow(e *repository.Estimation) []interface{} {
	r := e.Result
	return []interface{}{
		e.ID,
		e.Name,
		e.CreatedAt.UTC().Format("2006-01-02 15:04"),
		string(e.ProjectType),
		string(e.TechnologyStack),
		string(e.ComplexityLevel),
		r.Pages, r.Forms, r.APIs,
		r.EstimatedHours,
		r.Distribution.Frontend, r.Distribution.Backend, r.Distribution.Testing, r.Distribution.Design,
		r.EstimatedDevelopers,
		r.Schedule.MinimumWeeks, r.Schedule.EstimatedWeeks, r.Schedule.MaximumWeeks,
		r.Cost.Minimum.InexactFloat64(), r.Cost.Estimated.InexactFloat64(), r.Cost.Maximum.InexactFloat64(),
		r.RiskMultiplier,
		r.BufferPercentage,
		r.Metadata.Confidence,
	}
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	if len(values) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func styleRow(f *excelize.File, sheet string, row, cols, style int) error {
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(cols, row)
	return f.SetCellStyle(sheet, first, last, style)
}

func autoWidth(f *excelize.File, sheet string, cols int) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	for col := 1; col <= cols; col++ {
		width := 10
		for _, row := range rows {
			if col-1 < len(row) && len(row[col-1])+2 > width {
				width = len(row[col-1]) + 2
			}
		}
		width = min(width, 50)
		name, _ := excelize.ColumnNumberToName(col)
		if err := f.SetColWidth(sheet, name, name, float64(width)); err != nil {
			return err
		}
	}
	return nil
}

func toCells(s []string) []interface{} {
	out := make([]interface{}, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

func optionalString[T ~string](v *T) string {
	if v == nil {
		return "-"
	}
	return string(*v)
}

package export

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/minionslab/minions-finance/internal/entity"
	"github.com/minionslab/minions-finance/internal/eval"
)

// Service produces XLSX bytes summarizing an evaluation run: one Summary
// sheet with per-condition accuracy, one Scores sheet with every record.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportScoresXLSX returns an XLSX workbook (as bytes) for the given
// per-condition summaries.
func (s *Service) ExportScoresXLSX(summaries map[entity.Condition]*eval.Summary) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()

	conditions := make([]entity.Condition, 0, len(summaries))
	for cond := range summaries {
		conditions = append(conditions, cond)
	}
	sort.Slice(conditions, func(i, j int) bool { return conditions[i] < conditions[j] })

	if err := s.writeSummarySheet(f, conditions, summaries); err != nil {
		return nil, err
	}
	if err := s.writeScoresSheet(f, conditions, summaries); err != nil {
		return nil, err
	}

	// excelize starts every workbook with a default "Sheet1"
	_ = f.DeleteSheet("Sheet1")
	if index, err := f.GetSheetIndex("Summary"); err == nil {
		f.SetActiveSheet(index)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	total := 0
	for _, sum := range summaries {
		total += len(sum.Records)
	}
	s.logger.Info("export.xlsx.ok",
		"conditions", len(conditions),
		"rows", total,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func (s *Service) writeSummarySheet(f *excelize.File, conditions []entity.Condition, summaries map[entity.Condition]*eval.Summary) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Condition", "Correct", "Judged", "Skipped", "Accuracy"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, cond := range conditions {
		sum := summaries[cond]
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, string(cond))
		write(2, sum.Correct)
		write(3, sum.Total)
		write(4, sum.Skipped)
		write(5, fmt.Sprintf("%.1f%%", sum.Accuracy*100))
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 14)
	_ = f.SetColWidth(sheet, "B", "D", 10)
	_ = f.SetColWidth(sheet, "E", "E", 12)
	return nil
}

func (s *Service) writeScoresSheet(f *excelize.File, conditions []entity.Condition, summaries map[entity.Condition]*eval.Summary) error {
	const sheet = "Scores"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{
		"Question ID",
		"Condition",
		"Semantic",
		"Numeric",
		"Format",
		"Reasoning",
		"Correct",
		"Skipped",
		"Skip Reason",
		"Explanation",
		"Judged At",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, cond := range conditions {
		for _, rec := range summaries[cond].Records {
			write := func(col int, v any) {
				cell, _ := excelize.CoordinatesToCellName(col, row)
				_ = f.SetCellValue(sheet, cell, v)
			}
			write(1, rec.QuestionID)
			write(2, string(rec.Condition))
			write(3, rec.SemanticEquivalence)
			write(4, rec.NumericalAccuracy)
			write(5, rec.FormatConsistency)
			write(6, rec.ReasoningQuality)
			write(7, rec.Correct())
			write(8, rec.Skipped)
			write(9, rec.SkipReason)
			write(10, truncate(rec.Explanation, 200))
			if !rec.JudgedAt.IsZero() {
				write(11, rec.JudgedAt.Format("2006-01-02 15:04:05"))
			}
			row++
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 24)
	_ = f.SetColWidth(sheet, "B", "B", 12)
	_ = f.SetColWidth(sheet, "C", "H", 10)
	_ = f.SetColWidth(sheet, "I", "I", 28)
	_ = f.SetColWidth(sheet, "J", "J", 60)
	_ = f.SetColWidth(sheet, "K", "K", 20)
	return nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}

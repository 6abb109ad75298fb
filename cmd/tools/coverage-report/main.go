// cmd/tools/coverage-report/main.go
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"certscope-workers/internal/engine"
	"certscope-workers/internal/models"
	"certscope-workers/pkg/bank"
)

func main() {
	bankPath := flag.String("bank", "configs/reference-bank.json", "Path to the reference bank JSON file")
	outDir := flag.String("out", ".", "Directory to write the report files into")
	flag.Parse()

	b, err := bank.Load(*bankPath)
	if err != nil {
		fmt.Printf("Error loading bank file: %v\n", err)
		os.Exit(1)
	}

	codes := make([]string, 0, len(b.Catalog))
	for _, entry := range b.Catalog {
		codes = append(codes, entry.Code)
	}

	report := engine.BuildCoverageReport(b.Questions, codes)
	runID := uuid.NewString()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Printf("Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	coveragePath := filepath.Join(*outDir, "coverage_report.csv")
	if err := writeCoverageCSV(coveragePath, report); err != nil {
		fmt.Printf("Error writing coverage report: %v\n", err)
		os.Exit(1)
	}

	evidencePath := filepath.Join(*outDir, "missing_evidence.csv")
	if err := writeEvidenceCSV(evidencePath, report); err != nil {
		fmt.Printf("Error writing missing evidence report: %v\n", err)
		os.Exit(1)
	}

	summaryPath := filepath.Join(*outDir, "coverage_summary.json")
	if err := writeSummary(summaryPath, runID, *bankPath, report); err != nil {
		fmt.Printf("Error writing summary: %v\n", err)
		os.Exit(1)
	}

	covered := 0
	for _, row := range report.Rows {
		if row.Covered {
			covered++
		}
	}
	fmt.Printf("Coverage run %s: %d/%d requirements covered, %d questions missing evidence\n",
		runID, covered, len(report.Rows), len(report.MissingEvidence))
	fmt.Printf("Wrote %s, %s, %s\n", coveragePath, evidencePath, summaryPath)
}

func writeCoverageCSV(path string, report models.CoverageReport) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"requirement", "covered", "question_count", "question_ids", "proposed_add"}); err != nil {
		return err
	}
	for _, row := range report.Rows {
		record := []string{
			row.Requirement,
			strconv.FormatBool(row.Covered),
			strconv.Itoa(row.Count),
			strings.Join(row.QuestionIDs, ";"),
			row.ProposedAdd,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return w.Error()
}

func writeEvidenceCSV(path string, report models.CoverageReport) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"question_id", "tags"}); err != nil {
		return err
	}
	for _, gap := range report.MissingEvidence {
		if err := w.Write([]string{gap.QuestionID, strings.Join(gap.Tags, ";")}); err != nil {
			return err
		}
	}
	return w.Error()
}

func writeSummary(path, runID, bankPath string, report models.CoverageReport) error {
	covered := 0
	gaps := make([]string, 0)
	for _, row := range report.Rows {
		if row.Covered {
			covered++
		} else {
			gaps = append(gaps, row.Requirement)
		}
	}

	summary := map[string]interface{}{
		"runId":           runID,
		"bankFile":        bankPath,
		"generatedAt":     report.GeneratedAt,
		"totalQuestions":  report.TotalQuestions,
		"requirements":    len(report.Rows),
		"covered":         covered,
		"gaps":            gaps,
		"missingEvidence": len(report.MissingEvidence),
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

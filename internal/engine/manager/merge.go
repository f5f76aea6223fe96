package manager

import (
	"WSNSpectra/internal/model"
	"WSNSpectra/internal/table"
	"WSNSpectra/internal/tabular"
	"fmt"
	"log"
	"path/filepath"
)

// MergeResult holds the merged and normalized tables of a batch.
type MergeResult struct {
	Merged     *model.MergedTable
	Normalized *model.MergedTable
	Runs       int
}

// MergeRuns reads the counts file of every run, merges them in run order and normalizes
// the result. Runs without a readable counts file are skipped with a warning.
func (m *Manager) MergeRuns(runs []model.RunInfo) (*MergeResult, error) {
	var labeled []table.Labeled
	for _, run := range runs {
		path := filepath.Join(run.Dir, m.cfg.Scenarios.CountsFile)
		sheet, err := tabular.Read(path)
		if err != nil {
			log.Printf("Warning: counts file %s not readable, skipping: %v", path, err)
			continue
		}
		l, err := table.ParseRows(run.Label(), sheet)
		if err != nil {
			log.Printf("Warning: counts file %s skipped: %v", path, err)
			continue
		}
		labeled = append(labeled, l)
	}
	if len(labeled) == 0 {
		return nil, fmt.Errorf("no counts files found for %d runs", len(runs))
	}

	merged := table.Merge(labeled)
	if m.cfg.Merge.LabelColumn != "" {
		merged.LabelColumn = m.cfg.Merge.LabelColumn
	}
	return &MergeResult{Merged: merged, Normalized: table.Normalize(merged), Runs: len(labeled)}, nil
}

// WriteMerge saves both tables under dir using the configured file names.
func (m *Manager) WriteMerge(res *MergeResult, dir string) ([]string, error) {
	mergedPath := filepath.Join(dir, m.cfg.Merge.MergedFile)
	header, rows := table.Records(res.Merged)
	if err := tabular.Write(mergedPath, "All_Data", header, rows); err != nil {
		return nil, fmt.Errorf("failed to write merged table: %w", err)
	}

	normalizedPath := filepath.Join(dir, m.cfg.Merge.NormalizedFile)
	header, rows = table.Records(res.Normalized)
	if err := tabular.Write(normalizedPath, "Normalized_Data", header, rows); err != nil {
		return nil, fmt.Errorf("failed to write normalized table: %w", err)
	}

	log.Printf("Successfully merged %d runs into %s and %s", res.Runs, mergedPath, normalizedPath)
	return []string{mergedPath, normalizedPath}, nil
}

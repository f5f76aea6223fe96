package model

import (
	"context"
)

// Analyzer defines the standard interface for an AI analyzer.
type Analyzer interface {
	// AnalyzeReport receives a markdown report and returns commentary from the AI model.
	AnalyzeReport(ctx context.Context, report string) (string, error)
}

package batch

import (
	"WSNSpectra/internal/model"
	"WSNSpectra/internal/trace"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
)

var (
	// ErrTraceNotFound is returned for a run directory without a trace file.
	ErrTraceNotFound = errors.New("trace file not found")
	// ErrCountsNotFound is returned for a run directory without a saved counts file.
	ErrCountsNotFound = errors.New("counts file not found")
)

// Status is the outcome of one run.
type Status string

const (
	StatusOK      Status = "ok"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Outcome records what happened to one run.
type Outcome struct {
	Run    model.RunInfo
	Status Status
	Err    error
}

// Summary collects the outcomes of a batch in run order.
type Summary struct {
	Outcomes []Outcome
}

// Count returns the number of runs with the given status.
func (s *Summary) Count(status Status) int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// RunFunc processes a single run.
type RunFunc func(ctx context.Context, run model.RunInfo) error

// Runner processes runs sequentially. A run's error never stops the batch.
type Runner struct {
	// OnOutcome, when set, is called after every run.
	OnOutcome func(Outcome)
}

// Run calls fn for each run in order. Missing traces and traces without the required
// columns are skipped; any other error marks the run failed. Runs are not retried.
// Cancelling ctx stops the batch before the next run.
func (r *Runner) Run(ctx context.Context, runs []model.RunInfo, fn RunFunc) (*Summary, error) {
	summary := &Summary{}
	for _, run := range runs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		o := Outcome{Run: run, Status: StatusOK}
		if err := fn(ctx, run); err != nil {
			o.Err = err
			if IsSkippable(err) {
				o.Status = StatusSkipped
				log.Printf("Warning: skipping run '%s': %v", run.Label(), err)
			} else {
				o.Status = StatusFailed
				log.Printf("Error processing run '%s': %v", run.Label(), err)
			}
		}
		summary.Outcomes = append(summary.Outcomes, o)
		if r.OnOutcome != nil {
			r.OnOutcome(o)
		}
	}
	log.Printf("Batch finished: %d ok, %d skipped, %d failed.",
		summary.Count(StatusOK), summary.Count(StatusSkipped), summary.Count(StatusFailed))
	return summary, nil
}

// IsSkippable reports whether err means the run has no usable input.
func IsSkippable(err error) bool {
	return errors.Is(err, ErrTraceNotFound) || errors.Is(err, ErrCountsNotFound) ||
		errors.Is(err, trace.ErrMissingColumns)
}

// CheckTrace returns ErrTraceNotFound when the run has no trace file.
func CheckTrace(run model.RunInfo) error {
	if _, err := os.Stat(run.TracePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrTraceNotFound, run.TracePath)
		}
		return err
	}
	return nil
}

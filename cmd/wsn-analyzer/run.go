package main

import (
	"WSNSpectra/internal/ai"
	"WSNSpectra/internal/batch"
	"WSNSpectra/internal/chart"
	"WSNSpectra/internal/classify"
	"WSNSpectra/internal/config"
	"WSNSpectra/internal/engine/manager"
	"WSNSpectra/internal/metrics"
	"WSNSpectra/internal/model"
	"WSNSpectra/internal/notification"
	"WSNSpectra/internal/publish"
	"WSNSpectra/internal/report"
	"WSNSpectra/internal/tabular"
	"WSNSpectra/internal/telemetry"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

func discover(cfg *config.Config) ([]model.RunInfo, error) {
	runs, err := batch.Discover(cfg.Scenarios.RootPath, cfg.Scenarios.Folders, cfg.Scenarios.TraceFile)
	if err != nil {
		return nil, err
	}
	log.Printf("Discovered %d runs under %s", len(runs), cfg.Scenarios.RootPath)
	return runs, nil
}

func runCount(ctx context.Context, cfg *config.Config) (*batch.Summary, error) {
	runs, err := discover(cfg)
	if err != nil {
		return nil, err
	}

	mgr, err := manager.NewManager(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create manager: %w", err)
	}
	stats := telemetry.New()
	mgr.SetTelemetry(stats)

	if cfg.Publisher.Enabled {
		pub, err := publish.NewPublisher(cfg.Publisher)
		if err != nil {
			log.Printf("Warning: run summaries disabled, NATS unavailable: %v", err)
		} else {
			defer pub.Close()
			mgr.SetPublisher(pub)
		}
	}

	runner := &batch.Runner{OnOutcome: func(o batch.Outcome) { stats.ObserveOutcome(string(o.Status)) }}
	summary, err := runner.Run(ctx, runs, func(ctx context.Context, run model.RunInfo) error {
		_, err := mgr.ProcessRun(ctx, run)
		return err
	})
	if err != nil {
		return summary, err
	}

	if cfg.Metrics.TextfilePath != "" {
		if err := stats.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
			log.Printf("Warning: %v", err)
		}
	}
	notify(ctx, cfg, fmt.Sprintf("WSNSpectra batch: %d ok, %d skipped, %d failed",
		summary.Count(batch.StatusOK), summary.Count(batch.StatusSkipped), summary.Count(batch.StatusFailed)),
		report.BatchMarkdown(summary))
	return summary, nil
}

func runPlot(ctx context.Context, cfg *config.Config) error {
	runs, err := discover(cfg)
	if err != nil {
		return err
	}
	mgr, err := manager.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create manager: %w", err)
	}
	runner := &batch.Runner{}
	_, err = runner.Run(ctx, runs, func(ctx context.Context, run model.RunInfo) error {
		_, err := mgr.PlotRun(ctx, run)
		return err
	})
	return err
}

func runMerge(cfg *config.Config) error {
	folders := cfg.Merge.Folders
	if len(folders) == 0 {
		folders = cfg.Scenarios.Folders
	}
	runs, err := batch.Discover(cfg.Scenarios.RootPath, folders, cfg.Scenarios.TraceFile)
	if err != nil {
		return err
	}
	mgr, err := manager.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create manager: %w", err)
	}
	res, err := mgr.MergeRuns(runs)
	if err != nil {
		return err
	}
	_, err = mgr.WriteMerge(res, cfg.Scenarios.RootPath)
	return err
}

func runClassify(cfg *config.Config) error {
	_, err := classify.Predict(cfg.Classifier)
	return err
}

func runConfusion(ctx context.Context, cfg *config.Config) error {
	c := cfg.Confusion
	actual, err := readLabels(c.ActualPath, c.LabelColumn)
	if err != nil {
		return err
	}
	predicted, err := readLabels(c.PredictedPath, c.LabelColumn)
	if err != nil {
		return err
	}

	cm, err := metrics.NewConfusion(actual, predicted, nil)
	if err != nil {
		return err
	}
	m, err := cm.Binary(c.PositiveLabel)
	if err != nil {
		return err
	}
	for _, line := range m.Lines() {
		if line != "" {
			log.Println(line)
		}
	}

	if err := chart.ConfusionMatrix(cm, m.Lines(), c.Title, c.OutputPath); err != nil {
		return err
	}
	log.Printf("Confusion matrix plot saved as %s", c.OutputPath)

	md := report.EvaluationMarkdown(c.Title, cm, m)
	if c.ReportPath != "" {
		if err := os.MkdirAll(filepath.Dir(c.ReportPath), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(c.ReportPath, []byte(report.HTML(md)), 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		log.Printf("Successfully saved evaluation report to %s", c.ReportPath)
	}
	notify(ctx, cfg, "WSNSpectra evaluation: "+c.Title, md)
	return nil
}

func readLabels(path, column string) ([]string, error) {
	sheet, err := tabular.Read(path)
	if err != nil {
		return nil, err
	}
	idx := sheet.Column(column)
	if idx < 0 {
		return nil, fmt.Errorf("label column '%s' not found in %s", column, path)
	}
	labels := make([]string, len(sheet.Rows))
	for i := range sheet.Rows {
		labels[i] = sheet.Cell(i, idx)
	}
	return labels, nil
}

// notify emails a report when notifications are enabled. Failures are only logged.
func notify(ctx context.Context, cfg *config.Config, subject, md string) {
	if !cfg.Notify.Enabled {
		return
	}
	notifier, err := notification.NewEmailNotifier(cfg.SMTP)
	if err != nil {
		log.Printf("Warning: notification skipped: %v", err)
		return
	}

	d := &report.Deliverer{Notifier: notifier}
	if cfg.AI.Enabled {
		analyzer, err := ai.NewReportAnalyzer(&cfg.AI)
		if err != nil {
			log.Printf("Warning: AI analysis disabled: %v", err)
		} else {
			d.Analyzer = analyzer
		}
		if timeout, err := time.ParseDuration(cfg.AI.Timeout); err == nil {
			d.AITimeout = timeout
		}
	}
	if err := d.Deliver(ctx, subject, md); err != nil {
		log.Printf("ERROR: %v", err)
	}
}

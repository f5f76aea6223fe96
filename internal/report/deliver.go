package report

import (
	"WSNSpectra/internal/model"
	"context"
	"fmt"
	"log"
	"time"
)

// Deliverer emails reports, optionally with AI commentary appended.
type Deliverer struct {
	Notifier  model.Notifier
	Analyzer  model.Analyzer // nil disables commentary
	AITimeout time.Duration
}

// Deliver renders md to HTML and sends it. A failed AI request only drops the commentary.
func (d *Deliverer) Deliver(ctx context.Context, subject, md string) error {
	body := HTML(md)

	if commentary := d.commentary(ctx, md); commentary != "" {
		body += "<hr><h2>AI-Powered Analysis</h2>" + HTML(commentary)
	}

	if d.Notifier == nil {
		return fmt.Errorf("no notifier configured")
	}
	if err := d.Notifier.Send(subject, body); err != nil {
		return fmt.Errorf("failed to send report: %w", err)
	}
	log.Printf("Report '%s' sent successfully.", subject)
	return nil
}

func (d *Deliverer) commentary(ctx context.Context, md string) string {
	if d.Analyzer == nil {
		return ""
	}
	timeout := d.AITimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	log.Println("Requesting AI analysis for report...")
	text, err := d.Analyzer.AnalyzeReport(ctx, md)
	if err != nil {
		log.Printf("Failed to get AI analysis: %v", err)
		return ""
	}
	return text
}

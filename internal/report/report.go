// Package report renders batch and evaluation summaries as markdown and HTML.
package report

import (
	"WSNSpectra/internal/batch"
	"WSNSpectra/internal/metrics"
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// BatchMarkdown summarizes the outcome of every run.
func BatchMarkdown(s *batch.Summary) string {
	var b strings.Builder
	b.WriteString("# WSNSpectra Batch Summary\n\n")
	fmt.Fprintf(&b, "%d runs: %d ok, %d skipped, %d failed.\n\n",
		len(s.Outcomes), s.Count(batch.StatusOK), s.Count(batch.StatusSkipped), s.Count(batch.StatusFailed))

	b.WriteString("| Scenario | Seed | Outcome | Detail |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, o := range s.Outcomes {
		detail := ""
		if o.Err != nil {
			detail = escapeCell(o.Err.Error())
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", o.Run.Scenario, o.Run.Seed, o.Status, detail)
	}
	return b.String()
}

// EvaluationMarkdown summarizes a confusion matrix and its binary metrics.
func EvaluationMarkdown(title string, cm *metrics.Confusion, m metrics.BinaryMetrics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)

	b.WriteString("| Actual \\ Predicted |")
	for _, l := range cm.Labels {
		fmt.Fprintf(&b, " %s |", escapeCell(l))
	}
	b.WriteString("\n|---|")
	b.WriteString(strings.Repeat("---|", len(cm.Labels)))
	b.WriteString("\n")
	for i, l := range cm.Labels {
		fmt.Fprintf(&b, "| %s |", escapeCell(l))
		for _, v := range cm.Counts[i] {
			fmt.Fprintf(&b, " %d |", v)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nPositive label: `%s`\n\n", m.Positive)
	for _, line := range m.Lines() {
		if line == "" {
			continue
		}
		fmt.Fprintf(&b, "- %s\n", line)
	}
	return b.String()
}

// HTML renders markdown to HTML.
func HTML(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return string(markdown.ToHTML([]byte(md), p, renderer))
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

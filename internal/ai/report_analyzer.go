package ai

import (
	"WSNSpectra/internal/config"
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// ReportAnalyzer implements the model.Analyzer interface using OpenAI's API.
type ReportAnalyzer struct {
	cfg    *config.AIConfig
	client *openai.Client
}

// NewReportAnalyzer creates a new instance of ReportAnalyzer.
func NewReportAnalyzer(cfg *config.AIConfig) (*ReportAnalyzer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("AI API key is not configured")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	// If a custom BaseURL is defined, override the default one
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &ReportAnalyzer{
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientConfig),
	}, nil
}

// AnalyzeReport asks the model for a short commentary on a markdown report.
func (a *ReportAnalyzer) AnalyzeReport(ctx context.Context, report string) (string, error) {
	prompt := fmt.Sprintf(
		"You are a wireless sensor network researcher studying RPL routing attacks. "+
			"Please review the following report produced by the WSNSpectra analysis pipeline. "+
			"Point out runs or sensors that look anomalous, comment on the classifier results if present, "+
			"and suggest what to inspect next. Keep it concise and answer in markdown.\n\n"+
			"--- Report ---\n%s\n--- End of Report ---", report,
	)

	resp, err := a.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: a.cfg.Model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("AI request timeout: %w", err)
		}
		if errors.Is(err, context.Canceled) {
			return "", fmt.Errorf("AI request canceled: %w", err)
		}
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI API returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

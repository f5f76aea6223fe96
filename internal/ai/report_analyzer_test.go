package ai

import (
	"WSNSpectra/internal/config"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestReportAnalyzer(t *testing.T) {
	var prompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.Unmarshal(body, &req); err == nil && len(req.Messages) > 0 {
			prompt = req.Messages[0].Content
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"c1","object":"chat.completion","model":"test","choices":[{"index":0,"message":{"role":"assistant","content":"Sensor S-4 looks odd."},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	a, err := NewReportAnalyzer(&config.AIConfig{APIKey: "test", BaseURL: srv.URL + "/v1", Model: "gpt-4o-mini"})
	if err != nil {
		t.Fatalf("NewReportAnalyzer failed: %v", err)
	}

	out, err := a.AnalyzeReport(context.Background(), "# Batch\n4/seed1 ok")
	if err != nil {
		t.Fatalf("AnalyzeReport failed: %v", err)
	}
	if out != "Sensor S-4 looks odd." {
		t.Errorf("Unexpected commentary %q", out)
	}
	if !strings.Contains(prompt, "4/seed1 ok") {
		t.Errorf("Report not included in prompt: %q", prompt)
	}
}

func TestNewReportAnalyzer_RequiresKey(t *testing.T) {
	if _, err := NewReportAnalyzer(&config.AIConfig{}); err == nil {
		t.Error("Expected an error without an API key, got nil")
	}
}

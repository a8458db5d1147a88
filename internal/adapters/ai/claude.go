package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mediascope/visibility/internal/adapters/config"
	"github.com/mediascope/visibility/pkg/logger"
)

const claudeAPIURL = "https://api.anthropic.com/v1/messages"

// ClaudeClassifier implements TextClassifier against the Anthropic
// messages API.
type ClaudeClassifier struct {
	apiKey string
	model  string
	client *http.Client
}

// NewClaudeClassifier creates a Claude-backed text classifier.
func NewClaudeClassifier(cfg *config.AnthropicConfig) *ClaudeClassifier {
	return &ClaudeClassifier{
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *ClaudeClassifier) IsEnabled() bool {
	return c.apiKey != ""
}

func (c *ClaudeClassifier) Classify(ctx context.Context, systemPrompt, userContent string) (string, error) {
	if !c.IsEnabled() {
		return "", fmt.Errorf("classifier not configured")
	}

	reqBody := map[string]interface{}{
		"model":      c.model,
		"max_tokens": 1024,
		"system":     systemPrompt,
		"messages": []map[string]string{
			{"role": "user", "content": userContent},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	startTime := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Content) == 0 {
		return "", fmt.Errorf("empty response")
	}

	logger.Debug("classifier response",
		zap.Duration("latency", time.Since(startTime)),
		zap.Int("length", len(result.Content[0].Text)),
	)

	return result.Content[0].Text, nil
}

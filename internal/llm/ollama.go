package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// Documentation should be stable between runs, so sampling stays cool.
const ollamaTemperature = 0.2

// OllamaProvider calls the /api/generate endpoint of a local Ollama server.
type OllamaProvider struct {
	baseURL string
	model   string
	client  *http.Client
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
}

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	System  string        `json:"system,omitempty"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaGenerateResponse struct {
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	Error           string `json:"error,omitempty"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

func NewOllamaProvider(baseURL, model string) *OllamaProvider {
	return &OllamaProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{},
	}
}

func (p *OllamaProvider) GetModel() string {
	return p.model
}

func (p *OllamaProvider) Generate(ctx context.Context, prompt string) (string, error) {
	var payload bytes.Buffer
	if err := json.NewEncoder(&payload).Encode(ollamaGenerateRequest{
		Model:   p.model,
		System:  SystemPrompt,
		Prompt:  prompt,
		Options: ollamaOptions{Temperature: ollamaTemperature},
	}); err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", &payload)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if msg := strings.TrimSpace(string(detail)); msg != "" {
			return "", fmt.Errorf("ollama request failed with status: %d: %s", resp.StatusCode, msg)
		}
		return "", fmt.Errorf("ollama request failed with status: %d", resp.StatusCode)
	}

	var out ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("ollama returned an error: %s", out.Error)
	}

	slog.Debug("received ollama response",
		"model", p.model,
		"promptTokens", out.PromptEvalCount,
		"completionTokens", out.EvalCount)
	return out.Response, nil
}

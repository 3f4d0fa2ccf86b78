package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"learnbot/models"
)

// OllamaGateway generates explanations with a local Ollama model
type OllamaGateway struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// OllamaRequest represents a request to the Ollama API
type OllamaRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// OllamaResponse represents a response from the Ollama API
type OllamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// NewOllamaGateway creates a gateway for the Ollama server at baseURL.
// The per-call deadline comes from the caller's context.
func NewOllamaGateway(baseURL, model string, timeout time.Duration) *OllamaGateway {
	if baseURL == "" {
		baseURL = "http://localhost:11434" // Default Ollama URL
	}
	if model == "" {
		model = "tinyllama:latest"
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &OllamaGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (l *OllamaGateway) Name() string { return "ollama/" + l.model }

// ollamaOptions maps decoding parameters onto the options Ollama understands.
// Beam search, length penalty and n-gram blocking have no Ollama equivalent.
func ollamaOptions(p models.DecodingParams) map[string]interface{} {
	temperature := p.Temperature
	if !p.DoSample {
		temperature = 0
	}
	return map[string]interface{}{
		"num_predict":    p.MaxLength,
		"temperature":    temperature,
		"top_p":          p.TopP,
		"top_k":          p.TopK,
		"repeat_penalty": p.RepetitionPenalty,
	}
}

// Generate sends the prompt to /api/generate
func (l *OllamaGateway) Generate(ctx context.Context, req models.GenerationRequest) (string, error) {
	request := OllamaRequest{
		Model:   l.model,
		Prompt:  req.Prompt,
		Stream:  false,
		Options: ollamaOptions(req.Params),
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+"/api/generate", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := l.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to make request to LLM: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("LLM API returned status %d: %s", resp.StatusCode, string(body))
	}

	var ollamaResp OllamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if ollamaResp.Error != "" {
		return "", fmt.Errorf("LLM returned error: %s", ollamaResp.Error)
	}

	return ollamaResp.Response, nil
}

// Ping checks that the server answers and has the configured model pulled.
func (l *OllamaGateway) Ping(ctx context.Context) error {
	available, err := l.GetAvailableModels(ctx)
	if err != nil {
		return err
	}
	for _, name := range available {
		if name == l.model {
			return nil
		}
	}
	return fmt.Errorf("model %s is not pulled on %s", l.model, l.baseURL)
}

// GetAvailableModels returns a list of available models
func (l *OllamaGateway) GetAvailableModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get models: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var result struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	names := make([]string, 0, len(result.Models))
	for _, model := range result.Models {
		names = append(names, model.Name)
	}

	return names, nil
}

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"learnbot/models"
)

// ChatGPTGateway generates explanations through an OpenAI-compatible API
type ChatGPTGateway struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// ChatGPTRequest represents a request to the ChatGPT API
type ChatGPTRequest struct {
	Model            string           `json:"model"`
	Messages         []ChatGPTMessage `json:"messages"`
	MaxTokens        int              `json:"max_tokens,omitempty"`
	Temperature      float64          `json:"temperature"`
	TopP             float64          `json:"top_p,omitempty"`
	FrequencyPenalty float64          `json:"frequency_penalty,omitempty"`
}

// ChatGPTMessage represents a message in the ChatGPT format
type ChatGPTMessage struct {
	Role    string `json:"role"` // "system", "user", or "assistant"
	Content string `json:"content"`
}

// ChatGPTResponse represents a response from the ChatGPT API
type ChatGPTResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

const tutorSystemPrompt = "You are a patient tutor. Write clear, accurate educational explanations in plain prose. " +
	"Do not ask follow-up questions."

// NewChatGPTGateway creates a gateway for an OpenAI-compatible endpoint
func NewChatGPTGateway(baseURL, model, apiKey string, timeout time.Duration) *ChatGPTGateway {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &ChatGPTGateway{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *ChatGPTGateway) Name() string { return "chatgpt/" + c.model }

// repetitionToFrequencyPenalty squeezes a multiplicative repetition penalty
// (1 = none) into OpenAI's additive [0,2] frequency penalty.
func repetitionToFrequencyPenalty(p float64) float64 {
	if p <= 1 {
		return 0
	}
	if p-1 > 2 {
		return 2
	}
	return p - 1
}

// Generate generates an explanation using ChatGPT
func (c *ChatGPTGateway) Generate(ctx context.Context, req models.GenerationRequest) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("OpenAI API key not set")
	}

	temperature := req.Params.Temperature
	if !req.Params.DoSample {
		temperature = 0
	}
	request := ChatGPTRequest{
		Model: c.model,
		Messages: []ChatGPTMessage{
			{Role: "system", Content: tutorSystemPrompt},
			{Role: "user", Content: req.Prompt},
		},
		MaxTokens:        req.Params.MaxLength,
		Temperature:      temperature,
		TopP:             req.Params.TopP,
		FrequencyPenalty: repetitionToFrequencyPenalty(req.Params.RepetitionPenalty),
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to make request to ChatGPT: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var chatGPTResp ChatGPTResponse
	if err := json.Unmarshal(body, &chatGPTResp); err != nil {
		return "", fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	if chatGPTResp.Error != nil {
		return "", fmt.Errorf("ChatGPT API error: %s", chatGPTResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ChatGPT API returned status %d", resp.StatusCode)
	}

	if len(chatGPTResp.Choices) == 0 {
		return "", errors.New("no response choices from ChatGPT")
	}

	return chatGPTResp.Choices[0].Message.Content, nil
}

// Ping lists models to confirm the key is accepted.
func (c *ChatGPTGateway) Ping(ctx context.Context) error {
	if c.apiKey == "" {
		return errors.New("OPENAI_API_KEY not set")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach ChatGPT: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ChatGPT models endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

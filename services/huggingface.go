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

// HuggingFaceGateway runs a hosted seq2seq model (flan-t5 by default)
// through the Hugging Face Inference API. Every decoding parameter is
// forwarded as a generate() keyword.
type HuggingFaceGateway struct {
	baseURL    string
	model      string
	token      string
	httpClient *http.Client
}

type hfRequest struct {
	Inputs     string                 `json:"inputs"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
	Options    hfOptions              `json:"options"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
	UseCache     bool `json:"use_cache"`
}

type hfGeneration struct {
	GeneratedText string `json:"generated_text"`
}

type hfError struct {
	Error string `json:"error"`
}

// NewHuggingFaceGateway creates a gateway for model under baseURL.
func NewHuggingFaceGateway(baseURL, model, token string, timeout time.Duration) *HuggingFaceGateway {
	if baseURL == "" {
		baseURL = "https://api-inference.huggingface.co/models"
	}
	if model == "" {
		model = "google/flan-t5-large"
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &HuggingFaceGateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (h *HuggingFaceGateway) Name() string { return "huggingface/" + h.model }

func hfParameters(p models.DecodingParams) map[string]interface{} {
	return map[string]interface{}{
		"max_length":           p.MaxLength,
		"min_length":           p.MinLength,
		"num_beams":            p.NumBeams,
		"temperature":          p.Temperature,
		"do_sample":            p.DoSample,
		"top_p":                p.TopP,
		"top_k":                p.TopK,
		"repetition_penalty":   p.RepetitionPenalty,
		"length_penalty":       p.LengthPenalty,
		"no_repeat_ngram_size": p.NoRepeatNgramSize,
		"early_stopping":       p.EarlyStopping,
	}
}

// Generate posts the prompt and returns the first generated sequence.
func (h *HuggingFaceGateway) Generate(ctx context.Context, req models.GenerationRequest) (string, error) {
	out, err := h.post(ctx, hfRequest{
		Inputs:     req.Prompt,
		Parameters: hfParameters(req.Params),
		// Sampling is on, so cached answers would defeat it.
		Options: hfOptions{WaitForModel: true, UseCache: false},
	})
	if err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", errors.New("model returned no sequences")
	}
	return out[0].GeneratedText, nil
}

// Ping asks the model for a two-token answer, which also forces a cold load.
func (h *HuggingFaceGateway) Ping(ctx context.Context) error {
	if h.token == "" {
		return errors.New("HF_API_TOKEN not set")
	}
	_, err := h.post(ctx, hfRequest{
		Inputs:     "Say OK.",
		Parameters: map[string]interface{}{"max_length": 2},
		Options:    hfOptions{WaitForModel: true, UseCache: true},
	})
	return err
}

func (h *HuggingFaceGateway) post(ctx context.Context, body hfRequest) ([]hfGeneration, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/"+h.model, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr hfError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("inference API error %d: %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("inference API returned status %d", resp.StatusCode)
	}

	var out []hfGeneration
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("malformed inference response: %w", err)
	}
	return out, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"learnbot/models"
	"learnbot/utils"
)

// LLMProvider represents the type of generation backend
type LLMProvider string

const (
	ProviderHuggingFace LLMProvider = "huggingface"
	ProviderLocal       LLMProvider = "local"
	ProviderChatGPT     LLMProvider = "chatgpt"
)

// Gateway is the boundary to an external text-generation capability.
type Gateway interface {
	Name() string
	// Ping checks that the backend is configured and reachable.
	Ping(ctx context.Context) error
	Generate(ctx context.Context, req models.GenerationRequest) (string, error)
}

// NewGateway builds the gateway selected by provider.
func NewGateway(provider LLMProvider, cfg utils.Config) (Gateway, error) {
	switch provider {
	case ProviderHuggingFace, "":
		return NewHuggingFaceGateway(cfg.HuggingFaceURL, cfg.HuggingFaceModel, cfg.HuggingFaceToken, cfg.GenerationTimeout), nil
	case ProviderLocal:
		return NewOllamaGateway(cfg.OllamaURL, cfg.OllamaModel, cfg.GenerationTimeout), nil
	case ProviderChatGPT:
		return NewChatGPTGateway(cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.OpenAIAPIKey, cfg.GenerationTimeout), nil
	default:
		return nil, fmt.Errorf("unknown generation provider %q", provider)
	}
}

// Generator owns one Gateway and its availability state. Init must succeed
// before Generate will call the backend.
type Generator struct {
	gateway Gateway
	timeout time.Duration
	logger  *utils.Logger

	mu      sync.RWMutex
	ready   bool
	initErr error
	initAt  time.Time
}

// NewGenerator wires a gateway. The generator starts unavailable.
func NewGenerator(gateway Gateway, timeout time.Duration, logger *utils.Logger) *Generator {
	if logger == nil {
		logger = utils.NopLogger()
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Generator{gateway: gateway, timeout: timeout, logger: logger}
}

// Init pings the backend and records whether it can serve requests.
func (g *Generator) Init(ctx context.Context) error {
	var err error
	if g.gateway == nil {
		err = errors.New("no generation gateway configured")
	} else {
		pingCtx, cancel := context.WithTimeout(ctx, g.timeout)
		err = g.gateway.Ping(pingCtx)
		cancel()
	}

	g.mu.Lock()
	g.ready = err == nil
	g.initErr = err
	g.initAt = time.Now()
	g.mu.Unlock()

	if err != nil {
		g.logger.Error("generation backend failed to initialise", "gateway", g.gatewayName(), "error", err)
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	g.logger.Info("generation backend ready", "gateway", g.gatewayName())
	return nil
}

// Ready reports whether the last Init succeeded.
func (g *Generator) Ready() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.ready
}

// Generate runs one bounded call. The result is not byte-stable across calls
// because sampling is enabled.
func (g *Generator) Generate(ctx context.Context, req models.GenerationRequest) (string, error) {
	if !g.Ready() {
		return "", ErrModelUnavailable
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	text, err := g.gateway.Generate(callCtx, req)
	if err != nil {
		g.logger.Warn("generation call failed", "gateway", g.gatewayName(), "topic", req.Topic, "error", err, "elapsed", time.Since(start))
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	text = cleanResponse(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty output", ErrGenerationFailed)
	}
	g.logger.Info("generated content", "gateway", g.gatewayName(), "topic", req.Topic, "elapsed", time.Since(start))
	return text, nil
}

// GetStatus returns the status of the generator
func (g *Generator) GetStatus() map[string]interface{} {
	g.mu.RLock()
	defer g.mu.RUnlock()

	status := map[string]interface{}{
		"gateway": g.gatewayName(),
		"timeout": g.timeout.String(),
	}
	switch {
	case g.ready:
		status["status"] = "available"
	case g.initAt.IsZero():
		status["status"] = "not_initialised"
	default:
		status["status"] = "unavailable"
		status["error"] = g.initErr.Error()
	}
	if !g.initAt.IsZero() {
		status["initialised_at"] = g.initAt.UTC().Format(time.RFC3339)
	}
	return status
}

func (g *Generator) gatewayName() string {
	if g.gateway == nil {
		return "none"
	}
	return g.gateway.Name()
}

// cleanResponse trims whitespace and chat-style role prefixes some models echo.
func cleanResponse(response string) string {
	response = strings.TrimSpace(response)
	for _, prefix := range []string{"Assistant:", "AI:", "Answer:"} {
		response = strings.TrimSpace(strings.TrimPrefix(response, prefix))
	}
	return response
}

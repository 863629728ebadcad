// Package ai wraps the hosted completion APIs behind a single client
// interface. Requests are a single system+user exchange with fixed sampling
// parameters; the model identifier comes from configuration.
package ai

import (
	"context"
	"fmt"

	"github.com/kayz/kaiseki/internal/config"
)

const (
	temperature     = 0.7
	maxOutputTokens = 800
)

// emptyResult is returned when the model produced no text.
const emptyResult = "（分析結果が空でした）"

// Usage reports token consumption for one completion call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Result is the outcome of one completion call.
type Result struct {
	Text  string
	Usage Usage
}

// Client sends a composed system/user pair to a completion API.
type Client interface {
	Analyze(ctx context.Context, system, user string) (Result, error)
}

// New builds the client selected by the config's provider name.
func New(cfg config.AIConfig) (Client, error) {
	switch cfg.Provider {
	case "", "openai":
		return NewOpenAIClient(cfg)
	case "anthropic":
		return NewAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unknown AI provider: %s", cfg.Provider)
	}
}

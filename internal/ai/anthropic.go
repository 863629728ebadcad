package ai

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/kayz/kaiseki/internal/config"
)

const defaultAnthropicModel = "claude-3-5-haiku-latest"

// AnthropicClient implements Client against the Anthropic messages API.
type AnthropicClient struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicClient creates a client for the Anthropic messages API.
func NewAnthropicClient(cfg config.AIConfig) (*AnthropicClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}

	var opts []anthropic.ClientOption
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}

	return &AnthropicClient{
		client: anthropic.NewClient(cfg.APIKey, opts...),
		model:  model,
	}, nil
}

// Analyze sends the composed pair and returns the generated text.
func (c *AnthropicClient) Analyze(ctx context.Context, system, user string) (Result, error) {
	temp := float32(temperature)
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(c.model),
		System:      system,
		Messages:    []anthropic.Message{anthropic.NewUserTextMessage(user)},
		MaxTokens:   maxOutputTokens,
		Temperature: &temp,
	})
	if err != nil {
		return Result{}, fmt.Errorf("anthropic API error: %w", err)
	}

	text := resp.GetFirstContentText()
	if text == "" {
		text = emptyResult
	}

	return Result{
		Text: text,
		Usage: Usage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
	}, nil
}

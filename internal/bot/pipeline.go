package bot

import (
	"context"
	"fmt"

	"github.com/kayz/kaiseki/internal/ai"
	"github.com/kayz/kaiseki/internal/compose"
	"github.com/kayz/kaiseki/internal/history"
	"github.com/kayz/kaiseki/internal/logger"
	"github.com/kayz/kaiseki/internal/store"
)

// Pipeline runs one analysis invocation: default-prompt lookup, history
// fetch, composition, completion, reply formatting. It holds no per-request
// state and is shared by the slash commands and the scheduled digest.
type Pipeline struct {
	Store   *store.Store
	AI      ai.Client
	History history.Fetcher
}

// ResolveDefaultPrompt returns the prompt referenced by the settings row, or
// nil when none is configured. Store errors on either lookup degrade to "no
// default prompt"; analysis proceeds on the no-default branch.
func (p *Pipeline) ResolveDefaultPrompt() *store.Prompt {
	settings, err := p.Store.GetSettings()
	if err != nil {
		logger.Warn("Settings lookup failed, proceeding without default prompt: %v", err)
		return nil
	}
	if settings == nil || settings.DefaultPromptID == "" {
		return nil
	}

	prompt, err := p.Store.GetPrompt(settings.DefaultPromptID)
	if err != nil {
		logger.Warn("Default prompt lookup failed, proceeding without it: %v", err)
		return nil
	}
	return prompt
}

// FindSavedPrompt returns the first stored prompt whose name equals the given
// string exactly, in newest-created-first order. Nil when no prompt matches.
func (p *Pipeline) FindSavedPrompt(name string) (*store.Prompt, error) {
	prompts, err := p.Store.ListPrompts()
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	for _, prompt := range prompts {
		if prompt.Name == name {
			return prompt, nil
		}
	}
	return nil, nil
}

// Analyze runs the freeform-instruction pipeline against a channel and
// returns the formatted reply text.
func (p *Pipeline) Analyze(ctx context.Context, channelID, channelName, instruction string) (string, error) {
	def := p.ResolveDefaultPrompt()
	return p.run(ctx, channelID, channelName, instruction, def)
}

// AnalyzeSaved runs the pipeline with a stored prompt in place of freeform
// input.
func (p *Pipeline) AnalyzeSaved(ctx context.Context, channelID, channelName string, prompt *store.Prompt) (string, error) {
	return p.run(ctx, channelID, channelName, "", prompt)
}

func (p *Pipeline) run(ctx context.Context, channelID, channelName, instruction string, def *store.Prompt) (string, error) {
	if channelName == "" {
		channelName = "general"
	}

	block := history.Block(ctx, p.History, channelID)
	composed := compose.WithContext(compose.Compose(instruction, def), channelName, block)

	result, err := p.AI.Analyze(ctx, composed.System, composed.User)
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}

	promptName := ""
	if def != nil {
		promptName = def.Name
	}
	return resultHeader(channelName, promptName) + result.Text, nil
}

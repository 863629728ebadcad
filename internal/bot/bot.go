// Package bot is the Discord surface: session lifecycle, slash-command
// registration, and the interaction handlers that drive the analysis
// pipeline.
package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/kayz/kaiseki/internal/ai"
	"github.com/kayz/kaiseki/internal/config"
	"github.com/kayz/kaiseki/internal/history"
	"github.com/kayz/kaiseki/internal/logger"
	"github.com/kayz/kaiseki/internal/store"
)

// Bot wires a Discord session to the analysis pipeline.
type Bot struct {
	session  *discordgo.Session
	cfg      config.DiscordConfig
	pipeline *Pipeline
	ctx      context.Context
	cancel   context.CancelFunc
}

// New creates a Discord bot. The store and AI client are constructed by the
// caller and passed in; the bot owns no global state.
func New(cfg config.DiscordConfig, st *store.Store, client ai.Client) (*Bot, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("Discord bot token is required")
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	return &Bot{
		session: session,
		cfg:     cfg,
		pipeline: &Pipeline{
			Store:   st,
			AI:      client,
			History: &channelFetcher{session: session},
		},
	}, nil
}

// Pipeline exposes the analysis pipeline for the scheduled digest.
func (b *Bot) Pipeline() *Pipeline {
	return b.pipeline
}

// Send posts a plain message to a channel.
func (b *Bot) Send(channelID, content string) error {
	_, err := b.session.ChannelMessageSend(channelID, content)
	return err
}

// Start opens the gateway connection and registers the guild commands.
func (b *Bot) Start(ctx context.Context) error {
	b.ctx, b.cancel = context.WithCancel(ctx)

	b.session.AddHandler(b.handleReady)
	b.session.AddHandler(b.handleInteraction)
	b.session.AddHandler(b.handleMessage)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	return nil
}

// Stop shuts down the Discord connection.
func (b *Bot) Stop() error {
	if b.cancel != nil {
		b.cancel()
	}
	return b.session.Close()
}

func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	logger.Info("Connected as bot: %s", r.User.String())

	if _, err := s.ApplicationCommandBulkOverwrite(b.cfg.AppID, b.cfg.GuildID, commandDefinitions()); err != nil {
		logger.Error("Command registration failed: %v", err)
		return
	}
	if b.cfg.GuildID != "" {
		logger.Info("Commands registered for guild %s", b.cfg.GuildID)
	} else {
		logger.Info("Commands registered globally")
	}
}

// handleMessage answers the ping health check and ignores everything else.
func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if m.Content == "ping" {
		if _, err := s.ChannelMessageSendReply(m.ChannelID, "pong", m.Reference()); err != nil {
			logger.Warn("ping reply failed: %v", err)
		}
	}
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	switch data.Name {
	case cmdAnalyze:
		b.handleAnalyze(s, i)
	case cmdAnalyzeSaved:
		b.handleAnalyzeSaved(s, i)
	case cmdListPrompts:
		b.handleListPrompts(s, i)
	default:
		logger.Warn("Unhandled command: %s", data.Name)
	}
}

func (b *Bot) handleAnalyze(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionMap(i)
	if !b.deferReply(s, i) {
		return
	}

	channel := channelOption(s, opts[optChannel])
	if channel == nil || channel.Type != discordgo.ChannelTypeGuildText {
		b.editReply(s, i, msgTextChannelOnly)
		return
	}

	instruction := ""
	if opt, ok := opts[optPrompt]; ok {
		instruction = opt.StringValue()
	}

	result, err := b.pipeline.Analyze(b.ctx, channel.ID, channel.Name, instruction)
	if err != nil {
		logger.Error("Analysis failed: %v", err)
		b.editReply(s, i, msgAnalysisError)
		return
	}
	b.editReply(s, i, result)
}

func (b *Bot) handleAnalyzeSaved(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionMap(i)
	if !b.deferReply(s, i) {
		return
	}

	channel := channelOption(s, opts[optChannel])
	if channel == nil || channel.Type != discordgo.ChannelTypeGuildText {
		b.editReply(s, i, msgTextChannelOnly)
		return
	}

	name := ""
	if opt, ok := opts[optPromptName]; ok {
		name = opt.StringValue()
	}

	prompt, err := b.pipeline.FindSavedPrompt(name)
	if err != nil {
		logger.Error("Saved prompt lookup failed: %v", err)
		b.editReply(s, i, msgSavedAnalysisError)
		return
	}
	if prompt == nil {
		b.editReply(s, i, msgPromptNotFound(name))
		return
	}

	result, err := b.pipeline.AnalyzeSaved(b.ctx, channel.ID, channel.Name, prompt)
	if err != nil {
		logger.Error("Saved prompt analysis failed: %v", err)
		b.editReply(s, i, msgSavedAnalysisError)
		return
	}
	b.editReply(s, i, result)
}

func (b *Bot) handleListPrompts(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.deferReply(s, i) {
		return
	}

	prompts, err := b.pipeline.Store.ListPrompts()
	if err != nil {
		logger.Error("Prompt list failed: %v", err)
		b.editReply(s, i, msgListError)
		return
	}
	b.editReply(s, i, promptListMessage(prompts))
}

// deferReply acknowledges the interaction so the pipeline can take longer
// than the initial response window. Every invocation edits exactly one reply
// afterwards.
func (b *Bot) deferReply(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		logger.Error("Defer failed: %v", err)
		return false
	}
	return true
}

func (b *Bot) editReply(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	_, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content})
	if err != nil {
		logger.Error("Reply edit failed: %v", err)
	}
}

func optionMap(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	data := i.ApplicationCommandData()
	opts := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(data.Options))
	for _, opt := range data.Options {
		opts[opt.Name] = opt
	}
	return opts
}

func channelOption(s *discordgo.Session, opt *discordgo.ApplicationCommandInteractionDataOption) *discordgo.Channel {
	if opt == nil {
		return nil
	}
	return opt.ChannelValue(s)
}

// channelFetcher reads recent channel messages through the live session.
// The API delivers them newest first; the renderer reverses them.
type channelFetcher struct {
	session *discordgo.Session
}

func (f *channelFetcher) RecentMessages(_ context.Context, channelID string, limit int) ([]history.Message, error) {
	messages, err := f.session.ChannelMessages(channelID, limit, "", "", "")
	if err != nil {
		return nil, err
	}

	out := make([]history.Message, 0, len(messages))
	for _, m := range messages {
		author := ""
		if m.Author != nil {
			author = m.Author.Username
		}
		out = append(out, history.Message{Author: author, Content: m.Content})
	}
	return out, nil
}

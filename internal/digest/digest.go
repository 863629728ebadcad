// Package digest posts a scheduled channel analysis, reusing the same
// pipeline as the slash commands.
package digest

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/kayz/kaiseki/internal/bot"
	"github.com/kayz/kaiseki/internal/config"
	"github.com/kayz/kaiseki/internal/logger"
)

// Poster delivers the digest text to the channel.
type Poster interface {
	Send(channelID, content string) error
}

// Scheduler runs the digest on a cron schedule.
type Scheduler struct {
	cfg      config.DigestConfig
	pipeline *bot.Pipeline
	poster   Poster
	cron     *cron.Cron
}

// NewScheduler validates the digest config and prepares the cron entry.
func NewScheduler(cfg config.DigestConfig, pipeline *bot.Pipeline, poster Poster) (*Scheduler, error) {
	if cfg.ChannelID == "" {
		return nil, fmt.Errorf("digest channel_id is required")
	}
	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return nil, fmt.Errorf("invalid digest schedule %q: %w", cfg.Schedule, err)
	}

	return &Scheduler{
		cfg:      cfg,
		pipeline: pipeline,
		poster:   poster,
		cron:     cron.New(),
	}, nil
}

// Start begins the schedule. Each tick runs independently; a failed run is
// logged and the next tick proceeds.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		if err := s.Run(ctx); err != nil {
			logger.Error("Digest run failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info("Digest scheduled (%s) for channel %s", s.cfg.Schedule, s.cfg.ChannelID)
	return nil
}

// Stop halts the schedule and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Run executes one digest: analyze the configured channel and post the
// result. A saved prompt name wins over the freeform instruction.
func (s *Scheduler) Run(ctx context.Context) error {
	channelName := s.cfg.ChannelName

	var result string
	if s.cfg.PromptName != "" {
		prompt, err := s.pipeline.FindSavedPrompt(s.cfg.PromptName)
		if err != nil {
			return err
		}
		if prompt == nil {
			return fmt.Errorf("digest prompt %q not found", s.cfg.PromptName)
		}
		result, err = s.pipeline.AnalyzeSaved(ctx, s.cfg.ChannelID, channelName, prompt)
		if err != nil {
			return err
		}
	} else {
		var err error
		result, err = s.pipeline.Analyze(ctx, s.cfg.ChannelID, channelName, s.cfg.Instruction)
		if err != nil {
			return err
		}
	}

	return s.poster.Send(s.cfg.ChannelID, result)
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kayz/kaiseki/internal/ai"
	"github.com/kayz/kaiseki/internal/bot"
	"github.com/kayz/kaiseki/internal/config"
	"github.com/kayz/kaiseki/internal/digest"
	"github.com/kayz/kaiseki/internal/logger"
	"github.com/kayz/kaiseki/internal/store"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Discord bot",
	Run:   runBot,
}

func init() {
	rootCmd.AddCommand(botCmd)
}

func runBot(cmd *cobra.Command, args []string) {
	cfg, st, client := mustLoadRuntime(true)
	defer st.Close()

	discordBot, err := bot.New(cfg.Discord, st, client)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating bot: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := discordBot.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting bot: %v\n", err)
		os.Exit(1)
	}
	defer discordBot.Stop()

	scheduler := startDigest(ctx, cfg, discordBot)
	if scheduler != nil {
		defer scheduler.Stop()
	}

	logger.Info("Bot is running. Press Ctrl+C to exit.")
	waitForSignal()
}

// mustLoadRuntime loads config and opens the shared store + completion
// client, exiting on any failure. requireDiscord skips Discord credential
// validation for the web-only mode.
func mustLoadRuntime(requireDiscord bool) (*config.Config, *store.Store, ai.Client) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if requireDiscord {
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	st, err := store.NewStore(cfg.Store.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		os.Exit(1)
	}

	client, err := ai.New(cfg.AI)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating AI client: %v\n", err)
		os.Exit(1)
	}

	return cfg, st, client
}

func startDigest(ctx context.Context, cfg *config.Config, discordBot *bot.Bot) *digest.Scheduler {
	if !cfg.Digest.Enabled {
		return nil
	}
	scheduler, err := digest.NewScheduler(cfg.Digest, discordBot.Pipeline(), discordBot)
	if err != nil {
		logger.Warn("Digest disabled: %v", err)
		return nil
	}
	if err := scheduler.Start(ctx); err != nil {
		logger.Warn("Digest scheduler failed to start: %v", err)
		return nil
	}
	logger.Info("Digest scheduled: %s -> #%s", cfg.Digest.Schedule, cfg.Digest.ChannelName)
	return scheduler
}

func waitForSignal() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
}

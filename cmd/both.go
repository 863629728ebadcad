package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kayz/kaiseki/internal/bot"
	"github.com/kayz/kaiseki/internal/logger"
	"github.com/kayz/kaiseki/internal/webui"
)

var bothCmd = &cobra.Command{
	Use:   "both",
	Short: "Run bot and web server in one process",
	Long: `Run bot and web server in one process.

Both modes share a single prompt store, so changes made in the admin UI
take effect on the next slash command without a restart.`,
	Run: runBoth,
}

func init() {
	rootCmd.AddCommand(bothCmd)
	bothCmd.Flags().IntVar(&webPort, "port", 0, "Web listen port (default: from config or 18080)")
}

func runBoth(cmd *cobra.Command, args []string) {
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

	port := webPort
	if port == 0 {
		port = cfg.Web.Port
	}
	server := webui.NewServer(st, client)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Admin UI listening on http://127.0.0.1:%d", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Web server error: %v", err)
		}
	}()

	logger.Info("Bot and admin UI are running. Press Ctrl+C to exit.")
	waitForSignal()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = httpServer.Shutdown(shutdownCtx)
}

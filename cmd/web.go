package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/kayz/kaiseki/internal/logger"
	"github.com/kayz/kaiseki/internal/webui"
)

var webPort int

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Run the admin web server",
	Run:   runWeb,
}

func init() {
	rootCmd.AddCommand(webCmd)
	webCmd.Flags().IntVar(&webPort, "port", 0, "Listen port (default: from config or 18080)")
}

func runWeb(cmd *cobra.Command, args []string) {
	cfg, st, client := mustLoadRuntime(false)
	defer st.Close()

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

	waitForSignal()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctx)
}

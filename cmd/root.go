package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kayz/kaiseki/internal/logger"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "kaiseki",
	Short: "Discord community analysis bot",
	Long: `kaiseki runtime modes:

Modes:
  kaiseki        Run the Discord bot (default)
  kaiseki bot    Run the Discord bot
  kaiseki web    Run the admin web server
  kaiseki both   Run bot + web server in one process`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	Run: runBot,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logger.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logger.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info",
		"Log level: trace, debug, info, warn, error, fatal")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

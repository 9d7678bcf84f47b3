package cmd

import (
	"os"

	"seller-assistant/internal/common/config"
	"seller-assistant/internal/common/logger"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "replyctl",
	Short: "Seller assistant command line",
	Long: `replyctl drafts replies to customer messages and plans the daily
storefront sale using the same configuration as the assistant server.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a config file (default: configs/config.yaml)")
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

func newLogger(cfg *config.Config) logger.Logger {
	// zap logs to stderr.
	return logger.NewService("replyctl", cfg.Logging.Level, "console")
}

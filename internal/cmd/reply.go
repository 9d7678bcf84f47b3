package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"seller-assistant/internal/app"
	"seller-assistant/internal/credentials"

	"github.com/spf13/cobra"
)

var (
	replyMessage string
	replyAPIKey  string
	replyJSON    bool
)

var replyCmd = &cobra.Command{
	Use:   "reply [message]",
	Short: "Draft three reply candidates for a customer message",
	Long: `Run the reply pipeline for one customer message. The API key comes from
--api-key, then llm.api_key in the config, then OPENAI_API_KEY.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReply,
}

func init() {
	rootCmd.AddCommand(replyCmd)

	replyCmd.Flags().StringVarP(&replyMessage, "message", "m", "", "Customer message (or pass it as the first argument)")
	replyCmd.Flags().StringVarP(&replyAPIKey, "api-key", "k", "", "API key for remote calls")
	replyCmd.Flags().BoolVar(&replyJSON, "json", false, "Print candidates as JSON")
}

func runReply(cmd *cobra.Command, args []string) error {
	message := replyMessage
	if message == "" && len(args) == 1 {
		message = args[0]
	}
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("a message is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	apiKey, err := credentials.Resolve(cmd.Context(), credentials.NewMemoryStore(cfg.LLM.APIKey), replyAPIKey)
	if err != nil {
		return err
	}

	pipeline, err := app.NewPipeline(cfg, app.NewCompleter(cfg), log, nil)
	if err != nil {
		return err
	}

	rs, err := pipeline.GenerateResponse(cmd.Context(), message, apiKey)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if replyJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rs)
	}
	for i, c := range rs {
		fmt.Fprintf(out, "%d. [%s] %s\n", i+1, c.Source, c.Text)
	}
	return nil
}

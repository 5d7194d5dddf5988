package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask the AI model a question",
	Long: `Sends a message to the configured AI model.

Messages longer than the long text threshold (analysis.long_text_threshold)
are analysed as documents and their elements are added to the metrics.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	reply, err := analysisService.Chat(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	cmd.Println(reply.Answer)
	if reply.Report != nil {
		cmd.Println()
		printReport(cmd, reply.Report)
	}
	return nil
}

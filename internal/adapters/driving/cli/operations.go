package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/datacrafter/internal/core/ports/driving"
)

var queryK int

var uploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Store a PDF or image and record it in the history",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpload,
}

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question about the processed documents",
	Long: `Answers a question using the most recently processed documents as
context for the AI model.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryK, "k", "k", driving.DefaultQueryK, "number of documents used as context")
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(queryCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if operationsService == nil {
		return errors.New("operations service not configured")
	}

	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	result, err := operationsService.Upload(cmd.Context(), filepath.Base(path), f, info.Size())
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	cmd.Printf("Uploaded %s as %s\n", filepath.Base(path), result.BlobName)
	return nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	if operationsService == nil {
		return errors.New("operations service not configured")
	}

	answer, err := operationsService.Query(cmd.Context(), strings.Join(args, " "), queryK)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	cmd.Println(answer.Answer)
	return nil
}

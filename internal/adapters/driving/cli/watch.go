package cli

import (
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/datacrafter/internal/adapters/driving/watcher"
)

var watchPrompt string

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Analyse files as they are added to a directory",
	Long: `Watches a directory and analyses every new or changed PDF, image or
text file. Files are analysed one at a time.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchPrompt, "prompt", "p", "", "extra instruction for the AI model")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	out := cmd.OutOrStdout()
	w, err := watcher.New(args[0], analysisService,
		watcher.WithPrompt(watchPrompt),
		watcher.WithResultHandler(func(r watcher.Result) {
			name := filepath.Base(r.Path)
			if r.Err != nil {
				fmt.Fprintf(out, "%s: %v\n", name, r.Err)
				return
			}
			fmt.Fprintf(out, "%s: %d elements, %d chunks\n",
				name, len(r.Report.Result.Elements), r.Report.Summary.TotalChunks)
		}),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", args[0])
	return w.Run(ctx)
}

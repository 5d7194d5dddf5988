package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	dataOut     string
	dataConfirm bool
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Back up, restore or clear the stored data",
}

var dataExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a backup of the metrics and dashboard",
	Long: `Writes the metrics and dashboard state to a JSON backup file.
Use --out - to write to stdout.`,
	RunE: runDataExport,
}

var dataImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Restore a backup",
	Long:  `Restores whichever sections (metrics, dashboard) the backup file carries.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDataImport,
}

var dataClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all stored metrics and dashboard data",
	RunE:  runDataClear,
}

func init() {
	dataExportCmd.Flags().StringVarP(&dataOut, "out", "o", "", "backup file (default: datacrafter-backup-<date>.json)")
	dataClearCmd.Flags().BoolVarP(&dataConfirm, "yes", "y", false, "skip confirmation")
	dataCmd.AddCommand(dataExportCmd)
	dataCmd.AddCommand(dataImportCmd)
	dataCmd.AddCommand(dataClearCmd)
	rootCmd.AddCommand(dataCmd)
}

func runDataExport(cmd *cobra.Command, _ []string) error {
	if persistence == nil {
		return errors.New("persistence gateway not configured")
	}

	snapshot := persistence.ExportAll()
	if dataOut == "-" {
		return printJSON(cmd, snapshot)
	}

	out := dataOut
	if out == "" {
		out = fmt.Sprintf("datacrafter-backup-%s.json", snapshot.ExportedAt.Format(time.DateOnly))
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	cmd.Printf("Backup written to %s\n", out)
	return nil
}

func runDataImport(cmd *cobra.Command, args []string) error {
	if persistence == nil {
		return errors.New("persistence gateway not configured")
	}

	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}

	result := persistence.ImportJSON(data)
	if !result.Success {
		return fmt.Errorf("import failed: %s", result.Message)
	}
	cmd.Println(result.Message)
	return nil
}

func runDataClear(cmd *cobra.Command, _ []string) error {
	if persistence == nil {
		return errors.New("persistence gateway not configured")
	}
	if !dataConfirm && !confirm(cmd, "Delete all metrics and dashboard data?") {
		cmd.Println("Cancelled.")
		return nil
	}

	result := persistence.ClearAll()
	if !result.Success {
		return fmt.Errorf("clear failed: %s", result.Message)
	}
	cmd.Println(result.Message)
	return nil
}

// confirm asks a yes/no question on the command's input.
func confirm(cmd *cobra.Command, question string) bool {
	cmd.Printf("%s [y/N]: ", question)
	answer := strings.ToLower(readLine(bufio.NewReader(cmd.InOrStdin())))
	return answer == "y" || answer == "yes"
}

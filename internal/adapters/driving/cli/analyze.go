package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driving"
)

var (
	analyzePrompt string
	analyzeText   string
	analyzeName   string
	analyzeExport string
	analyzeOut    string
	analyzeJSON   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Extract structured elements from a document",
	Long: `Analyses a PDF, image, text, HTML, email (.eml) or Word (.docx) file and
prints the extracted elements.

PDFs and images are read with Azure Document Intelligence first. HTML, email
and Word files are converted to text locally. The text is
split into slices, each slice is sent to the AI model, and the elements are
combined and added to the metrics.

Use --text to analyse a string instead of a file, and --export to write the
result as json, yaml, csv, txt or pdf.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Show the document intelligence reading of a file",
	Long:  `Runs a PDF or image through Azure Document Intelligence and prints what was recognised.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzePrompt, "prompt", "p", "", "extra instruction for the AI model")
	analyzeCmd.Flags().StringVarP(&analyzeText, "text", "t", "", "analyse this text instead of a file")
	analyzeCmd.Flags().StringVar(&analyzeName, "name", "", "source name recorded for --text")
	analyzeCmd.Flags().StringVarP(&analyzeExport, "export", "e", "", "export format (json, yaml, csv, txt, pdf)")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "export file path (default: <source>.<ext>)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the report as JSON")
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(inspectCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}
	if analyzeExport != "" && exportService == nil {
		return errors.New("export service not configured")
	}

	opts := driving.AnalyzeOptions{Prompt: analyzePrompt}

	var (
		report *domain.AnalysisReport
		err    error
	)
	switch {
	case analyzeText != "":
		name := analyzeName
		if name == "" {
			name = "cli_text_" + time.Now().Format("2006-01-02")
		}
		opts.FileType = domain.DocumentTypeText
		report, err = analysisService.AnalyzeText(cmd.Context(), name, analyzeText, opts)
	case len(args) == 1:
		data, rerr := readInput(cmd, args[0])
		if rerr != nil {
			return rerr
		}
		report, err = analysisService.AnalyzeDocument(cmd.Context(), inputName(args[0]), data, opts)
	default:
		return errors.New("a file or --text is required")
	}
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeExport != "" {
		path, werr := writeExport(report.Result, analyzeExport, analyzeOut)
		if werr != nil {
			return werr
		}
		cmd.Printf("Exported %d elements to %s\n", len(report.Result.Elements), path)
		return nil
	}

	if analyzeJSON {
		return printJSON(cmd, report)
	}
	printReport(cmd, report)
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	analysis, err := analysisService.Inspect(cmd.Context(), inputName(args[0]), data)
	if err != nil {
		return fmt.Errorf("inspect failed: %w", err)
	}

	cmd.Printf("Pages:       %d\n", analysis.Pages)
	cmd.Printf("Lines:       %d\n", analysis.Lines)
	cmd.Printf("Words:       %d\n", analysis.Words)
	cmd.Printf("Confidence:  %.1f%%\n", analysis.AverageConfidence*100)
	if len(analysis.Languages) > 0 {
		cmd.Printf("Languages:   %s\n", strings.Join(analysis.Languages, ", "))
	}
	if analysis.IsHandwritten {
		cmd.Println("Handwriting: detected")
	}
	cmd.Println()
	cmd.Println(analysis.Content)
	return nil
}

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func inputName(path string) string {
	if path == "-" {
		return "stdin.txt"
	}
	return filepath.Base(path)
}

// writeExport renders result in format to out, or next to the source name.
func writeExport(result domain.AnalysisResult, format, out string) (string, error) {
	ext, err := exportService.Extension(format)
	if err != nil {
		return "", err
	}
	if out == "" {
		base := filepath.Base(result.SourceName)
		out = strings.TrimSuffix(base, filepath.Ext(base)) + ext
	}

	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", out, err)
	}
	if err := exportService.Render(format, result, f); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to export: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", out, err)
	}
	return out, nil
}

func printReport(cmd *cobra.Command, report *domain.AnalysisReport) {
	result := report.Result
	if result.IsEmpty() {
		cmd.Println("No elements extracted.")
		return
	}

	cmd.Printf("%s: %d elements from %d slices\n\n", result.SourceName, len(result.Elements), report.SliceCount)
	for i := range result.Elements {
		e := result.Elements[i]
		cmd.Printf("  [%d] %s (%s)\n", i+1, e.Title, e.Category)
		if len(e.Keywords) > 0 {
			cmd.Printf("      Keywords: %s\n", strings.Join(e.Keywords, ", "))
		}
		cmd.Printf("      %s\n\n", truncate(e.Content, 200))
	}

	if report.Partial() {
		cmd.Printf("Warning: %d of %d slices failed\n", len(report.FailedSlices), report.SliceCount)
	}
	if len(report.Summary.Categories) > 0 {
		cmd.Printf("Categories: %s\n", strings.Join(report.Summary.Categories, ", "))
	}
	cmd.Printf("Chunks generated: %d\n", report.Summary.TotalChunks)
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

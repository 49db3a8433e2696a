package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/matn/internal/adapters/driven/upload"
	"github.com/custodia-labs/matn/internal/core/domain"
)

var (
	checkText   string
	checkFormat string
	checkOut    string
	checkJSON   bool
)

var checkCmd = &cobra.Command{
	Use:   "check [file|-]",
	Short: "Check a document for mistakes",
	Long: `Check a .txt or .docx file, standard input or a --text string and print
the corrected text with changes marked.

Output formats:
  terminal     - coloured diff for the terminal (default when printing)
  plainMarked  - plain text with ~~removed~~ and [+added+] markers
  corrected    - the corrected text only
  richText     - .docx document with styled changes (requires --out)

Examples:
  matn check insho.docx
  matn check --text "Men maktabga bordim"
  cat insho.txt | matn check -
  matn check insho.docx --out insho-togrilangan.docx`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkText, "text", "t", "", "text to check instead of a file")
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "", "output format: terminal, plainMarked, corrected or richText")
	checkCmd.Flags().StringVarP(&checkOut, "out", "o", "", "write the result to a file")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the full analysis as JSON")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := checkOutputFormat(checkFormat, checkOut)
	if err != nil {
		return err
	}

	if err := initAnalysis(); err != nil {
		return requireLLM(err)
	}
	defer closeServices()
	initExport(cmd.OutOrStdout())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := analyseInput(ctx, cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	if checkJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(result.Runs) == 0 {
		cmd.PrintErrln("Nothing to correct.")
		return nil
	}

	file, err := exportService.Export(result.Runs, format)
	if err != nil {
		return err
	}

	if checkOut != "" {
		if err := os.WriteFile(checkOut, file.Content, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", checkOut, err)
		}
		cmd.PrintErrf("Wrote %s\n", checkOut)
	} else {
		out := string(file.Content)
		if !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		cmd.Print(out)
	}

	cmd.PrintErrf("%d correction(s)\n", len(result.Corrections))
	return nil
}

// analyseInput picks the --text flag, standard input or a file, in that order.
func analyseInput(ctx context.Context, stdin io.Reader, args []string) (*domain.AnalysisResult, error) {
	if checkText != "" {
		return analysisService.AnalyseText(ctx, checkText)
	}
	if len(args) == 0 {
		return nil, errors.New("give a file, '-' for standard input, or --text")
	}

	maxBytes := int64(domain.DefaultMaxUploadBytes)
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil && settings.Server.MaxUploadBytes > 0 {
			maxBytes = settings.Server.MaxUploadBytes
		}
	}

	if args[0] == "-" {
		raw, err := upload.ReadDocument(ctx, "", "stdin.txt", stdin, maxBytes)
		if err != nil {
			return nil, err
		}
		return analysisService.AnalyseText(ctx, string(raw.Content))
	}

	path := args[0]
	if domain.ClassifyFilename(path) == domain.VariantUnsupported {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	raw, err := upload.ReadDocument(ctx, "", filepath.Base(path), f, maxBytes)
	if err != nil {
		return nil, err
	}
	return analysisService.AnalyseFile(ctx, raw)
}

// checkOutputFormat resolves the output format from the flags.
// Without --format, a .docx output path selects richText, any other path
// plainMarked, and printing selects terminal.
func checkOutputFormat(flag, out string) (domain.ExportFormat, error) {
	if flag != "" {
		format, ok := domain.ParseExportFormat(flag)
		if !ok {
			return "", fmt.Errorf("%w: output format %q", domain.ErrUnsupportedType, flag)
		}
		if format == domain.ExportRichText && out == "" {
			return "", errors.New("richText output needs --out")
		}
		return format, nil
	}

	switch {
	case out == "":
		return domain.ExportTerminal, nil
	case strings.EqualFold(filepath.Ext(out), ".docx"):
		return domain.ExportRichText, nil
	default:
		return domain.ExportPlainMarked, nil
	}
}

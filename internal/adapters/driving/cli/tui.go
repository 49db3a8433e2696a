package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/matn/internal/adapters/driven/upload"
	"github.com/custodia-labs/matn/internal/adapters/driving/tui"
	"github.com/custodia-labs/matn/internal/core/domain"
	"github.com/custodia-labs/matn/internal/normalisers"
)

var tuiOutDir string

var tuiCmd = &cobra.Command{
	Use:   "tui [file]",
	Short: "Edit and check text interactively",
	Long: `Open an interactive editor. Type or load text, press ctrl+s to check it,
then review the changes and save them as .txt or .docx.

Examples:
  matn tui
  matn tui insho.docx --out-dir ./natijalar`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiOutDir, "out-dir", ".", "directory for saved files")
	rootCmd.AddCommand(tuiCmd)
}

// runTUIApp is swapped in tests to avoid starting a terminal program.
var runTUIApp = func(app *tui.App) error {
	return app.Run()
}

func runTUI(cmd *cobra.Command, args []string) error {
	if err := initAnalysis(); err != nil {
		return requireLLM(err)
	}
	defer closeServices()
	initExport(cmd.OutOrStdout())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var text, filename string
	if len(args) == 1 {
		filename = args[0]
		var err error
		if text, err = loadEditorText(ctx, filename); err != nil {
			return err
		}
	}

	app, err := tui.NewApp(tui.NewPorts(analysisService, exportService))
	if err != nil {
		return err
	}
	app.WithContext(ctx).WithText(text, filename).WithOutputDir(tuiOutDir)

	return runTUIApp(app)
}

// loadEditorText extracts the text of a .txt or .docx file.
func loadEditorText(ctx context.Context, path string) (string, error) {
	if domain.ClassifyFilename(path) == domain.VariantUnsupported {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	raw, err := upload.ReadDocument(ctx, "", filepath.Base(path), f, domain.DefaultMaxUploadBytes)
	if err != nil {
		return "", err
	}
	result, err := normalisers.NewDefaultRegistry().Normalise(ctx, raw)
	if err != nil {
		return "", err
	}
	return result.Document.RawText, nil
}

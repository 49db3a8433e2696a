package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	httpserver "github.com/custodia-labs/matn/internal/adapters/driving/http"
	"github.com/custodia-labs/matn/internal/logger"
)

var (
	serveAddr    string
	serveTempDir string
)

// promptWatcher is implemented by prompt stores that can reload on change.
type promptWatcher interface {
	Watch(ctx context.Context) error
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web interface",
	Long: `Start the HTTP server with the upload page and JSON API.

Endpoints:
  GET  /             upload page
  POST /api/analyze  check a file or text
  POST /api/export   download corrected runs as TXT or DOCX
  GET  /api/health   liveness probe

The address comes from --addr, then MATN_SERVER_ADDR, then PORT.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default :10000)")
	serveCmd.Flags().StringVar(&serveTempDir, "temp-dir", "", "directory for upload spooling")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := initAnalysis(); err != nil {
		return requireLLM(err)
	}
	defer closeServices()
	initExport(cmd.OutOrStdout())

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	addr := settings.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	server, err := httpserver.NewServer(analysisService, exportService,
		httpserver.WithAddr(addr),
		httpserver.WithMaxUploadBytes(settings.Server.MaxUploadBytes),
		httpserver.WithTempDir(serveTempDir),
	)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if w, ok := promptStore.(promptWatcher); ok {
		if err := w.Watch(ctx); err != nil {
			logger.Warn("prompt reload disabled: %v", err)
		}
	}

	logger.Info("matn listening on %s", addr)
	return server.Start(ctx)
}

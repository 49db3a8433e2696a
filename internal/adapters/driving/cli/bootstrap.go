package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/custodia-labs/matn/internal/adapters/driven/ai"
	"github.com/custodia-labs/matn/internal/adapters/driven/config/file"
	"github.com/custodia-labs/matn/internal/adapters/driven/config/memory"
	"github.com/custodia-labs/matn/internal/adapters/driven/oracle"
	"github.com/custodia-labs/matn/internal/core/domain"
	"github.com/custodia-labs/matn/internal/core/ports/driven"
	"github.com/custodia-labs/matn/internal/core/services"
	"github.com/custodia-labs/matn/internal/exporters"
	"github.com/custodia-labs/matn/internal/exporters/terminal"
	"github.com/custodia-labs/matn/internal/logger"
	"github.com/custodia-labs/matn/internal/normalisers"
	"github.com/custodia-labs/matn/internal/postprocessors/chunker"
)

// llmService is held so it can be closed on exit.
var llmService driven.LLMService

// initSettings builds the config store, prompt store and settings service.
// It does not touch the network.
func initSettings() error {
	if settingsService != nil {
		return nil
	}

	store, err := newConfigStore()
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	configStore = store

	if promptStore == nil {
		promptDir := ""
		if configDir != "" {
			promptDir = filepath.Join(configDir, "prompts")
		}
		prompts, err := file.NewPromptStore(promptDir)
		if err != nil {
			return fmt.Errorf("opening prompts: %w", err)
		}
		promptStore = prompts
	}

	settingsService = services.NewSettingsService(store, ai.NewConfigValidator())
	return nil
}

func newConfigStore() (driven.ConfigStore, error) {
	if noConfig {
		return memory.NewConfigStore(memory.WithLookup(file.LookupEnv)), nil
	}
	return file.NewConfigStore(configDir)
}

// initAnalysis builds the correction pipeline from the current settings.
// The language model is pinged once so a bad key fails fast.
func initAnalysis() error {
	if analysisService != nil {
		return nil
	}
	if err := initSettings(); err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	if err := settingsService.Validate(); err != nil {
		return err
	}

	llm, err := ai.CreateAndValidateLLMService(&settings.LLM)
	if err != nil {
		return err
	}
	llmService = llm
	logger.Debug("LLM ready: %s (%s)", settings.LLM.Provider, llm.ModelName())

	client := oracle.NewClient(llm, promptStore,
		oracle.WithProtocol(settings.Oracle.Protocol),
		oracle.WithRetryPolicy(settings.Oracle.Retry),
		oracle.WithRateLimiter(oracle.NewRateLimiter(settings.Oracle.RequestsPerSecond, settings.Oracle.Burst)),
	)

	analysisService = services.NewAnalysisService(
		client,
		chunker.New(chunker.WithMaxLength(settings.Chunking.MaxLength)),
		normalisers.NewDefaultRegistry(),
		services.WithSettings(*settings),
	)
	return nil
}

// initExport builds the export service. The terminal exporter renders for w.
func initExport(w io.Writer) {
	if exportService != nil {
		return
	}
	registry := exporters.NewRegistry()
	exporters.RegisterDefaults(registry)
	registry.Register(terminal.New(
		terminal.WithRenderer(newRenderer(w)),
		terminal.WithColor(colorEnabled(w)),
	))
	exportService = services.NewExportService(registry)
}

// closeServices releases the language model client.
func closeServices() {
	if llmService != nil {
		if err := llmService.Close(); err != nil {
			logger.Debug("closing LLM: %v", err)
		}
		llmService = nil
	}
}

func newRenderer(w io.Writer) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if !colorEnabled(w) {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

// colorEnabled reports whether w is a terminal and NO_COLOR is unset.
func colorEnabled(w io.Writer) bool {
	if termenv.EnvNoColor() {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// requireLLM wraps a pipeline setup error with a hint for the user.
func requireLLM(err error) error {
	if errors.Is(err, domain.ErrLLMUnavailable) {
		return fmt.Errorf("%w\nRun 'matn config llm' to choose a provider", err)
	}
	return err
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/matn/internal/core/domain"
	"github.com/custodia-labs/matn/internal/core/ports/driven"
	"github.com/custodia-labs/matn/internal/core/ports/driving"
	"github.com/custodia-labs/matn/internal/differ"
	"github.com/custodia-labs/matn/internal/logger"
	"github.com/custodia-labs/matn/internal/reconciler"
)

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

// paragraphSeparator joins rewritten chunks.
const paragraphSeparator = "\n\n"

// AnalysisService runs documents through chunking, correction, reconciliation and diffing.
type AnalysisService struct {
	oracle      driven.Oracle
	chunker     driven.Chunker
	normalisers driven.NormaliserRegistry

	minLength     int
	concurrency   int
	failurePolicy domain.FailurePolicy
}

// AnalysisOption configures an AnalysisService.
type AnalysisOption func(*AnalysisService)

// WithMinLength sets the minimum trimmed text length in characters.
func WithMinLength(n int) AnalysisOption {
	return func(s *AnalysisService) {
		if n >= 0 {
			s.minLength = n
		}
	}
}

// WithConcurrency bounds the number of chunks corrected at once.
func WithConcurrency(n int) AnalysisOption {
	return func(s *AnalysisService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithFailurePolicy selects what happens when a chunk cannot be corrected.
func WithFailurePolicy(p domain.FailurePolicy) AnalysisOption {
	return func(s *AnalysisService) {
		if p.IsValid() {
			s.failurePolicy = p
		}
	}
}

// WithSettings applies the analysis and oracle settings.
func WithSettings(settings domain.AppSettings) AnalysisOption {
	return func(s *AnalysisService) {
		WithMinLength(settings.Analysis.MinLength)(s)
		WithConcurrency(settings.Oracle.Concurrency)(s)
		WithFailurePolicy(settings.Oracle.FailurePolicy)(s)
	}
}

// NewAnalysisService creates a new analysis service.
// The normaliser registry is optional; without it AnalyseFile fails.
func NewAnalysisService(
	oracle driven.Oracle,
	chunker driven.Chunker,
	normalisers driven.NormaliserRegistry,
	opts ...AnalysisOption,
) *AnalysisService {
	s := &AnalysisService{
		oracle:        oracle,
		chunker:       chunker,
		normalisers:   normalisers,
		minLength:     domain.DefaultMinTextLength,
		concurrency:   1,
		failurePolicy: domain.FailureAbort,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyseText checks typed or pasted text.
func (s *AnalysisService) AnalyseText(ctx context.Context, text string) (*domain.AnalysisResult, error) {
	return s.Analyse(ctx, &domain.Document{
		RawText:      text,
		SourceFormat: domain.SourceFormatPlain,
		Input:        domain.InputText,
	})
}

// AnalyseFile extracts text from an uploaded file and checks it.
func (s *AnalysisService) AnalyseFile(ctx context.Context, raw *domain.RawDocument) (*domain.AnalysisResult, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: no document", domain.ErrInvalidInput)
	}
	if s.normalisers == nil {
		return nil, fmt.Errorf("%w: no document readers configured", domain.ErrUnsupportedFormat)
	}

	result, err := s.normalisers.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", raw.Filename, err)
	}

	doc := result.Document
	return s.Analyse(ctx, &doc)
}

// Analyse checks an already ingested document.
func (s *AnalysisService) Analyse(ctx context.Context, doc *domain.Document) (*domain.AnalysisResult, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: no document", domain.ErrInvalidInput)
	}
	if s.oracle == nil || s.chunker == nil {
		return nil, domain.ErrLLMUnavailable
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(doc.RawText)); n == 0 || n < s.minLength {
		return nil, domain.ErrEmptyInput
	}

	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	log := logger.With(zap.String("doc", doc.ID))

	chunks := s.chunker.Chunk(doc.RawText)
	log.Debug("chunked document",
		zap.Int("chunks", len(chunks)),
		zap.Int("chars", utf8.RuneCountInString(doc.RawText)),
		zap.String("protocol", string(s.oracle.Protocol())),
	)

	corrected, records, err := s.correctChunks(ctx, log, chunks)
	if err != nil {
		log.Warn("analysis failed", zap.Error(err))
		return nil, err
	}

	result := &domain.AnalysisResult{
		ID:          doc.ID,
		Original:    doc.RawText,
		Corrected:   corrected,
		Runs:        differ.Diff(doc.RawText, corrected),
		Corrections: records,
		Input:       doc.Input,
		Filename:    doc.DisplayName,
	}

	log.Info("analysis complete",
		zap.Int("runs", len(result.Runs)),
		zap.Int("corrections", len(result.Corrections)),
	)
	return result, nil
}

// chunkResult is the reconciled text of one chunk and the records that changed it.
type chunkResult struct {
	text    string
	applied []domain.CorrectionRecord
}

// correctChunks sends every chunk to the oracle through a bounded pool and
// joins the reconciled texts in chunk order.
func (s *AnalysisService) correctChunks(
	ctx context.Context,
	log *zap.Logger,
	chunks []domain.Chunk,
) (string, []domain.CorrectionRecord, error) {
	results := make([]chunkResult, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i := range chunks {
		i, chunk := i, chunks[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			outcome, err := s.oracle.Correct(gctx, chunk)
			if err != nil {
				if s.failurePolicy == domain.FailureKeepOriginal && ctx.Err() == nil {
					log.Warn("keeping original chunk",
						zap.Int("chunk", chunk.Index),
						zap.Error(err),
					)
					results[i] = chunkResult{text: chunk.Text}
					return nil
				}
				return err
			}

			results[i] = reconcileChunk(chunk.Text, outcome)
			log.Debug("chunk corrected", zap.Int("chunk", chunk.Index))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			return "", nil, fmt.Errorf("%w: %w", ctxErr, err)
		}
		return "", nil, err
	}

	var records []domain.CorrectionRecord
	for _, r := range results {
		records = append(records, r.applied...)
	}
	if records == nil {
		records = []domain.CorrectionRecord{}
	}

	return joinCorrected(chunks, results, s.oracle.Protocol()), records, nil
}

// reconcileChunk applies one oracle outcome to the chunk text.
func reconcileChunk(original string, outcome domain.OracleOutcome) chunkResult {
	if outcome.Kind() == domain.OutcomeFullText {
		return chunkResult{text: reconciler.Reconcile(original, outcome)}
	}
	text, applied := reconciler.Applied(original, outcome.CorrectionRecords())
	return chunkResult{text: text, applied: applied}
}

// joinCorrected reassembles the document.
//
// Structured corrections edit the chunk text in place, so the original
// separators are kept. Rewritten chunks lose control over trailing
// newlines; they are normalised to the chunk's own and chunks are joined
// by a blank line.
func joinCorrected(chunks []domain.Chunk, results []chunkResult, protocol domain.Protocol) string {
	var b strings.Builder
	for i, chunk := range chunks {
		text := results[i].text
		sep := chunk.Separator
		if protocol == domain.ProtocolRewrite {
			text = strings.TrimRight(text, "\r\n") + trailingNewlines(chunk.Text)
			if sep != "" {
				sep = paragraphSeparator
			}
		}
		b.WriteString(text)
		b.WriteString(sep)
	}
	return b.String()
}

func trailingNewlines(s string) string {
	return s[len(strings.TrimRight(s, "\r\n")):]
}

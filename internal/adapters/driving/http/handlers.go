package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/custodia-labs/matn/internal/adapters/driven/upload"
	"github.com/custodia-labs/matn/internal/core/domain"
	"github.com/custodia-labs/matn/internal/logger"
)

// multipartMemory is the part of a multipart form kept in memory;
// larger files go to temporary files removed after the request.
const multipartMemory = 1 << 20

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	ID          string                    `json:"id"`
	Original    string                    `json:"original"`
	Corrected   string                    `json:"corrected"`
	Runs        []domain.AnnotatedRun     `json:"runs"`
	Corrections []domain.CorrectionRecord `json:"corrections"`
	InputFormat domain.InputKind          `json:"inputFormat"`
	Filename    string                    `json:"filename,omitempty"`
}

type exportRequest struct {
	Runs     []domain.AnnotatedRun `json:"runs"`
	Format   string                `json:"format"`
	BaseName string                `json:"baseName"`
}

// handleAnalyze accepts a multipart file, a form or JSON text field.
// A file takes precedence over text.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+formOverhead)

	result, err := s.analyse(r)
	if err != nil {
		if r.Context().Err() != nil {
			logger.Debug("client went away: %v", err)
			return
		}
		writeError(w, err)
		return
	}

	resp := analyzeResponse{
		ID:          result.ID,
		Original:    result.Original,
		Corrected:   result.Corrected,
		Runs:        result.Runs,
		Corrections: result.Corrections,
		InputFormat: result.Input,
		Filename:    result.Filename,
	}
	if resp.Runs == nil {
		resp.Runs = []domain.AnnotatedRun{}
	}
	if resp.Corrections == nil {
		resp.Corrections = []domain.CorrectionRecord{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) analyse(r *http.Request) (*domain.AnalysisResult, error) {
	ctx := r.Context()
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json":
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, requestError(err)
		}
		return s.analysis.AnalyseText(ctx, req.Text)

	case "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return nil, requestError(err)
		}
		defer func() {
			_ = r.MultipartForm.RemoveAll()
		}()

		file, header, err := r.FormFile("file")
		switch {
		case err == nil:
			defer file.Close()
			return s.analyseUpload(ctx, header.Filename, file)
		case !errors.Is(err, http.ErrMissingFile):
			return nil, requestError(err)
		}
		return s.analysis.AnalyseText(ctx, r.FormValue("text"))

	default:
		if err := r.ParseForm(); err != nil {
			return nil, requestError(err)
		}
		return s.analysis.AnalyseText(ctx, r.PostFormValue("text"))
	}
}

// analyseUpload rejects unknown extensions before reading the file.
func (s *Server) analyseUpload(ctx context.Context, filename string, r io.Reader) (*domain.AnalysisResult, error) {
	if domain.ClassifyFilename(filename) == domain.VariantUnsupported {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filename)
	}

	raw, err := upload.ReadDocument(ctx, s.tempDir, filepath.Base(filename), r, s.maxUploadBytes)
	if err != nil {
		return nil, err
	}
	return s.analysis.AnalyseFile(ctx, raw)
}

// handleExport renders runs as a downloadable attachment.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 4*s.maxUploadBytes+formOverhead)

	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, requestError(err))
		return
	}

	format := domain.ExportPlainMarked
	if req.Format != "" {
		f, ok := domain.ParseExportFormat(req.Format)
		if !ok {
			writeError(w, fmt.Errorf("%w: export format %q", domain.ErrUnsupportedType, req.Format))
			return
		}
		format = f
	}

	file, err := s.export.Export(req.Runs, format)
	if err != nil {
		writeError(w, err)
		return
	}

	name := BaseName(req.BaseName) + file.Extension
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Content)
}

// requestError classifies a body decoding failure.
func requestError(err error) error {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return fmt.Errorf("%w: %w", domain.ErrOversizedInput, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
}

// BaseName cleans a client supplied download name.
// Path separators and reserved characters become underscores, a trailing
// export extension is dropped, and an empty result falls back to DefaultBaseName.
func BaseName(name string) string {
	name = strings.TrimSpace(name)
	for _, ext := range []string{".txt", ".docx"} {
		if strings.HasSuffix(strings.ToLower(name), ext) {
			name = name[:len(name)-len(ext)]
			break
		}
	}

	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || strings.ContainsRune(`/\:*?"<>|`, r) {
			return '_'
		}
		return r
	}, name)

	name = strings.Trim(name, " .")
	if name == "" {
		return DefaultBaseName
	}
	return name
}

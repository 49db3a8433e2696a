package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/custodia-labs/matn/internal/core/domain"
	"github.com/custodia-labs/matn/internal/logger"
)

// Constructor errors.
var (
	ErrMissingAnalysisService = errors.New("http: analysis service is required")
	ErrMissingExportService   = errors.New("http: export service is required")
)

// User-facing messages.
const (
	msgEmptyInput        = "Matn topilmadi"
	msgUnsupportedFormat = "Faqat TXT yoki DOCX fayl yuklang."
	msgOversized         = "Fayl hajmi juda katta (10MB gacha)."
	msgBadRequest        = "Noto‘g‘ri so‘rov."
	msgEmptyExport       = "Eksport uchun natija yo‘q."
	msgUnknownFormat     = "Noma’lum eksport formati."
	msgServerError       = "Server xatosi"
)

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, domain.ErrOversizedInput), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrEmptyInput),
		errors.Is(err, domain.ErrUnsupportedFormat),
		errors.Is(err, domain.ErrEmptyExport),
		errors.Is(err, domain.ErrUnsupportedType),
		errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// messageFor returns the short message shown to the user.
// Internal details stay in the log.
func messageFor(err error) string {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, domain.ErrOversizedInput), errors.As(err, &maxBytes):
		return msgOversized
	case errors.Is(err, domain.ErrEmptyInput):
		return msgEmptyInput
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return msgUnsupportedFormat
	case errors.Is(err, domain.ErrEmptyExport):
		return msgEmptyExport
	case errors.Is(err, domain.ErrUnsupportedType):
		return msgUnknownFormat
	case errors.Is(err, domain.ErrInvalidInput):
		return msgBadRequest
	default:
		return msgServerError
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError writes {"error": ...} with the mapped status.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed: %v", err)
	} else {
		logger.Debug("request rejected: %v", err)
	}
	writeJSON(w, status, errorResponse{Error: messageFor(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

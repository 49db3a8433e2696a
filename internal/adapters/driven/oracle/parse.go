package oracle

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/matn/internal/core/domain"
)

// wireRecord is one correction as the model writes it.
type wireRecord struct {
	Wrong   string `json:"wrong"`
	Correct string `json:"correct"`
	Kind    string `json:"kind"`
	Reason  string `json:"reason"`
}

type wireResponse struct {
	Corrections []wireRecord `json:"corrections"`
}

// ParseRecords decodes a structured response body.
// It accepts {"corrections":[...]} or a bare array, optionally wrapped in a
// markdown code fence. Records with an empty wrong or correct are dropped.
func ParseRecords(body string) ([]domain.CorrectionRecord, error) {
	cleaned := stripMarkdown(body)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty body", domain.ErrMalformedOracleResponse)
	}

	var wire []wireRecord
	switch cleaned[0] {
	case '{':
		var resp wireResponse
		if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrMalformedOracleResponse, err)
		}
		wire = resp.Corrections
	case '[':
		if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrMalformedOracleResponse, err)
		}
	default:
		return nil, fmt.Errorf("%w: not JSON", domain.ErrMalformedOracleResponse)
	}

	records := make([]domain.CorrectionRecord, 0, len(wire))
	for _, w := range wire {
		if w.Wrong == "" || w.Correct == "" {
			continue
		}
		records = append(records, domain.CorrectionRecord{
			Wrong:   w.Wrong,
			Correct: w.Correct,
			Kind:    domain.ParseCorrectionKind(w.Kind),
			Reason:  strings.TrimSpace(w.Reason),
		})
	}
	return records, nil
}

// stripMarkdown removes optional markdown code fences (```json ... ```) that
// some models wrap around JSON output.
func stripMarkdown(s string) string {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"```json", "```JSON", "```"} {
		if after, ok := strings.CutPrefix(s, prefix); ok {
			s = after
			break
		}
	}
	if before, ok := strings.CutSuffix(s, "```"); ok {
		s = before
	}
	return strings.TrimSpace(s)
}

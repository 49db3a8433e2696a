package domain

import "strings"

// CorrectionKind categorises a correction record.
type CorrectionKind string

// Available correction kinds.
const (
	CorrectionSpelling CorrectionKind = "spelling"
	CorrectionGrammar  CorrectionKind = "grammar"
	CorrectionStyle    CorrectionKind = "style"
)

// IsValid returns true if the kind is recognised.
func (k CorrectionKind) IsValid() bool {
	switch k {
	case CorrectionSpelling, CorrectionGrammar, CorrectionStyle:
		return true
	default:
		return false
	}
}

// ParseCorrectionKind normalises an oracle-supplied kind.
// Unknown or missing kinds fall back to grammar.
func ParseCorrectionKind(s string) CorrectionKind {
	k := CorrectionKind(strings.ToLower(strings.TrimSpace(s)))
	if k.IsValid() {
		return k
	}
	return CorrectionGrammar
}

// CorrectionRecord is a surface-form substitution proposed by the oracle.
// Wrong is located in the text by the reconciler; it is not a position.
type CorrectionRecord struct {
	Wrong   string         `json:"wrong"`
	Correct string         `json:"correct"`
	Kind    CorrectionKind `json:"kind"`
	Reason  string         `json:"reason,omitempty"`
}

// IsNoop reports whether applying the record cannot change any text.
func (r CorrectionRecord) IsNoop() bool {
	return r.Wrong == "" || r.Correct == "" || r.Wrong == r.Correct
}

// OutcomeKind tags an OracleOutcome.
type OutcomeKind int

const (
	// OutcomeFullText carries a rewritten chunk.
	OutcomeFullText OutcomeKind = iota

	// OutcomeRecords carries discrete correction records.
	OutcomeRecords
)

// OracleOutcome is the parsed response for one chunk.
// Construct it with FullText or Records.
type OracleOutcome struct {
	kind    OutcomeKind
	text    string
	records []CorrectionRecord
}

// FullText returns an outcome holding a fully rewritten chunk.
func FullText(text string) OracleOutcome {
	return OracleOutcome{kind: OutcomeFullText, text: text}
}

// Records returns an outcome holding correction records.
func Records(records []CorrectionRecord) OracleOutcome {
	return OracleOutcome{kind: OutcomeRecords, records: records}
}

// Kind reports which variant the outcome holds.
func (o OracleOutcome) Kind() OutcomeKind {
	return o.kind
}

// Text returns the rewritten chunk. Only meaningful for OutcomeFullText.
func (o OracleOutcome) Text() string {
	return o.text
}

// CorrectionRecords returns the records. Only meaningful for OutcomeRecords.
func (o OracleOutcome) CorrectionRecords() []CorrectionRecord {
	return o.records
}

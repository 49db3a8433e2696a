// Package domain defines the core business entities for matn.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: Text accepted for analysis (upload or typed text)
//   - Chunk: A bounded unit of work sent to the correction oracle
//   - CorrectionRecord: A discrete wrong -> correct substitution
//   - OracleOutcome: Either a rewritten chunk or a list of records
//   - AnnotatedRun: A same/removed/added span produced by the differ
//   - AnalysisResult: Original, corrected text and the runs between them
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

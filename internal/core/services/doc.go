// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// AnalysisService owns the correction pipeline: chunking, bounded
// concurrent oracle calls, reconciliation and diffing. It holds no
// state between requests.
package services

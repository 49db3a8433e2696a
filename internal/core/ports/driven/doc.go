// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - Chunker: Splits document text into bounded chunks
//   - Oracle: Obtains corrections for one chunk
//   - RateLimiter: Throttles outbound oracle calls
//   - LLMService: Chat completion transport behind the Oracle
//   - Normaliser: Extracts text from an uploaded file
//   - NormaliserRegistry: Selects the normaliser by extension
//   - Exporter: Serialises annotated runs
//   - ExporterRegistry: Selects the exporter by format
//   - ConfigStore: Application configuration
//   - PromptStore: Editable oracle instructions
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven

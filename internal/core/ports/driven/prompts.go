package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found on disk, implementations return the embedded default.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptCorrectRewrite instructs the oracle to return the corrected chunk only.
	// This prompt has no format placeholders.
	PromptCorrectRewrite = "correct_rewrite"

	// PromptCorrectStructured instructs the oracle to return a JSON list of corrections.
	// This prompt has no format placeholders.
	PromptCorrectStructured = "correct_structured"
)

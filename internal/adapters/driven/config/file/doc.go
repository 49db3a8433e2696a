// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under the matn config directory (~/.matn).
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage with MATN_* environment overrides
//   - PromptStore: user-editable oracle prompts with hot reload
package file

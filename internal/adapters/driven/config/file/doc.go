// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage with environment overrides
//   - LoadDotEnv / EnvOverrides: .env loading and variable to key mapping
//   - PromptFile: user-editable analysis system prompt
package file

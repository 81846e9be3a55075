// Package config loads, validates, and persists vidscribe's TOML
// configuration.
//
// The file lives at ~/.config/vidscribe/config.toml unless --config points
// elsewhere. Missing files are not an error: Load returns repository defaults
// and reports exists=false so callers can suggest `vidscribe config init`.
// Values resolve in the order explicit flag > persisted config > built-in
// default; the Resolve helpers encode that precedence for the CLI.
//
// Set and Save operate on the raw file contents so environment fallbacks
// (HF_TOKEN and friends) and expanded paths are never written back to disk.
package config

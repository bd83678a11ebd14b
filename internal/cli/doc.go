// Package cli defines the Cobra command tree for the debugtags CLI. Each file
// in this package registers one top-level command (panel, tags, config,
// version) with the root command. Command implementations delegate to
// internal packages for the tag logic and only handle flag parsing, I/O
// formatting and operator interaction.
package cli

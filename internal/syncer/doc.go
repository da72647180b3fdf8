// Package syncer wires a destination volume's documents, the source
// catalog and the engine into one coordinator shared by the CLI and
// the TUI.
package syncer

// Package cli implements the netlayout command-line interface.
//
// The commands generate synthetic networks, lay them out, render them and
// serve layout sessions over HTTP. The CLI is built using cobra and logs
// through charmbracelet/log.
//
// # Commands
//
//   - generate: write a lattice, random, hierarchy or scale-free network
//   - layout: compute positions and write the positioned network
//   - render: lay out and draw to SVG, PNG, DOT or JSON, optionally with
//     animation frames
//   - watch: run a session interactively on a bubbletea event loop
//   - serve: host sessions behind the HTTP API
//   - cache: clear or locate the layout and artifact cache
//
// # Configuration
//
// Settings come from defaults, then the --config file (TOML or YAML), then
// NETLAYOUT_* environment variables, which may also be set in a .env file.
// Command flags override all three.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports layout passes.
package cli

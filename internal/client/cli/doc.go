// Package cli provides the interactive STAKR command-line client.
//
// It wires configuration, the HTTP API client and an interactive REPL.
// Typical flow: start a background connectivity watcher, then register or
// log in and inspect the current account.
//
// Key features:
//   - Register (email, password, optional profile)
//   - Login / Logout; the access token is kept in memory only
//   - Me: show the authenticated account
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli

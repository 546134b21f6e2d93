// Package cli provides the interactive MemoryMap command-line client.
//
// It wires configuration, local storage, the API adapter and the client
// services into a REPL. At startup the persisted session is restored and the
// current user's preferences are loaded; a background watcher pings the
// API and reports online/offline transitions.
//
// Commands:
//   - register / login / logout, resume (finish a registration left pending)
//   - profile, edit (username, email, avatar file)
//   - prefs, set <field> <value>, reset
//   - theme [light|dark], language [en|vi]
//   - entries, addentry
//   - forget (wipe everything stored on this device)
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli

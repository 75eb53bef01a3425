// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the engine to function:
//
//   - DocumentSource: Opens decks and rasterizes pages (external renderer)
//   - SessionStore: Last-session persistence
//   - DisplayEnumerator: Lists available screens
//
// # Optional Interfaces
//
// These can be nil - the engine degrades gracefully:
//
//   - HistoryStore: Per-deck resume positions and run log. Without it,
//     resume falls back to the session store only.
//
// # Import Rules
//
//   - Can Import: domain package and the standard library only
//   - Cannot Import: Any adapter package
package driven

// Package driving defines the interfaces external actors use to drive the core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// UI adapters (TUI, CLI) call these interfaces; the engine implements
// them. The UI never mutates presentation state directly - it submits
// commands and renders the notifications fanned out to its Listener.
//
// # Import Rules
//
//   - Can Import: domain package and the standard library only
//   - Cannot Import: Any adapter package
package driving

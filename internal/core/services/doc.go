// Package services implements the driving port interfaces.
// Services contain the core engine logic - the presentation state
// machine, the slide cache and the notes watcher - and orchestrate
// calls to driven ports (adapters).
package services

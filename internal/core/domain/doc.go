// Package domain defines the core business entities for duoslide.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An open presentation (path + page count)
//   - PresentationState: The authoritative slide/mode/timing model
//   - Session: Persisted last-session values
//   - Screen: A physical display usable for the audience window
//   - Rect/Point/Size: Letterbox geometry and pointer mapping
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

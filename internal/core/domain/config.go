package domain

// EngineConfig holds the tunables of the rendering engine. The shape
// of the cache policy (LRU + pinning) is fixed; the numbers are not.
type EngineConfig struct {
	// CacheBudgetBytes bounds resident bitmap memory in the slide cache.
	CacheBudgetBytes int64

	// PinRadius is how many slides around the current one stay pinned
	// while presenting. Radius 1 pins {previous, current, next}.
	PinRadius int

	// SavesPerSecond is the sustained rate of session saves triggered
	// by slide changes. Open and stop always save regardless.
	SavesPerSecond float64

	// SaveBurst is the save limiter burst size.
	SaveBurst int
}

// DefaultEngineConfig returns config with sensible defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		CacheBudgetBytes: 256 << 20, // 256 MiB of rendered slides
		PinRadius:        1,
		SavesPerSecond:   1.0,
		SaveBurst:        2,
	}
}

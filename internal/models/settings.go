package models

// Settings is the parsed txrecipe.toml processor configuration.
type Settings struct {
	CloneTimeoutSec    float64     `toml:"clone_timeout_sec"`    // default: 300.0
	CheckoutTimeoutSec float64     `toml:"checkout_timeout_sec"` // default: 60.0
	DownloadTimeoutSec float64     `toml:"download_timeout_sec"` // default: 30.0
	DownloadChunkSize  string      `toml:"download_chunk_size"`  // default: "8K"
	Retry              RetryPolicy `toml:"retry"`
}

// RetryPolicy controls the fetch engine's backoff loop.
type RetryPolicy struct {
	MaxAttempts    int     `toml:"max_attempts"`
	InitialDelayMs int     `toml:"initial_delay_ms"`
	MaxDelayMs     int     `toml:"max_delay_ms"`
	Multiplier     float64 `toml:"multiplier"`
}

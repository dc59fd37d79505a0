// Package config defines service configuration and loading.
//
// Conventions follow the rest of the codebase: defaults live in New,
// loading layers file and environment on top, and callers receive a fully
// validated Config value.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatabaseURL is the Postgres DSN for the profile store. Empty runs
	// the engine against an in-memory store (useful for local work).
	DatabaseURL string `koanf:"database_url"`

	// RedisAddr selects the Redis match cache backend. Empty uses the
	// in-process memory cache.
	RedisAddr string `koanf:"redis_addr"`

	// CacheTTLSeconds is how long ranked results stay valid.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// CandidateLimit bounds the filtered candidate fetch per request.
	CandidateLimit int `koanf:"candidate_limit"`

	// FallbackLimit bounds the unfiltered fetch after a filter failure.
	FallbackLimit int `koanf:"fallback_limit"`

	// OverfetchFactor controls cache over-fetch relative to page size.
	OverfetchFactor int `koanf:"overfetch_factor"`

	// ScoreWorkers caps the per-request scoring fan-out.
	ScoreWorkers int `koanf:"score_workers"`

	// StoreTimeoutMS bounds each profile store call.
	StoreTimeoutMS int `koanf:"store_timeout_ms"`

	// StoreRateLimit and StoreRateBurst throttle store calls.
	StoreRateLimit float64 `koanf:"store_rate_limit"`
	StoreRateBurst int     `koanf:"store_rate_burst"`

	// MaxMatchLimit caps GET /matches?limit.
	MaxMatchLimit int `koanf:"max_match_limit"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":8080",
		CacheTTLSeconds: 300,
		CandidateLimit:  50,
		FallbackLimit:   20,
		OverfetchFactor: 2,
		ScoreWorkers:    8,
		StoreTimeoutMS:  2000,
		StoreRateLimit:  200,
		StoreRateBurst:  50,
		MaxMatchLimit:   50,
	}
}

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "fieldnotes/0.1 (mailto:someone@example.org)").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ResolverConfig holds settings for the citation resolver.
type ResolverConfig struct {
	HTTPConfig `yaml:",inline"`

	// Style is the citation style requested from the content negotiation
	// service (default "apa").
	Style string `json:"style" yaml:"style"`

	// Locale is the citation locale (default "en-US").
	Locale string `json:"locale" yaml:"locale"`

	// RequestDelay is the delay between consecutive lookups (default 1s).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`

	// MaxRetries is the number of retry attempts on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// PlusToken is an optional Crossref Metadata Plus token for higher
	// rate limits.
	PlusToken string `json:"plus_token,omitempty" yaml:"plus_token,omitempty"`

	// CacheDir, when non-empty, enables the on-disk resolution cache.
	CacheDir string `json:"cache_dir,omitempty" yaml:"cache_dir,omitempty"`
}

// Config groups all component configurations.
type Config struct {
	Resolver ResolverConfig `json:"resolver" yaml:"resolver"`
}

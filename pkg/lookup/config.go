package lookup

import (
	"time"
)

// DefaultRFCURLTemplate is the RFC metadata endpoint; %s is the RFC number.
const DefaultRFCURLTemplate = "https://www.rfc-editor.org/rfc/rfc%s.json"

// DefaultDraftURLTemplate is the draft metadata endpoint; %s is the draft name.
const DefaultDraftURLTemplate = "https://datatracker.ietf.org/doc/%s/doc.json"

// DefaultDownrefURL is the downref registry page.
const DefaultDownrefURL = "https://datatracker.ietf.org/doc/downref/"

// DefaultUserAgent is the User-Agent header sent with lookup requests.
const DefaultUserAgent = "draftcheck/1.0"

// DefaultRateLimit is the default minimum interval between HTTP requests.
const DefaultRateLimit = 200 * time.Millisecond

// DefaultTimeout is the default per-request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultCacheTTL is the default time-to-live for cached lookups.
const DefaultCacheTTL = 24 * time.Hour

// DefaultCacheSize is the default number of lookups kept in memory.
const DefaultCacheSize = 4096

// Config holds configuration for a lookup Client.
type Config struct {
	// RFCURLTemplate and DraftURLTemplate are fmt templates taking the
	// RFC number or draft name.
	RFCURLTemplate   string
	DraftURLTemplate string

	// DownrefURL is fetched once and scanned for RFC numbers.
	DownrefURL string

	// RateLimit is the minimum interval between HTTP requests.
	RateLimit time.Duration

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// CacheTTL is the time-to-live of both the memory and disk caches.
	CacheTTL time.Duration

	// CacheSize bounds the in-memory cache.
	CacheSize int

	// CacheDir is the directory for persistent caching.
	// If empty, disk caching is disabled.
	CacheDir string

	// UserAgent is the User-Agent header sent with requests.
	UserAgent string

	// Offline makes every lookup fail with ErrOffline without network access.
	Offline bool

	// HTTPClient is the underlying HTTP client used for requests.
	// If nil, an *http.Client with Timeout is used.
	HTTPClient HTTPClient
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RFCURLTemplate:   DefaultRFCURLTemplate,
		DraftURLTemplate: DefaultDraftURLTemplate,
		DownrefURL:       DefaultDownrefURL,
		RateLimit:        DefaultRateLimit,
		Timeout:          DefaultTimeout,
		CacheTTL:         DefaultCacheTTL,
		CacheSize:        DefaultCacheSize,
		UserAgent:        DefaultUserAgent,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.RFCURLTemplate == "" {
		c.RFCURLTemplate = d.RFCURLTemplate
	}
	if c.DraftURLTemplate == "" {
		c.DraftURLTemplate = d.DraftURLTemplate
	}
	if c.DownrefURL == "" {
		c.DownrefURL = d.DownrefURL
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = d.CacheTTL
	}
	if c.CacheSize <= 0 {
		c.CacheSize = d.CacheSize
	}
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}
	return c
}

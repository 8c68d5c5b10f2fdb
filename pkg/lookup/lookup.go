// Package lookup resolves RFC and Internet-Draft metadata and the downref
// registry from the IETF web services, with a process-wide cache and an
// offline bypass.
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"

	"github.com/coolbeans/draftcheck/pkg/extract"
)

var (
	// ErrNotFound is returned for an RFC or draft the service does not know.
	ErrNotFound = errors.New("document not found")

	// ErrOffline is returned by every lookup of an offline client.
	ErrOffline = errors.New("lookup disabled in offline mode")
)

// maxBodySize bounds a single response body.
const maxBodySize = 8 << 20

var registryRFCPattern = regexp.MustCompile(`\bRFC\s?(\d{1,5})\b`)

// Info is the metadata of one RFC or draft.
type Info struct {
	ID          string   `json:"id"`
	Status      string   `json:"status,omitempty"`
	ObsoletedBy []string `json:"obsoleted_by"`
	UpdatedBy   []string `json:"updated_by"`
}

// Service looks up document metadata.
type Service interface {
	// RFC returns the metadata of an RFC given its number.
	RFC(ctx context.Context, number string) (*Info, error)

	// Draft returns the metadata of an Internet-Draft given its name.
	Draft(ctx context.Context, name string) (*Info, error)

	// Downrefs returns the subset of refs (RFC numbers) listed in the
	// downref registry.
	Downrefs(ctx context.Context, refs []string) ([]string, error)
}

// Client implements Service over HTTP.
type Client struct {
	config     Config
	httpClient HTTPClient
	memory     *expirable.LRU[string, cacheEntry]
	disk       *DiskCache

	registryMu sync.Mutex
	registry   map[string]bool
}

// NewClient creates a lookup client. If config.HTTPClient is nil, an
// *http.Client with config.Timeout is used. Requests are rate limited when
// config.RateLimit is positive.
func NewClient(config Config) (*Client, error) {
	config = config.withDefaults()

	underlying := config.HTTPClient
	if underlying == nil {
		underlying = &http.Client{Timeout: config.Timeout}
	}
	if config.RateLimit > 0 {
		underlying = NewRateLimitedHTTPClient(underlying, config.RateLimit)
	}

	client := &Client{
		config:     config,
		httpClient: underlying,
		memory:     newMemoryCache(config.CacheSize, config.CacheTTL),
	}

	if config.CacheDir != "" {
		disk, err := NewDiskCache(config.CacheDir, config.CacheTTL)
		if err != nil {
			return nil, err
		}
		client.disk = disk
	}

	return client, nil
}

// Offline reports whether the client performs no lookups.
func (client *Client) Offline() bool {
	return client.config.Offline
}

// rfcDocument is the subset of the RFC editor JSON record used here.
type rfcDocument struct {
	DocID       string   `json:"doc_id"`
	Status      string   `json:"status"`
	ObsoletedBy []string `json:"obsoleted_by"`
	UpdatedBy   []string `json:"updated_by"`
}

// draftDocument is the subset of the datatracker JSON record used here.
type draftDocument struct {
	Name             string `json:"name"`
	StdLevel         string `json:"std_level"`
	IntendedStdLevel string `json:"intended_std_level"`
}

// RFC returns the metadata of RFC number.
func (client *Client) RFC(ctx context.Context, number string) (*Info, error) {
	number = extract.NormalizeRFCNumber(number)
	if number == "" {
		return nil, fmt.Errorf("%w: empty RFC number", ErrNotFound)
	}

	return client.cached(ctx, "rfc:"+number, func(ctx context.Context) (*Info, error) {
		var doc rfcDocument
		if err := client.getJSON(ctx, fmt.Sprintf(client.config.RFCURLTemplate, number), &doc); err != nil {
			return nil, err
		}
		return &Info{
			ID:          number,
			Status:      normalizeStatus(doc.Status),
			ObsoletedBy: normalizeRFCList(doc.ObsoletedBy),
			UpdatedBy:   normalizeRFCList(doc.UpdatedBy),
		}, nil
	})
}

// Draft returns the metadata of draft name. A revision suffix is dropped.
func (client *Client) Draft(ctx context.Context, name string) (*Info, error) {
	name = draftName(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty draft name", ErrNotFound)
	}

	return client.cached(ctx, "draft:"+name, func(ctx context.Context) (*Info, error) {
		var doc draftDocument
		if err := client.getJSON(ctx, fmt.Sprintf(client.config.DraftURLTemplate, name), &doc); err != nil {
			return nil, err
		}
		status := doc.StdLevel
		if status == "" {
			status = doc.IntendedStdLevel
		}
		return &Info{
			ID:          name,
			Status:      normalizeStatus(status),
			ObsoletedBy: []string{},
			UpdatedBy:   []string{},
		}, nil
	})
}

// Downrefs returns the refs listed in the downref registry, in input order.
// The registry is fetched once per client; a failed fetch is retried on
// the next call.
func (client *Client) Downrefs(ctx context.Context, refs []string) ([]string, error) {
	if client.config.Offline {
		return nil, ErrOffline
	}

	registry, err := client.loadRegistry(ctx)
	if err != nil {
		return nil, err
	}

	found := []string{}
	for _, ref := range refs {
		if registry[extract.NormalizeRFCNumber(ref)] {
			found = append(found, ref)
		}
	}
	return found, nil
}

func (client *Client) loadRegistry(ctx context.Context) (map[string]bool, error) {
	client.registryMu.Lock()
	defer client.registryMu.Unlock()

	if client.registry != nil {
		return client.registry, nil
	}

	body, err := client.get(ctx, client.config.DownrefURL)
	if err != nil {
		return nil, fmt.Errorf("fetching downref registry: %w", err)
	}

	registry := make(map[string]bool)
	for _, m := range registryRFCPattern.FindAllStringSubmatch(string(body), -1) {
		registry[extract.NormalizeRFCNumber(m[1])] = true
	}
	log.Debug().Int("entries", len(registry)).Str("url", client.config.DownrefURL).Msg("downref registry loaded")

	client.registry = registry
	return registry, nil
}

// cached serves key from the memory cache, then the disk cache, then fetch.
// Missing ids are cached as well.
func (client *Client) cached(ctx context.Context, key string, fetch func(context.Context) (*Info, error)) (*Info, error) {
	if client.config.Offline {
		return nil, ErrOffline
	}

	if entry, ok := client.memory.Get(key); ok {
		log.Debug().Str("key", key).Msg("lookup cache hit")
		return entryResult(key, entry)
	}

	if client.disk != nil {
		if info, ok := client.disk.Get(key); ok {
			log.Debug().Str("key", key).Msg("lookup disk cache hit")
			entry := cacheEntry{Info: info}
			client.memory.Add(key, entry)
			return entryResult(key, entry)
		}
	}

	log.Debug().Str("key", key).Msg("lookup cache miss")
	start := time.Now()
	info, err := fetch(ctx)
	if err != nil && !errors.Is(err, ErrNotFound) {
		log.Warn().Err(err).Str("key", key).Msg("lookup failed")
		return nil, err
	}
	log.Debug().Str("key", key).Dur("elapsed", time.Since(start)).Bool("found", info != nil).Msg("lookup fetched")

	entry := cacheEntry{Info: info}
	client.memory.Add(key, entry)
	if client.disk != nil {
		if err := client.disk.Set(key, info); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("writing lookup disk cache")
		}
	}
	return entryResult(key, entry)
}

func entryResult(key string, entry cacheEntry) (*Info, error) {
	if entry.Info == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return entry.Info, nil
}

func (client *Client) getJSON(ctx context.Context, url string, v any) error {
	body, err := client.get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding %s: %w", url, err)
	}
	return nil
}

// get fetches url. A 404 response is ErrNotFound.
func (client *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", client.config.UserAgent)

	resp, err := client.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("requesting %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return body, nil
}

func normalizeRFCList(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if n := extract.NormalizeRFCNumber(id); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// normalizeStatus maps "PROPOSED STANDARD", "ps" and similar spellings to
// a lower-case status name.
func normalizeStatus(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "ps":
		return "proposed standard"
	case "ds":
		return "draft standard"
	case "std":
		return "internet standard"
	case "bcp":
		return "best current practice"
	case "inf":
		return "informational"
	case "exp":
		return "experimental"
	case "hist":
		return "historic"
	}
	return s
}

var draftRevisionPattern = regexp.MustCompile(`-\d{2}$`)

// draftName reduces "I-D.ietf-foo-bar", "draft-ietf-foo-bar-03" and similar
// citation forms to the datatracker document name.
func draftName(s string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), "I-D.")
	if s == "" {
		return ""
	}
	if !strings.HasPrefix(s, "draft-") {
		s = "draft-" + s
	}
	return draftRevisionPattern.ReplaceAllString(s, "")
}

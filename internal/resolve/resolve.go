// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve turns DOI identifiers into formatted citation text using
// doi.org content negotiation. It is the external bibliographic service
// behind the recorder's CollectReferences.
package resolve

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/pdiddy/fieldnotes/internal/httputil"
	"github.com/pdiddy/fieldnotes/internal/logging"
	"github.com/pdiddy/fieldnotes/pkg/types"
)

// doiBase is the content negotiation endpoint. Declared as a var so tests
// can substitute an httptest server.
var doiBase = "https://doi.org/"

// doiPattern matches the DOI registry prefix: "10." followed by a
// registrant code of four or more digits.
var doiPattern = regexp.MustCompile(`^10\.[0-9]{4,}`)

// Accept header values for the supported content negotiation formats.
const (
	acceptBibliography = "text/x-bibliography"
	acceptCSL          = "application/vnd.citationstyles.csl+json"
)

// IsDOI reports whether ref carries a DOI registry prefix and should be
// resolved rather than kept as literal citation text.
func IsDOI(ref string) bool {
	return doiPattern.MatchString(ref)
}

// Error reports a failed identifier resolution. Losing a citation silently
// would corrupt the final document, so lookup failures carry the DOI and
// HTTP status instead of disappearing into a generic error string.
type Error struct {
	DOI        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resolving %s: %v", e.DOI, e.Err)
	}
	return fmt.Sprintf("resolving %s: HTTP %d", e.DOI, e.StatusCode)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Client resolves DOIs against the content negotiation service.
type Client struct {
	http  *http.Client
	cfg   types.ResolverConfig
	cache *Cache
	log   *logging.Logger
}

// NewClient returns a resolver using httpClient and cfg. Zero-valued cfg
// fields fall back to defaults ("apa", "en-US", 1 s delay).
func NewClient(httpClient *http.Client, cfg types.ResolverConfig, log *logging.Logger) *Client {
	if cfg.Style == "" {
		cfg.Style = "apa"
	}
	if cfg.Locale == "" {
		cfg.Locale = "en-US"
	}
	return &Client{http: httpClient, cfg: cfg, log: log}
}

// SetCache attaches an on-disk cache consulted before any network lookup.
// Only the plain-text format is cached.
func (c *Client) SetCache(cache *Cache) {
	c.cache = cache
}

// Resolve looks up each DOI and returns the formatted citation texts in the
// same order and cardinality. An empty string marks a DOI the service could
// not render (unknown DOI, or no bibliography support); the caller decides
// whether to drop it. Any transport failure or unexpected status aborts
// with a *Error. With zero identifiers no request is made.
func (c *Client) Resolve(ctx context.Context, dois []string) ([]string, error) {
	out := make([]string, len(dois))
	requested := false

	for i, doi := range dois {
		if c.cache != nil {
			if text, ok, err := c.cache.Get(doi); err == nil && ok {
				out[i] = text
				continue
			}
		}

		if requested && c.cfg.RequestDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.cfg.RequestDelay):
			}
		}
		requested = true

		accept := fmt.Sprintf("%s; style=%s; locale=%s", acceptBibliography, c.cfg.Style, c.cfg.Locale)
		body, status, err := c.fetch(ctx, doi, accept)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			// Unknown DOI or no bibliography rendering available: a null
			// result, not a failure.
			c.log.Warning("no citation text for %s (HTTP %d)", doi, status)
			continue
		}

		out[i] = string(body)
		if c.cache != nil && out[i] != "" {
			if err := c.cache.Put(doi, out[i]); err != nil {
				c.log.Warning("citation cache write failed for %s: %v", doi, err)
			}
		}
	}
	return out, nil
}

// fetch performs one content negotiation request. It returns the body and
// status for 200/404/406 responses; everything else is a *Error.
func (c *Client) fetch(ctx context.Context, doi, accept string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, doiBase+doi, nil)
	if err != nil {
		return nil, 0, &Error{DOI: doi, Err: err}
	}
	req.Header.Set("Accept", accept)
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if c.cfg.PlusToken != "" {
		req.Header.Set("Crossref-Plus-API-Token", "Bearer "+c.cfg.PlusToken)
	}

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.cfg.MaxRetries)
	if err != nil {
		return nil, 0, &Error{DOI: doi, Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, 0, &Error{DOI: doi, Err: fmt.Errorf("reading response: %w", err)}
		}
		return body, resp.StatusCode, nil
	case http.StatusNotFound, http.StatusNotAcceptable:
		io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode, nil
	default:
		io.Copy(io.Discard, resp.Body)
		return nil, 0, &Error{DOI: doi, StatusCode: resp.StatusCode}
	}
}

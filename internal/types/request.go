package types

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Request tags identify which page kind a request targets.
const (
	TagFighterIndex = "fighter-index"
	TagFighter      = "fighter"
	TagEventIndex   = "event-index"
	TagEvent        = "event"
	TagFight        = "fight"
	TagRankings     = "rankings"
)

// Request represents a single page fetch issued by a walker.
type Request struct {
	// URL is the target URL to fetch.
	URL *url.URL

	// Headers are custom HTTP headers to send with the request.
	Headers http.Header

	// Tag categorizes this request (e.g., "fighter-index", "fight").
	Tag string

	// Timeout overrides the fetcher's request timeout for this request.
	Timeout time.Duration

	// CreatedAt is when this request was created.
	CreatedAt time.Time
}

// NewRequest creates a GET request for rawURL.
func NewRequest(rawURL, tag string) (*Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidURL, rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w %q: scheme must be http or https", ErrInvalidURL, rawURL)
	}

	return &Request{
		URL:       u,
		Headers:   make(http.Header),
		Tag:       tag,
		CreatedAt: time.Now(),
	}, nil
}

// URLString returns the string representation of the request URL.
func (r *Request) URLString() string {
	if r.URL == nil {
		return ""
	}
	return r.URL.String()
}

// Domain returns the hostname of the request URL.
func (r *Request) Domain() string {
	if r.URL == nil {
		return ""
	}
	return r.URL.Hostname()
}

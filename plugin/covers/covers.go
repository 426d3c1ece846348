// Package covers resolves cover images for book titles: it searches an
// external image provider, stores the found image durably, and records the
// outcome per normalized title so repeated lookups are served from cache and
// repeated failures are throttled by a cooldown.
package covers

import (
	"context"
	"time"
)

// Status is the outcome of a single resolution.
type Status string

const (
	// StatusFound means a displayable image URL is available.
	StatusFound Status = "FOUND"
	// StatusCooldown means a recent failure exists and the caller should
	// not retry yet.
	StatusCooldown Status = "COOLDOWN"
	// StatusNotFound means the search succeeded but no image candidate
	// was located.
	StatusNotFound Status = "NOT_FOUND"
	// StatusUpstreamError means the search, fetch or store step failed.
	StatusUpstreamError Status = "UPSTREAM_ERROR"
	// StatusDisabled means the feature is administratively turned off.
	StatusDisabled Status = "DISABLED"
)

// Failure reasons carried on upstream-error and not-found results. They map
// directly onto the error values of the covers HTTP endpoint.
const (
	ReasonSearchFailed = "search_failed"
	ReasonUploadFailed = "upload_failed"
	ReasonNoImage      = "no_image"
)

// Result is the well-formed outcome every resolution returns. No failure of
// an external collaborator escapes as an error past this type.
type Result struct {
	Status Status
	// URL is the displayable image URL, set only for StatusFound.
	URL string
	// Cached reports whether the URL came from a fresh cache entry.
	Cached bool
	// Reason is one of the Reason* constants for StatusNotFound and
	// StatusUpstreamError.
	Reason string
}

// EntryStatus is the recorded outcome of a past resolution attempt.
type EntryStatus string

const (
	EntryOK   EntryStatus = "ok"
	EntryFail EntryStatus = "fail"
)

// Entry is the cache record for one normalized title. The whole entry is
// overwritten on every resolution attempt; UpdatedAt drives cooldowns.
type Entry struct {
	Key         string
	SourceURL   string
	StoragePath string
	Status      EntryStatus
	UpdatedAt   time.Time
}

// CacheStore is the per-key persistence behind cooldown decisions.
// Get returns (nil, nil) when no entry exists for the key.
type CacheStore interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Upsert(ctx context.Context, entry *Entry) error
}

// BlobStore stores image bytes durably and resolves stored paths to
// public URLs.
type BlobStore interface {
	Put(ctx context.Context, path string, data []byte, contentType string) error
	PublicURL(path string) string
}

// SearchResult is the outcome of one image search.
type SearchResult struct {
	// QueryURL is the search request url, recorded to the cache when no
	// candidate is found.
	QueryURL string
	// ImageURL is the first candidate image url, empty when the search
	// yielded nothing usable.
	ImageURL string
}

// Searcher performs an image search for a normalized title.
type Searcher interface {
	Search(ctx context.Context, query string) (*SearchResult, error)
}

// Fetcher downloads candidate image bytes.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (data []byte, contentType string, err error)
}

package covers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// ResolverConfig configures a Resolver.
type ResolverConfig struct {
	// Enabled gates the whole pipeline; when false every resolution
	// returns StatusDisabled without touching cache or network.
	Enabled bool
	Policy  CooldownPolicy

	Cache    CacheStore
	Blobs    BlobStore
	Searcher Searcher
	Fetcher  Fetcher

	// Now is the clock used for cooldown arithmetic and storage paths.
	// Defaults to time.Now.
	Now func() time.Time
}

// Resolver runs the cover resolution state machine. Each call performs at
// most one search request and at most one image fetch; there is no retry
// within a call. Concurrent resolutions of the same normalized title are
// collapsed into a single in-flight attempt.
type Resolver struct {
	enabled  bool
	policy   CooldownPolicy
	cache    CacheStore
	blobs    BlobStore
	searcher Searcher
	fetcher  Fetcher
	now      func() time.Time

	group singleflight.Group
}

// NewResolver creates a Resolver.
func NewResolver(cfg ResolverConfig) *Resolver {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Policy == (CooldownPolicy{}) {
		cfg.Policy = DefaultCooldownPolicy()
	}
	return &Resolver{
		enabled:  cfg.Enabled,
		policy:   cfg.Policy,
		cache:    cfg.Cache,
		blobs:    cfg.Blobs,
		searcher: cfg.Searcher,
		fetcher:  cfg.Fetcher,
		now:      cfg.Now,
	}
}

// ErrEmptyTitle is returned when the title is empty after normalization.
// It is the caller's input error, never routed through the state machine.
var ErrEmptyTitle = errors.New("empty title")

// Resolve runs the decision sequence for a raw title and always returns a
// well-formed Result; failures of external collaborators degrade to typed
// results instead of propagating.
func (r *Resolver) Resolve(ctx context.Context, title string) (*Result, error) {
	if !r.enabled {
		return &Result{Status: StatusDisabled}, nil
	}

	key := Normalize(title)
	if key == "" {
		return nil, ErrEmptyTitle
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		return r.resolveKey(ctx, key), nil
	})
	if err != nil {
		// The resolve closure never returns an error; this is unreachable.
		return nil, err
	}
	return v.(*Result), nil
}

func (r *Resolver) resolveKey(ctx context.Context, key string) *Result {
	now := r.now()

	entry, err := r.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("cover cache read failed", "key", key, "error", err)
		// Treat an unreadable cache as a miss and attempt a fresh resolution.
		entry = nil
	}

	if r.policy.FreshOK(entry, now) {
		return &Result{Status: StatusFound, URL: r.blobs.PublicURL(entry.StoragePath), Cached: true}
	}
	if r.policy.FreshFail(entry, now) {
		return &Result{Status: StatusCooldown, Cached: true}
	}

	return r.resolveFresh(ctx, key, entry)
}

// resolveFresh performs the search → extract → fetch → store sequence and
// records the outcome. prev is the stale entry, if any; its SourceURL is
// preserved when the search call itself fails.
func (r *Resolver) resolveFresh(ctx context.Context, key string, prev *Entry) *Result {
	search, err := r.searcher.Search(ctx, key)
	if err != nil {
		sourceURL := ""
		if prev != nil {
			sourceURL = prev.SourceURL
		}
		r.record(ctx, &Entry{Key: key, SourceURL: sourceURL, Status: EntryFail})
		slog.Warn("cover search failed", "key", key, "error", err)
		return &Result{Status: StatusUpstreamError, Reason: ReasonSearchFailed}
	}

	if search.ImageURL == "" {
		r.record(ctx, &Entry{Key: key, SourceURL: search.QueryURL, Status: EntryFail})
		return &Result{Status: StatusNotFound, Reason: ReasonNoImage}
	}

	data, contentType, err := r.fetcher.Fetch(ctx, search.ImageURL)
	if err != nil {
		r.record(ctx, &Entry{Key: key, SourceURL: search.ImageURL, Status: EntryFail})
		slog.Warn("cover image fetch failed", "key", key, "url", search.ImageURL, "error", err)
		return &Result{Status: StatusUpstreamError, Reason: ReasonUploadFailed}
	}

	path := r.storagePath(key)
	if err := r.blobs.Put(ctx, path, data, contentType); err != nil {
		r.record(ctx, &Entry{Key: key, SourceURL: search.ImageURL, Status: EntryFail})
		slog.Warn("cover image upload failed", "key", key, "path", path, "error", err)
		return &Result{Status: StatusUpstreamError, Reason: ReasonUploadFailed}
	}

	r.record(ctx, &Entry{Key: key, SourceURL: search.ImageURL, StoragePath: path, Status: EntryOK})
	return &Result{Status: StatusFound, URL: r.blobs.PublicURL(path), Cached: false}
}

// record writes the entry with a refreshed UpdatedAt. A cache write failure
// is logged but does not change the caller-visible result: the next attempt
// simply won't see the cooldown.
func (r *Resolver) record(ctx context.Context, entry *Entry) {
	entry.UpdatedAt = r.now()
	if err := r.cache.Upsert(ctx, entry); err != nil {
		slog.Warn("cover cache write failed", "key", entry.Key, "error", err)
	}
}

// storagePath derives a storage key from the normalized title and current
// time, so concurrent resolutions of different titles cannot collide and a
// retried title gets a fresh path per attempt. The key is stored verbatim;
// escaping for URLs is the blob store's concern.
func (r *Resolver) storagePath(key string) string {
	return fmt.Sprintf("covers/%s/%d", key, r.now().UnixMilli())
}

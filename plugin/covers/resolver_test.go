package covers

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type resolverFixture struct {
	cache    *MockCacheStore
	blobs    *MockBlobStore
	searcher *MockSearcher
	fetcher  *MockFetcher
	now      time.Time
	resolver *Resolver
}

func newResolverFixture(t *testing.T, enabled bool) *resolverFixture {
	t.Helper()
	f := &resolverFixture{
		cache:    NewMockCacheStore(),
		blobs:    NewMockBlobStore(),
		searcher: &MockSearcher{},
		fetcher:  &MockFetcher{Data: []byte("jpeg-bytes")},
		now:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.resolver = NewResolver(ResolverConfig{
		Enabled:  enabled,
		Policy:   CooldownPolicy{OKTTL: 24 * time.Hour, FailTTL: 6 * time.Hour},
		Cache:    f.cache,
		Blobs:    f.blobs,
		Searcher: f.searcher,
		Fetcher:  f.fetcher,
		Now:      func() time.Time { return f.now },
	})
	return f
}

func TestResolveDisabled(t *testing.T) {
	f := newResolverFixture(t, false)
	f.cache.Seed(&Entry{Key: "dune", Status: EntryOK, StoragePath: "covers/dune/1", UpdatedAt: f.now})

	result, err := f.resolver.Resolve(context.Background(), "Dune")
	require.NoError(t, err)
	require.Equal(t, StatusDisabled, result.Status)

	// No cache or network interaction regardless of prior cache state.
	require.Zero(t, f.searcher.CallCount())
	require.Zero(t, f.fetcher.CallCount())
}

func TestResolveEmptyTitle(t *testing.T) {
	f := newResolverFixture(t, true)

	_, err := f.resolver.Resolve(context.Background(), "   ?!  ")
	require.ErrorIs(t, err, ErrEmptyTitle)
	require.Zero(t, f.searcher.CallCount())
}

func TestResolveFreshSuccess(t *testing.T) {
	f := newResolverFixture(t, true)
	f.searcher.Result = &SearchResult{
		QueryURL: "https://www.google.com/search?q=dune&tbm=isch",
		ImageURL: "https://upstream.test/dune.jpg",
	}

	result, err := f.resolver.Resolve(context.Background(), "Dune")
	require.NoError(t, err)
	require.Equal(t, StatusFound, result.Status)
	require.False(t, result.Cached)
	require.Equal(t, 1, f.searcher.CallCount())
	require.Equal(t, 1, f.fetcher.CallCount())

	entry := f.cache.Entry("dune")
	require.NotNil(t, entry)
	require.Equal(t, EntryOK, entry.Status)
	require.Equal(t, "https://upstream.test/dune.jpg", entry.SourceURL)
	require.NotEmpty(t, entry.StoragePath)
	require.Equal(t, f.now, entry.UpdatedAt)
	require.Equal(t, f.blobs.PublicURL(entry.StoragePath), result.URL)
	require.Equal(t, []byte("jpeg-bytes"), f.blobs.Blob(entry.StoragePath))
}

func TestResolveServedFromCacheSecondCall(t *testing.T) {
	f := newResolverFixture(t, true)
	f.searcher.Result = &SearchResult{QueryURL: "q", ImageURL: "https://upstream.test/dune.jpg"}

	first, err := f.resolver.Resolve(context.Background(), "Dune")
	require.NoError(t, err)
	require.False(t, first.Cached)

	second, err := f.resolver.Resolve(context.Background(), "Dune")
	require.NoError(t, err)
	require.Equal(t, StatusFound, second.Status)
	require.True(t, second.Cached)
	require.Equal(t, first.URL, second.URL)

	// The second call must not touch the network.
	require.Equal(t, 1, f.searcher.CallCount())
	require.Equal(t, 1, f.fetcher.CallCount())
}

func TestResolveFreshOKCacheHitNoNetwork(t *testing.T) {
	f := newResolverFixture(t, true)
	f.cache.Seed(&Entry{
		Key:         "dune",
		Status:      EntryOK,
		StoragePath: "covers/dune/100",
		UpdatedAt:   f.now.Add(-23 * time.Hour),
	})

	result, err := f.resolver.Resolve(context.Background(), "DUNE!")
	require.NoError(t, err)
	require.Equal(t, StatusFound, result.Status)
	require.True(t, result.Cached)
	require.Equal(t, "https://cdn.test/covers/dune/100", result.URL)
	require.Zero(t, f.searcher.CallCount())
	require.Zero(t, f.fetcher.CallCount())
}

func TestResolveStaleOKTriggersFreshSearch(t *testing.T) {
	f := newResolverFixture(t, true)
	f.cache.Seed(&Entry{
		Key:         "dune",
		Status:      EntryOK,
		StoragePath: "covers/dune/100",
		UpdatedAt:   f.now.Add(-25 * time.Hour),
	})
	f.searcher.Result = &SearchResult{QueryURL: "q", ImageURL: "https://upstream.test/dune2.jpg"}

	result, err := f.resolver.Resolve(context.Background(), "Dune")
	require.NoError(t, err)
	require.Equal(t, StatusFound, result.Status)
	require.False(t, result.Cached)
	require.Equal(t, 1, f.searcher.CallCount())
}

func TestResolveCooldownOnRecentFailure(t *testing.T) {
	f := newResolverFixture(t, true)
	f.cache.Seed(&Entry{
		Key:       "zzyzxqq",
		Status:    EntryFail,
		UpdatedAt: f.now.Add(-time.Hour),
	})

	result, err := f.resolver.Resolve(context.Background(), "Zzyzxqq")
	require.NoError(t, err)
	require.Equal(t, StatusCooldown, result.Status)
	require.True(t, result.Cached)
	require.Zero(t, f.searcher.CallCount())
	require.Zero(t, f.fetcher.CallCount())
}

func TestResolveExpiredFailureRetries(t *testing.T) {
	f := newResolverFixture(t, true)
	f.cache.Seed(&Entry{
		Key:       "zzyzxqq",
		Status:    EntryFail,
		UpdatedAt: f.now.Add(-7 * time.Hour),
	})
	f.searcher.Result = &SearchResult{QueryURL: "https://search.test/q=zzyzxqq"}

	result, err := f.resolver.Resolve(context.Background(), "Zzyzxqq")
	require.NoError(t, err)
	require.Equal(t, StatusNotFound, result.Status)
	require.Equal(t, 1, f.searcher.CallCount())
}

func TestResolveNoCandidateRecordsFailure(t *testing.T) {
	f := newResolverFixture(t, true)
	f.searcher.Result = &SearchResult{QueryURL: "https://search.test/q=zzyzxqq"}

	result, err := f.resolver.Resolve(context.Background(), "Zzyzxqq")
	require.NoError(t, err)
	require.Equal(t, StatusNotFound, result.Status)
	require.Equal(t, ReasonNoImage, result.Reason)
	require.Zero(t, f.fetcher.CallCount())

	entry := f.cache.Entry("zzyzxqq")
	require.NotNil(t, entry)
	require.Equal(t, EntryFail, entry.Status)
	require.Equal(t, "https://search.test/q=zzyzxqq", entry.SourceURL)
	require.Empty(t, entry.StoragePath)
}

func TestResolveSearchErrorPreservesPriorSourceURL(t *testing.T) {
	f := newResolverFixture(t, true)
	f.cache.Seed(&Entry{
		Key:       "dune",
		Status:    EntryFail,
		SourceURL: "https://upstream.test/old.jpg",
		UpdatedAt: f.now.Add(-8 * time.Hour),
	})
	f.searcher.Err = errors.New("connection refused")

	result, err := f.resolver.Resolve(context.Background(), "Dune")
	require.NoError(t, err)
	require.Equal(t, StatusUpstreamError, result.Status)
	require.Equal(t, ReasonSearchFailed, result.Reason)

	entry := f.cache.Entry("dune")
	require.Equal(t, EntryFail, entry.Status)
	require.Equal(t, "https://upstream.test/old.jpg", entry.SourceURL)
	require.Equal(t, f.now, entry.UpdatedAt)
}

func TestResolveFetchErrorRecordsCandidateURL(t *testing.T) {
	f := newResolverFixture(t, true)
	f.searcher.Result = &SearchResult{QueryURL: "q", ImageURL: "https://upstream.test/dune.jpg"}
	f.fetcher.Err = errors.New("timeout")

	result, err := f.resolver.Resolve(context.Background(), "Dune")
	require.NoError(t, err)
	require.Equal(t, StatusUpstreamError, result.Status)
	require.Equal(t, ReasonUploadFailed, result.Reason)

	entry := f.cache.Entry("dune")
	require.Equal(t, EntryFail, entry.Status)
	require.Equal(t, "https://upstream.test/dune.jpg", entry.SourceURL)
}

func TestResolveUploadErrorRecordsFailure(t *testing.T) {
	f := newResolverFixture(t, true)
	f.searcher.Result = &SearchResult{QueryURL: "q", ImageURL: "https://upstream.test/dune.jpg"}
	f.blobs.PutErr = errors.New("disk full")

	result, err := f.resolver.Resolve(context.Background(), "Dune")
	require.NoError(t, err)
	require.Equal(t, StatusUpstreamError, result.Status)
	require.Equal(t, ReasonUploadFailed, result.Reason)

	entry := f.cache.Entry("dune")
	require.Equal(t, EntryFail, entry.Status)
	require.Empty(t, entry.StoragePath)
}

func TestResolveFreshAttemptAdvancesUpdatedAt(t *testing.T) {
	f := newResolverFixture(t, true)
	before := f.now.Add(-25 * time.Hour)
	f.cache.Seed(&Entry{Key: "dune", Status: EntryOK, StoragePath: "covers/dune/1", UpdatedAt: before})
	f.searcher.Result = &SearchResult{QueryURL: "q", ImageURL: "https://upstream.test/dune.jpg"}

	_, err := f.resolver.Resolve(context.Background(), "Dune")
	require.NoError(t, err)
	require.True(t, f.cache.Entry("dune").UpdatedAt.After(before))
}

func TestResolveZeroUpdatedAtIsCacheMiss(t *testing.T) {
	f := newResolverFixture(t, true)
	f.cache.Seed(&Entry{Key: "dune", Status: EntryOK, StoragePath: "covers/dune/1"})
	f.searcher.Result = &SearchResult{QueryURL: "q", ImageURL: "https://upstream.test/dune.jpg"}

	result, err := f.resolver.Resolve(context.Background(), "Dune")
	require.NoError(t, err)
	require.False(t, result.Cached)
	require.Equal(t, 1, f.searcher.CallCount())
}

func TestResolveFreshPathPerAttempt(t *testing.T) {
	f := newResolverFixture(t, true)
	f.searcher.Result = &SearchResult{QueryURL: "q", ImageURL: "https://upstream.test/dune.jpg"}

	first, err := f.resolver.Resolve(context.Background(), "Dune")
	require.NoError(t, err)
	firstPath := f.cache.Entry("dune").StoragePath

	// Expire the success and resolve again at a later clock.
	f.now = f.now.Add(25 * time.Hour)
	second, err := f.resolver.Resolve(context.Background(), "Dune")
	require.NoError(t, err)
	require.NotEqual(t, firstPath, f.cache.Entry("dune").StoragePath)
	require.NotEqual(t, first.URL, second.URL)
}

func TestResolveStoragePathKeepsKeyVerbatim(t *testing.T) {
	f := newResolverFixture(t, true)
	f.searcher.Result = &SearchResult{QueryURL: "q", ImageURL: "https://upstream.test/hobbit.jpg"}

	_, err := f.resolver.Resolve(context.Background(), "The Hobbit")
	require.NoError(t, err)

	// Multi-word keys are stored unescaped; the blob store escapes for URLs.
	entry := f.cache.Entry("the hobbit")
	require.NotNil(t, entry)
	require.Equal(t, fmt.Sprintf("covers/the hobbit/%d", f.now.UnixMilli()), entry.StoragePath)
	require.Equal(t, []byte("jpeg-bytes"), f.blobs.Blob(entry.StoragePath))
}

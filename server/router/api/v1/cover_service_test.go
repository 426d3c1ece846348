package v1

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/jerryjiang063/noteshub/plugin/covers"
)

type coverTestEnv struct {
	service  *APIV1Service
	cache    *covers.MockCacheStore
	searcher *covers.MockSearcher
	fetcher  *covers.MockFetcher
}

func newCoverTestEnv(t *testing.T, enabled bool) *coverTestEnv {
	t.Helper()
	env := &coverTestEnv{
		cache:    covers.NewMockCacheStore(),
		searcher: &covers.MockSearcher{},
		fetcher:  &covers.MockFetcher{Data: []byte("jpeg")},
	}
	resolver := covers.NewResolver(covers.ResolverConfig{
		Enabled:  enabled,
		Cache:    env.cache,
		Blobs:    covers.NewMockBlobStore(),
		Searcher: env.searcher,
		Fetcher:  env.fetcher,
	})
	env.service = &APIV1Service{Resolver: resolver}
	return env
}

func (env *coverTestEnv) get(t *testing.T, title string) (int, map[string]any) {
	t.Helper()
	target := "/api/v1/covers"
	if title != "" {
		target += "?title=" + url.QueryEscape(title)
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, env.service.GetCover(c))

	body := map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestGetCoverMissingTitle(t *testing.T) {
	env := newCoverTestEnv(t, true)

	code, body := env.get(t, "")
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, false, body["ok"])
	require.Equal(t, "Missing title", body["error"])

	// A title that normalizes to nothing gets the same reply.
	code, body = env.get(t, "?!...")
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Missing title", body["error"])
}

func TestGetCoverFound(t *testing.T) {
	env := newCoverTestEnv(t, true)
	env.searcher.Result = &covers.SearchResult{
		QueryURL: "https://search.test/q=dune",
		ImageURL: "https://upstream.test/dune.jpg",
	}

	code, body := env.get(t, "Dune")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, body["ok"])
	require.NotEmpty(t, body["cover"])
	_, cached := body["cached"]
	require.False(t, cached)

	// Second lookup is served from cache.
	code, body = env.get(t, "Dune")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, body["ok"])
	require.Equal(t, true, body["cached"])
	require.Equal(t, 1, env.searcher.CallCount())
}

func TestGetCoverNoImage(t *testing.T) {
	env := newCoverTestEnv(t, true)
	env.searcher.Result = &covers.SearchResult{QueryURL: "https://search.test/q=zzyzxqq"}

	code, body := env.get(t, "Zzyzxqq")
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, false, body["ok"])
	require.Equal(t, "no_image", body["error"])
}

func TestGetCoverCooldown(t *testing.T) {
	env := newCoverTestEnv(t, true)
	env.cache.Seed(&covers.Entry{
		Key:       "zzyzxqq",
		Status:    covers.EntryFail,
		UpdatedAt: time.Now().Add(-time.Hour),
	})

	code, body := env.get(t, "Zzyzxqq")
	require.Equal(t, http.StatusTooManyRequests, code)
	require.Equal(t, false, body["ok"])
	require.Equal(t, true, body["cached"])
	require.Equal(t, true, body["cooldown"])
	require.Zero(t, env.searcher.CallCount())
}

func TestGetCoverSearchFailed(t *testing.T) {
	env := newCoverTestEnv(t, true)
	env.searcher.Err = errors.New("connection refused")

	code, body := env.get(t, "Dune")
	require.Equal(t, http.StatusBadGateway, code)
	require.Equal(t, "search_failed", body["error"])
}

func TestGetCoverUploadFailed(t *testing.T) {
	env := newCoverTestEnv(t, true)
	env.searcher.Result = &covers.SearchResult{QueryURL: "q", ImageURL: "https://upstream.test/dune.jpg"}
	env.fetcher.Err = errors.New("timeout")

	code, body := env.get(t, "Dune")
	require.Equal(t, http.StatusBadGateway, code)
	require.Equal(t, "upload_failed", body["error"])
}

func TestGetCoverDisabled(t *testing.T) {
	env := newCoverTestEnv(t, false)

	code, body := env.get(t, "Dune")
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.Equal(t, false, body["ok"])
	require.Equal(t, true, body["disabled"])
	require.Zero(t, env.searcher.CallCount())

	// The feature flag wins over the title guard: a missing title on a
	// disabled instance is still 503, not 400.
	code, body = env.get(t, "")
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.Equal(t, true, body["disabled"])
}

package covers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractFirstImage(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "prefers data-iurl over img src",
			html: `<html><body>
				<img src="https://thumbs.test/small.jpg">
				<div data-iurl="https://images.test/full.jpg"></div>
			</body></html>`,
			want: "https://images.test/full.jpg",
		},
		{
			name: "skips non-http data-iurl",
			html: `<html><body>
				<div data-iurl="data:image/gif;base64,R0lGOD"></div>
				<div data-iurl="https://images.test/full.jpg"></div>
			</body></html>`,
			want: "https://images.test/full.jpg",
		},
		{
			name: "falls back to first http img src",
			html: `<html><body>
				<img src="/static/logo.png">
				<img src="https://thumbs.test/a.jpg">
				<img src="https://thumbs.test/b.jpg">
			</body></html>`,
			want: "https://thumbs.test/a.jpg",
		},
		{
			name: "no candidate",
			html: `<html><body><p>no results</p><img src="data:image/gif;base64,R0lGOD"></body></html>`,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ExtractFirstImage(parseDoc(t, tt.html)))
		})
	}
}

func TestGoogleClientFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer server.Close()

	client := NewGoogleClient()
	data, contentType, err := client.Fetch(context.Background(), server.URL+"/cover.png")
	require.NoError(t, err)
	require.Equal(t, []byte("png-bytes"), data)
	require.Equal(t, "image/png", contentType)
}

func TestGoogleClientFetchDefaultsContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header()["Content-Type"] = nil
		_, _ = w.Write([]byte{0xff, 0xd8})
	}))
	defer server.Close()

	client := NewGoogleClient()
	_, contentType, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	require.Equal(t, "image/jpeg", contentType)
}

func TestGoogleClientFetchErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewGoogleClient()
	_, _, err := client.Fetch(context.Background(), server.URL)
	require.Error(t, err)
}

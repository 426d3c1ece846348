package covers

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

const (
	googleImagesEndpoint = "https://www.google.com/search"

	// maxImageBytes caps a fetched cover; anything larger is not a book
	// cover worth storing.
	maxImageBytes = 8 << 20
)

// GoogleClient searches Google Images for cover candidates and fetches the
// winning candidate's bytes. It implements both Searcher and Fetcher.
type GoogleClient struct {
	client  *http.Client
	extract ExtractFunc
}

// ExtractFunc pulls the first candidate image url out of a parsed search
// result page. It returns "" when the page holds no usable candidate, so
// the parsing strategy can change without touching the resolver.
type ExtractFunc func(doc *goquery.Document) string

// NewGoogleClient creates a GoogleClient with the default extraction
// strategy.
func NewGoogleClient() *GoogleClient {
	return &GoogleClient{
		client:  &http.Client{Timeout: 15 * time.Second},
		extract: ExtractFirstImage,
	}
}

// NewGoogleClientWithExtract creates a GoogleClient with a custom
// extraction strategy.
func NewGoogleClientWithExtract(extract ExtractFunc) *GoogleClient {
	c := NewGoogleClient()
	c.extract = extract
	return c
}

// Search queries Google Images for the normalized title and extracts the
// first candidate image url from the result markup.
func (c *GoogleClient) Search(ctx context.Context, query string) (*SearchResult, error) {
	values := url.Values{"tbm": {"isch"}, "q": {query}}
	queryURL := googleImagesEndpoint + "?" + values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build search request")
	}
	req.Header.Set("User-Agent", nextUserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")
	req.Header.Set("Referer", "https://www.google.com/")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "search request failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Errorf("search returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse search result")
	}

	return &SearchResult{QueryURL: queryURL, ImageURL: c.extract(doc)}, nil
}

// ExtractFirstImage is the default extraction strategy: prefer a data-iurl
// attribute (the full-size image), fall back to the first http img src.
func ExtractFirstImage(doc *goquery.Document) string {
	var found string
	doc.Find("[data-iurl]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if u := strings.TrimSpace(s.AttrOr("data-iurl", "")); strings.HasPrefix(u, "http") {
			found = u
			return false
		}
		return true
	})
	if found != "" {
		return found
	}

	doc.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if u := strings.TrimSpace(s.AttrOr("src", "")); strings.HasPrefix(u, "http") {
			found = u
			return false
		}
		return true
	})
	return found
}

// Fetch downloads the candidate image bytes.
func (c *GoogleClient) Fetch(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to build image request")
	}
	req.Header.Set("User-Agent", nextUserAgent())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", errors.Wrap(err, "image request failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", errors.Errorf("image returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to read image body")
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return data, contentType, nil
}

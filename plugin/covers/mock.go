package covers

import (
	"context"
	"sync"
)

// MockCacheStore is an in-memory CacheStore for testing.
type MockCacheStore struct {
	mu      sync.Mutex
	entries map[string]*Entry

	GetErr    error
	UpsertErr error
}

// NewMockCacheStore creates a new MockCacheStore.
func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{entries: make(map[string]*Entry)}
}

func (m *MockCacheStore) Get(_ context.Context, key string) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	entry, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	copied := *entry
	return &copied, nil
}

func (m *MockCacheStore) Upsert(_ context.Context, entry *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	copied := *entry
	m.entries[entry.Key] = &copied
	return nil
}

// Seed stores an entry directly, bypassing error injection.
func (m *MockCacheStore) Seed(entry *Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *entry
	m.entries[entry.Key] = &copied
}

// Entry returns the stored entry for key, or nil.
func (m *MockCacheStore) Entry(key string) *Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	if !ok {
		return nil
	}
	copied := *entry
	return &copied
}

// MockBlobStore is an in-memory BlobStore for testing.
type MockBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte

	PutErr   error
	PutCalls int
}

// NewMockBlobStore creates a new MockBlobStore.
func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{blobs: make(map[string][]byte)}
}

func (m *MockBlobStore) Put(_ context.Context, path string, data []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PutCalls++
	if m.PutErr != nil {
		return m.PutErr
	}
	m.blobs[path] = data
	return nil
}

func (m *MockBlobStore) PublicURL(path string) string {
	return "https://cdn.test/" + path
}

// Blob returns the stored bytes for path.
func (m *MockBlobStore) Blob(path string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.blobs[path]
}

// MockSearcher is a scripted Searcher that counts calls.
type MockSearcher struct {
	mu     sync.Mutex
	Result *SearchResult
	Err    error
	Calls  int
}

func (m *MockSearcher) Search(context.Context, string) (*SearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

// CallCount returns how many searches were performed.
func (m *MockSearcher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

// MockFetcher is a scripted Fetcher that counts calls.
type MockFetcher struct {
	mu          sync.Mutex
	Data        []byte
	ContentType string
	Err         error
	Calls       int
}

func (m *MockFetcher) Fetch(context.Context, string) ([]byte, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return nil, "", m.Err
	}
	contentType := m.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return m.Data, contentType, nil
}

// CallCount returns how many fetches were performed.
func (m *MockFetcher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

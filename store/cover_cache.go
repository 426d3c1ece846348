package store

import (
	"context"
)

// CoverStatus is the outcome recorded for a cover resolution attempt.
type CoverStatus string

const (
	// CoverStatusOK records a resolution that produced a stored image.
	CoverStatusOK CoverStatus = "ok"
	// CoverStatusFail records a resolution that found or stored nothing.
	CoverStatusFail CoverStatus = "fail"
)

// CoverCacheEntry is the per-normalized-title record backing cover
// resolution cooldowns. Exactly one entry exists per TitleNorm; every
// resolution attempt overwrites the whole row (last write wins) and
// refreshes UpdatedTs.
type CoverCacheEntry struct {
	// TitleNorm is the normalized book title, unique per entry.
	TitleNorm string
	// SourceURL is the upstream url the image was found at (or the search
	// query url when nothing was found).
	SourceURL string
	// StoragePath is the durable copy's path. Non-empty only when Status
	// is CoverStatusOK and the upload succeeded.
	StoragePath string
	Status      CoverStatus
	UpdatedTs   int64
}

// FindCoverCacheEntry is the find condition for cover cache entry.
type FindCoverCacheEntry struct {
	TitleNorm *string
}

func (s *Store) UpsertCoverCacheEntry(ctx context.Context, upsert *CoverCacheEntry) (*CoverCacheEntry, error) {
	return s.driver.UpsertCoverCacheEntry(ctx, upsert)
}

func (s *Store) GetCoverCacheEntry(ctx context.Context, find *FindCoverCacheEntry) (*CoverCacheEntry, error) {
	list, err := s.driver.ListCoverCacheEntries(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

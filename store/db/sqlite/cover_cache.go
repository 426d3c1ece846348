package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/jerryjiang063/noteshub/store"
)

// UpsertCoverCacheEntry overwrites the whole row for the normalized title.
// Last write wins; updated_ts is taken from the entry so callers control
// cooldown arithmetic.
func (d *DB) UpsertCoverCacheEntry(ctx context.Context, upsert *store.CoverCacheEntry) (*store.CoverCacheEntry, error) {
	stmt := `
		INSERT INTO cover_cache (title_norm, source_url, storage_path, status, updated_ts)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(title_norm) DO UPDATE SET
			source_url = EXCLUDED.source_url,
			storage_path = EXCLUDED.storage_path,
			status = EXCLUDED.status,
			updated_ts = EXCLUDED.updated_ts`
	if _, err := d.db.ExecContext(ctx, stmt,
		upsert.TitleNorm, upsert.SourceURL, upsert.StoragePath, upsert.Status, upsert.UpdatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to upsert cover cache entry: %w", err)
	}
	return upsert, nil
}

func (d *DB) ListCoverCacheEntries(ctx context.Context, find *store.FindCoverCacheEntry) ([]*store.CoverCacheEntry, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.TitleNorm; v != nil {
		where, args = append(where, "cover_cache.title_norm = ?"), append(args, *v)
	}

	query := `
		SELECT title_norm, source_url, storage_path, status, updated_ts
		FROM cover_cache
		WHERE ` + strings.Join(where, " AND ")

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cover cache entries: %w", err)
	}
	defer rows.Close()

	list := make([]*store.CoverCacheEntry, 0)
	for rows.Next() {
		var entry store.CoverCacheEntry
		if err := rows.Scan(
			&entry.TitleNorm,
			&entry.SourceURL,
			&entry.StoragePath,
			&entry.Status,
			&entry.UpdatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cover cache entry: %w", err)
		}
		list = append(list, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cover cache entries: %w", err)
	}

	return list, nil
}

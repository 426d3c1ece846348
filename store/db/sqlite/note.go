package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jerryjiang063/noteshub/store"
)

func (d *DB) CreateNote(ctx context.Context, create *store.Note) (*store.Note, error) {
	fields := []string{"uid", "book_id", "creator_id", "title", "content_html", "font_name", "font_url", "visibility"}
	placeholderValues := []any{
		create.UID, create.BookID, create.CreatorID, create.Title, create.ContentHTML,
		create.FontName, create.FontURL, create.Visibility,
	}

	stmt := `INSERT INTO note (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		RETURNING id, created_ts, updated_ts`

	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&create.ID,
		&create.CreatedTs,
		&create.UpdatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	return create, nil
}

func (d *DB) ListNotes(ctx context.Context, find *store.FindNote) ([]*store.Note, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "note.id = ?"), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "note.uid = ?"), append(args, *v)
	}
	if v := find.BookID; v != nil {
		where, args = append(where, "note.book_id = ?"), append(args, *v)
	}
	if v := find.CreatorID; v != nil {
		where, args = append(where, "note.creator_id = ?"), append(args, *v)
	}
	if v := find.Visibility; v != nil {
		where, args = append(where, "note.visibility = ?"), append(args, *v)
	}

	orderBy := "ORDER BY note.created_ts DESC"
	if find.OrderByUpdatedTs {
		orderBy = "ORDER BY note.updated_ts DESC"
	}

	query := `
		SELECT
			id, uid, book_id, creator_id, created_ts, updated_ts,
			title, content_html, font_name, font_url, visibility
		FROM note
		WHERE ` + strings.Join(where, " AND ") + ` ` + orderBy

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Note, 0)
	for rows.Next() {
		var note store.Note
		var fontName, fontURL sql.NullString
		if err := rows.Scan(
			&note.ID,
			&note.UID,
			&note.BookID,
			&note.CreatorID,
			&note.CreatedTs,
			&note.UpdatedTs,
			&note.Title,
			&note.ContentHTML,
			&fontName,
			&fontURL,
			&note.Visibility,
		); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		if fontName.Valid {
			note.FontName = &fontName.String
		}
		if fontURL.Valid {
			note.FontURL = &fontURL.String
		}
		list = append(list, &note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notes: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateNote(ctx context.Context, update *store.UpdateNote) (*store.Note, error) {
	set, args := []string{}, []any{}
	if v := update.UpdatedTs; v != nil {
		set, args = append(set, "updated_ts = ?"), append(args, *v)
	}
	if v := update.Title; v != nil {
		set, args = append(set, "title = ?"), append(args, *v)
	}
	if v := update.ContentHTML; v != nil {
		set, args = append(set, "content_html = ?"), append(args, *v)
	}
	if v := update.FontName; v != nil {
		set, args = append(set, "font_name = ?"), append(args, *v)
	}
	if v := update.FontURL; v != nil {
		set, args = append(set, "font_url = ?"), append(args, *v)
	}
	if v := update.Visibility; v != nil {
		set, args = append(set, "visibility = ?"), append(args, *v)
	}
	args = append(args, update.ID)

	query := `UPDATE note SET ` + strings.Join(set, ", ") + ` WHERE id = ?
		RETURNING id, uid, book_id, creator_id, created_ts, updated_ts, title, content_html, font_name, font_url, visibility`

	note := &store.Note{}
	var fontName, fontURL sql.NullString
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(
		&note.ID,
		&note.UID,
		&note.BookID,
		&note.CreatorID,
		&note.CreatedTs,
		&note.UpdatedTs,
		&note.Title,
		&note.ContentHTML,
		&fontName,
		&fontURL,
		&note.Visibility,
	); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	if fontName.Valid {
		note.FontName = &fontName.String
	}
	if fontURL.Valid {
		note.FontURL = &fontURL.String
	}

	return note, nil
}

func (d *DB) DeleteNote(ctx context.Context, delete *store.DeleteNote) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM note WHERE id = ?`, delete.ID); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

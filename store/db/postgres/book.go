package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jerryjiang063/noteshub/store"
)

func (d *DB) CreateBook(ctx context.Context, create *store.Book) (*store.Book, error) {
	fields := []string{"uid", "creator_id", "title", "author", "cover_url"}
	placeholderValues := []any{create.UID, create.CreatorID, create.Title, create.Author, create.CoverURL}

	stmt := `INSERT INTO book (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		RETURNING id, created_ts, updated_ts`

	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&create.ID,
		&create.CreatedTs,
		&create.UpdatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	return create, nil
}

func (d *DB) ListBooks(ctx context.Context, find *store.FindBook) ([]*store.Book, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "book.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "book.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CreatorID; v != nil {
		where, args = append(where, "book.creator_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Title; v != nil {
		where, args = append(where, "book.title = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT
			id, uid, creator_id, created_ts, updated_ts,
			title, author, cover_url
		FROM book
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY book.created_ts DESC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Book, 0)
	for rows.Next() {
		var book store.Book
		if err := rows.Scan(
			&book.ID,
			&book.UID,
			&book.CreatorID,
			&book.CreatedTs,
			&book.UpdatedTs,
			&book.Title,
			&book.Author,
			&book.CoverURL,
		); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		list = append(list, &book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate books: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateBook(ctx context.Context, update *store.UpdateBook) (*store.Book, error) {
	set, args := []string{}, []any{}
	if v := update.UpdatedTs; v != nil {
		set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Title; v != nil {
		set, args = append(set, "title = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Author; v != nil {
		set, args = append(set, "author = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.CoverURL; v != nil {
		set, args = append(set, "cover_url = "+placeholder(len(args)+1)), append(args, *v)
	}
	args = append(args, update.ID)

	query := `UPDATE book SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args)) + `
		RETURNING id, uid, creator_id, created_ts, updated_ts, title, author, cover_url`

	book := &store.Book{}
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(
		&book.ID,
		&book.UID,
		&book.CreatorID,
		&book.CreatedTs,
		&book.UpdatedTs,
		&book.Title,
		&book.Author,
		&book.CoverURL,
	); err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}

	return book, nil
}

func (d *DB) DeleteBook(ctx context.Context, delete *store.DeleteBook) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM book WHERE id = $1`, delete.ID); err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	return nil
}

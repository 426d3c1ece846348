package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/jerryjiang063/noteshub/store"
)

func (d *DB) CreateComment(ctx context.Context, create *store.Comment) (*store.Comment, error) {
	stmt := `INSERT INTO note_comment (note_id, creator_id, content)
		VALUES (?, ?, ?)
		RETURNING id, created_ts`

	if err := d.db.QueryRowContext(ctx, stmt, create.NoteID, create.CreatorID, create.Content).Scan(
		&create.ID,
		&create.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return create, nil
}

func (d *DB) ListComments(ctx context.Context, find *store.FindComment) ([]*store.Comment, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "note_comment.id = ?"), append(args, *v)
	}
	if v := find.NoteID; v != nil {
		where, args = append(where, "note_comment.note_id = ?"), append(args, *v)
	}
	if v := find.CreatorID; v != nil {
		where, args = append(where, "note_comment.creator_id = ?"), append(args, *v)
	}

	query := `
		SELECT id, note_id, creator_id, created_ts, content
		FROM note_comment
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY note_comment.created_ts DESC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Comment, 0)
	for rows.Next() {
		var comment store.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.NoteID,
			&comment.CreatorID,
			&comment.CreatedTs,
			&comment.Content,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		list = append(list, &comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}

	return list, nil
}

func (d *DB) DeleteComment(ctx context.Context, delete *store.DeleteComment) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM note_comment WHERE id = ?`, delete.ID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

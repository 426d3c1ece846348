package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jerryjiang063/noteshub/store"
)

func (d *DB) CreateReaction(ctx context.Context, create *store.Reaction) (*store.Reaction, error) {
	stmt := `INSERT INTO note_reaction (note_id, user_id, kind)
		VALUES ($1, $2, $3)
		RETURNING id, created_ts`

	if err := d.db.QueryRowContext(ctx, stmt, create.NoteID, create.UserID, create.Kind).Scan(
		&create.ID,
		&create.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create reaction: %w", err)
	}

	return create, nil
}

func (d *DB) ListReactions(ctx context.Context, find *store.FindReaction) ([]*store.Reaction, error) {
	where, args := reactionWhere(find)

	query := `
		SELECT id, note_id, user_id, kind, created_ts
		FROM note_reaction
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY note_reaction.created_ts DESC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reactions: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Reaction, 0)
	for rows.Next() {
		var reaction store.Reaction
		if err := rows.Scan(
			&reaction.ID,
			&reaction.NoteID,
			&reaction.UserID,
			&reaction.Kind,
			&reaction.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reaction: %w", err)
		}
		list = append(list, &reaction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reactions: %w", err)
	}

	return list, nil
}

func (d *DB) CountReactions(ctx context.Context, find *store.FindReaction) (int64, error) {
	where, args := reactionWhere(find)

	query := `SELECT COUNT(*) FROM note_reaction WHERE ` + strings.Join(where, " AND ")

	var count int64
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reactions: %w", err)
	}
	return count, nil
}

func (d *DB) DeleteReaction(ctx context.Context, delete *store.DeleteReaction) error {
	stmt := `DELETE FROM note_reaction WHERE note_id = $1 AND user_id = $2 AND kind = $3`
	if _, err := d.db.ExecContext(ctx, stmt, delete.NoteID, delete.UserID, delete.Kind); err != nil {
		return fmt.Errorf("failed to delete reaction: %w", err)
	}
	return nil
}

func reactionWhere(find *store.FindReaction) ([]string, []any) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.NoteID; v != nil {
		where, args = append(where, "note_reaction.note_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UserID; v != nil {
		where, args = append(where, "note_reaction.user_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Kind; v != nil {
		where, args = append(where, "note_reaction.kind = "+placeholder(len(args)+1)), append(args, *v)
	}
	return where, args
}

package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jerryjiang063/noteshub/store"
)

func (d *DB) UpsertUserSetting(ctx context.Context, upsert *store.UserSetting) (*store.UserSetting, error) {
	stmt := `
		INSERT INTO user_setting (user_id, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT(user_id, key) DO UPDATE SET value = EXCLUDED.value`
	if _, err := d.db.ExecContext(ctx, stmt, upsert.UserID, upsert.Key, upsert.Value); err != nil {
		return nil, fmt.Errorf("failed to upsert user setting: %w", err)
	}
	return upsert, nil
}

func (d *DB) ListUserSettings(ctx context.Context, find *store.FindUserSetting) ([]*store.UserSetting, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.UserID; v != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Key; v != nil {
		where, args = append(where, "key = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `SELECT user_id, key, value FROM user_setting WHERE ` + strings.Join(where, " AND ")
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query user settings: %w", err)
	}
	defer rows.Close()

	list := make([]*store.UserSetting, 0)
	for rows.Next() {
		var setting store.UserSetting
		if err := rows.Scan(&setting.UserID, &setting.Key, &setting.Value); err != nil {
			return nil, fmt.Errorf("failed to scan user setting: %w", err)
		}
		list = append(list, &setting)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user settings: %w", err)
	}

	return list, nil
}

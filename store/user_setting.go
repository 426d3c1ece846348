package store

import (
	"context"
	"fmt"
)

// UserSettingKey is the key type for user settings.
type UserSettingKey string

const (
	// UserSettingTheme is the preferred UI theme ("light" or "dark").
	UserSettingTheme UserSettingKey = "THEME"
	// UserSettingFont is the preferred note font name.
	UserSettingFont UserSettingKey = "FONT"
	// UserSettingFontURL is the remote font stylesheet url, if any.
	UserSettingFontURL UserSettingKey = "FONT_URL"
)

// UserSetting is a per-user key/value setting with upsert semantics.
type UserSetting struct {
	UserID int32
	Key    UserSettingKey
	Value  string
}

// FindUserSetting is the find condition for user setting.
type FindUserSetting struct {
	UserID *int32
	Key    *UserSettingKey
}

func (s *Store) UpsertUserSetting(ctx context.Context, upsert *UserSetting) (*UserSetting, error) {
	setting, err := s.driver.UpsertUserSetting(ctx, upsert)
	if err != nil {
		return nil, err
	}
	s.userSettingCache.Delete(userSettingCacheKey(upsert.UserID))
	return setting, nil
}

func (s *Store) ListUserSettings(ctx context.Context, find *FindUserSetting) ([]*UserSetting, error) {
	if find.UserID != nil && find.Key == nil {
		if cached, ok := s.userSettingCache.Get(userSettingCacheKey(*find.UserID)); ok {
			if settings, ok := cached.([]*UserSetting); ok {
				return settings, nil
			}
		}
	}

	settings, err := s.driver.ListUserSettings(ctx, find)
	if err != nil {
		return nil, err
	}
	if find.UserID != nil && find.Key == nil {
		s.userSettingCache.Set(userSettingCacheKey(*find.UserID), settings)
	}
	return settings, nil
}

func userSettingCacheKey(userID int32) string {
	return fmt.Sprintf("user_setting:%d", userID)
}

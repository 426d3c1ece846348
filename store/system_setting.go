package store

import (
	"context"
)

// SystemSettingKey is the key type for instance-wide settings.
type SystemSettingKey string

const (
	// SystemSettingSchemaVersion tracks the applied schema version.
	SystemSettingSchemaVersion SystemSettingKey = "SCHEMA_VERSION"
)

// SystemSetting is an instance-wide key/value setting.
type SystemSetting struct {
	Key   SystemSettingKey
	Value string
}

// FindSystemSetting is the find condition for system setting.
type FindSystemSetting struct {
	Key *SystemSettingKey
}

func (s *Store) UpsertSystemSetting(ctx context.Context, upsert *SystemSetting) (*SystemSetting, error) {
	setting, err := s.driver.UpsertSystemSetting(ctx, upsert)
	if err != nil {
		return nil, err
	}
	s.systemSettingCache.Set(string(upsert.Key), setting)
	return setting, nil
}

func (s *Store) GetSystemSetting(ctx context.Context, find *FindSystemSetting) (*SystemSetting, error) {
	if find.Key != nil {
		if cached, ok := s.systemSettingCache.Get(string(*find.Key)); ok {
			if setting, ok := cached.(*SystemSetting); ok {
				return setting, nil
			}
		}
	}

	list, err := s.driver.ListSystemSettings(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}

	setting := list[0]
	s.systemSettingCache.Set(string(setting.Key), setting)
	return setting, nil
}

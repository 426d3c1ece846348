package store

import (
	"context"
	"embed"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/jerryjiang063/noteshub/internal/version"
)

// Schema version is stored in system_setting. New installations apply the
// full LATEST.sql for their driver; upgrades from a newer schema than the
// binary supports are rejected.
//
// Migration files live in store/migration/{driver}/LATEST.sql.

//go:embed migration
var migrationFS embed.FS

// LatestSchemaFileName is the name of the latest schema file, used to
// initialize fresh installations with the current schema.
const LatestSchemaFileName = "LATEST.sql"

// Migrate initializes or upgrades the database schema.
func (s *Store) Migrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check database initialization")
	}

	targetVersion, err := version.GetSchemaVersion(s.profile.Mode)
	if err != nil {
		return errors.Wrap(err, "failed to resolve target schema version")
	}

	if !initialized {
		if err := s.applyLatestSchema(ctx); err != nil {
			return errors.Wrap(err, "failed to apply latest schema")
		}
		if _, err := s.UpsertSystemSetting(ctx, &SystemSetting{
			Key:   SystemSettingSchemaVersion,
			Value: targetVersion,
		}); err != nil {
			return errors.Wrap(err, "failed to record schema version")
		}
		slog.Info("database initialized", "schema_version", targetVersion, "driver", s.profile.Driver)
		return nil
	}

	current, err := s.GetSystemSetting(ctx, &FindSystemSetting{Key: func() *SystemSettingKey {
		k := SystemSettingSchemaVersion
		return &k
	}()})
	if err != nil {
		return errors.Wrap(err, "failed to read schema version")
	}

	currentVersion := ""
	if current != nil {
		currentVersion = current.Value
	}
	if currentVersion != "" && version.IsVersionGreaterThan(currentVersion, targetVersion) {
		return errors.Errorf("database schema %s is newer than binary schema %s", currentVersion, targetVersion)
	}
	if currentVersion != targetVersion {
		if _, err := s.UpsertSystemSetting(ctx, &SystemSetting{
			Key:   SystemSettingSchemaVersion,
			Value: targetVersion,
		}); err != nil {
			return errors.Wrap(err, "failed to update schema version")
		}
		slog.Info("schema version updated", "from", currentVersion, "to", targetVersion)
	}
	return nil
}

func (s *Store) applyLatestSchema(ctx context.Context) error {
	filePath := fmt.Sprintf("migration/%s/%s", s.profile.Driver, LatestSchemaFileName)
	buf, err := migrationFS.ReadFile(filePath)
	if err != nil {
		return errors.Wrapf(err, "failed to read latest schema file %q", filePath)
	}

	if _, err := s.driver.GetDB().ExecContext(ctx, string(buf)); err != nil {
		return errors.Wrapf(err, "failed to execute latest schema for %s", s.profile.Driver)
	}
	return nil
}

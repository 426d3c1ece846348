package profile

import (
	"os"
	"testing"
)

func TestCoversProfileDefaults(t *testing.T) {
	clearCoversEnvVars()

	profile := &Profile{}
	profile.FromEnv()

	if !profile.CoversEnabled {
		t.Error("CoversEnabled should default to true")
	}
	if profile.CoversOKCooldownMin != 1440 {
		t.Errorf("CoversOKCooldownMin: expected 1440, got %d", profile.CoversOKCooldownMin)
	}
	if profile.CoversFailCooldownMin != 360 {
		t.Errorf("CoversFailCooldownMin: expected 360, got %d", profile.CoversFailCooldownMin)
	}
}

func TestCoversProfileFromEnv(t *testing.T) {
	clearCoversEnvVars()

	tests := []struct {
		name     string
		envVar   string
		envValue string
		check    func(*Profile) bool
	}{
		{
			name:     "NOTESHUB_COVERS_ENABLED=0 disables covers",
			envVar:   "NOTESHUB_COVERS_ENABLED",
			envValue: "0",
			check:    func(p *Profile) bool { return !p.CoversEnabled },
		},
		{
			name:     "NOTESHUB_COVERS_OK_TTL_MIN override",
			envVar:   "NOTESHUB_COVERS_OK_TTL_MIN",
			envValue: "60",
			check:    func(p *Profile) bool { return p.CoversOKCooldownMin == 60 },
		},
		{
			name:     "NOTESHUB_COVERS_FAIL_TTL_MIN override",
			envVar:   "NOTESHUB_COVERS_FAIL_TTL_MIN",
			envValue: "15",
			check:    func(p *Profile) bool { return p.CoversFailCooldownMin == 15 },
		},
		{
			name:     "unparsable cooldown falls back to default",
			envVar:   "NOTESHUB_COVERS_OK_TTL_MIN",
			envValue: "not-a-number",
			check:    func(p *Profile) bool { return p.CoversOKCooldownMin == 1440 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearCoversEnvVars()
			os.Setenv(tt.envVar, tt.envValue)
			defer os.Unsetenv(tt.envVar)

			profile := &Profile{}
			profile.FromEnv()
			if !tt.check(profile) {
				t.Errorf("unexpected profile state for %s=%s", tt.envVar, tt.envValue)
			}
		})
	}
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	profile := &Profile{Mode: "dev", Data: os.TempDir(), Driver: "mysql"}
	if err := profile.Validate(); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestValidateTrimsInstanceURL(t *testing.T) {
	profile := &Profile{Mode: "dev", Data: os.TempDir(), Driver: "sqlite", InstanceURL: "https://notes.example.com/"}
	if err := profile.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if profile.InstanceURL != "https://notes.example.com" {
		t.Errorf("expected trailing slash trimmed, got %q", profile.InstanceURL)
	}
}

func clearCoversEnvVars() {
	for _, key := range []string{
		"NOTESHUB_COVERS_ENABLED",
		"NOTESHUB_COVERS_OK_TTL_MIN",
		"NOTESHUB_COVERS_FAIL_TTL_MIN",
		"NOTESHUB_INSTANCE_URL",
		"NOTESHUB_SECRET",
	} {
		os.Unsetenv(key)
	}
}

package covers

import (
	"testing"
	"time"
)

func TestCooldownPolicyFreshOK(t *testing.T) {
	policy := CooldownPolicy{OKTTL: 24 * time.Hour, FailTTL: 6 * time.Hour}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		entry    *Entry
		expected bool
	}{
		{"nil entry", nil, false},
		{
			"fresh ok",
			&Entry{Status: EntryOK, StoragePath: "covers/dune/1", UpdatedAt: now.Add(-time.Hour)},
			true,
		},
		{
			"ok without storage path",
			&Entry{Status: EntryOK, UpdatedAt: now.Add(-time.Hour)},
			false,
		},
		{
			"expired ok",
			&Entry{Status: EntryOK, StoragePath: "covers/dune/1", UpdatedAt: now.Add(-25 * time.Hour)},
			false,
		},
		{
			"ok exactly at ttl",
			&Entry{Status: EntryOK, StoragePath: "covers/dune/1", UpdatedAt: now.Add(-24 * time.Hour)},
			false,
		},
		{
			"ok with zero updated_at is infinitely old",
			&Entry{Status: EntryOK, StoragePath: "covers/dune/1"},
			false,
		},
		{
			"fail entry never fresh ok",
			&Entry{Status: EntryFail, UpdatedAt: now},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.FreshOK(tt.entry, now); got != tt.expected {
				t.Errorf("FreshOK = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCooldownPolicyFreshFail(t *testing.T) {
	policy := CooldownPolicy{OKTTL: 24 * time.Hour, FailTTL: 6 * time.Hour}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		entry    *Entry
		expected bool
	}{
		{"nil entry", nil, false},
		{"recent fail", &Entry{Status: EntryFail, UpdatedAt: now.Add(-time.Hour)}, true},
		{"expired fail", &Entry{Status: EntryFail, UpdatedAt: now.Add(-7 * time.Hour)}, false},
		{"fail with zero updated_at is infinitely old", &Entry{Status: EntryFail}, false},
		{"ok entry never fresh fail", &Entry{Status: EntryOK, StoragePath: "p", UpdatedAt: now}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.FreshFail(tt.entry, now); got != tt.expected {
				t.Errorf("FreshFail = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDefaultCooldownPolicy(t *testing.T) {
	policy := DefaultCooldownPolicy()
	if policy.OKTTL != 24*time.Hour {
		t.Errorf("OKTTL = %v, want 24h", policy.OKTTL)
	}
	if policy.FailTTL != 6*time.Hour {
		t.Errorf("FailTTL = %v, want 6h", policy.FailTTL)
	}
}

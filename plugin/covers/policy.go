package covers

import (
	"time"
)

// CooldownPolicy decides how long resolution outcomes remain binding.
// A successful entry is served from cache for OKTTL; a failed entry blocks
// re-attempts for FailTTL. Retry is entirely implicit: the only way a key is
// re-resolved is a caller arriving after the relevant window has passed.
type CooldownPolicy struct {
	OKTTL   time.Duration
	FailTTL time.Duration
}

// DefaultCooldownPolicy returns the stock cooldowns: 24h for successes,
// 6h for failures.
func DefaultCooldownPolicy() CooldownPolicy {
	return CooldownPolicy{
		OKTTL:   24 * time.Hour,
		FailTTL: 6 * time.Hour,
	}
}

// FreshOK reports whether entry is a servable cached success at time now.
func (p CooldownPolicy) FreshOK(entry *Entry, now time.Time) bool {
	if entry == nil || entry.Status != EntryOK || entry.StoragePath == "" {
		return false
	}
	return p.age(entry, now) < p.OKTTL
}

// FreshFail reports whether entry is a recent failure still in cooldown
// at time now.
func (p CooldownPolicy) FreshFail(entry *Entry, now time.Time) bool {
	if entry == nil || entry.Status != EntryFail {
		return false
	}
	return p.age(entry, now) < p.FailTTL
}

// age returns the wall-clock time since the entry's last write. An entry
// without an UpdatedAt is infinitely old.
func (p CooldownPolicy) age(entry *Entry, now time.Time) time.Duration {
	if entry.UpdatedAt.IsZero() {
		return time.Duration(1<<63 - 1)
	}
	return now.Sub(entry.UpdatedAt)
}

// Package stats provides simple local usage statistics for an instance.
// This is a lightweight alternative to external monitoring systems.
package stats

import (
	"context"
	"sync"
	"time"

	"github.com/jerryjiang063/noteshub/store"
)

// Stats represents instance usage statistics.
type Stats struct {
	TotalUsers int64

	TotalBooks int64

	TotalNotes     int64
	PublicNotes    int64
	NotesLastWeek  int64
	NotesLastMonth int64

	TotalComments int64

	// LastActivityTime is the most recent note creation or update.
	LastActivityTime time.Time

	LastUpdated time.Time
}

// Collector collects and caches usage statistics, refreshing hourly.
type Collector struct {
	store    *store.Store
	stats    *Stats
	mu       sync.Mutex
	tickStop chan struct{}
}

// NewCollector creates a new statistics collector.
func NewCollector(st *store.Store) *Collector {
	return &Collector{
		store:    st,
		stats:    &Stats{LastUpdated: time.Now()},
		tickStop: make(chan struct{}),
	}
}

// Start begins periodic statistics collection. Updates every hour.
func (c *Collector) Start(ctx context.Context) {
	c.Collect(ctx)

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.Collect(ctx)
			case <-ctx.Done():
				return
			case <-c.tickStop:
				return
			}
		}
	}()
}

// Stop stops the statistics collector.
func (c *Collector) Stop() {
	select {
	case <-c.tickStop:
		// Already closed
	default:
		close(c.tickStop)
	}
}

// GetStats returns a copy of current statistics.
func (c *Collector) GetStats() *Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *c.stats
	return &copied
}

// Collect gathers current statistics from the store.
func (c *Collector) Collect(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, 0, -30)

	if users, err := c.store.ListUsers(ctx, &store.FindUser{}); err == nil {
		c.stats.TotalUsers = int64(len(users))
	}
	if books, err := c.store.ListBooks(ctx, &store.FindBook{}); err == nil {
		c.stats.TotalBooks = int64(len(books))
	}

	if notes, err := c.store.ListNotes(ctx, &store.FindNote{}); err == nil {
		c.stats.TotalNotes = int64(len(notes))

		var publicCount, weekCount, monthCount int64
		lastActivity := time.Time{}
		for _, note := range notes {
			if note.Visibility == store.Public {
				publicCount++
			}
			created := time.Unix(note.CreatedTs, 0)
			if !created.Before(weekAgo) {
				weekCount++
			}
			if !created.Before(monthAgo) {
				monthCount++
			}
			updated := time.Unix(note.UpdatedTs, 0)
			if updated.After(lastActivity) {
				lastActivity = updated
			}
		}
		c.stats.PublicNotes = publicCount
		c.stats.NotesLastWeek = weekCount
		c.stats.NotesLastMonth = monthCount
		c.stats.LastActivityTime = lastActivity
	}

	if comments, err := c.store.ListComments(ctx, &store.FindComment{}); err == nil {
		c.stats.TotalComments = int64(len(comments))
	}

	c.stats.LastUpdated = now
}

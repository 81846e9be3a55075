package testsupport

import (
	"context"
	"testing"
	"time"

	"vidscribe/internal/cache"
	"vidscribe/internal/config"
	"vidscribe/internal/transcript"
	"vidscribe/internal/videoid"
)

// MustOpenCache returns a cache.Store at cfg's cache path.
func MustOpenCache(t testing.TB, cfg *config.Config, opts ...cache.Option) *cache.Store {
	t.Helper()
	return cache.New(cfg.Cache.Path, cfg.Cache.TTLDays, opts...)
}

// SeedTranscript stores text for url under format and fails the test on error.
func SeedTranscript(t testing.TB, store *cache.Store, url string, format transcript.Format, text string) videoid.ID {
	t.Helper()

	id := videoid.Derive(url)
	err := store.Put(context.Background(), cache.Entry{
		VideoID:    id,
		Format:     format,
		URL:        url,
		Title:      "seeded",
		Transcript: text,
	})
	if err != nil {
		t.Fatalf("cache.Put: %v", err)
	}
	return id
}

// Clock is a settable time source for cache.WithClock.
type Clock struct {
	Current time.Time
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time { return c.Current }

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) { c.Current = c.Current.Add(d) }

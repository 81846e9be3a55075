package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"vidscribe/internal/logging"
	"vidscribe/internal/transcript"
	"vidscribe/internal/videoid"
)

// Entry is one cached transcript.
type Entry struct {
	VideoID    videoid.ID
	Format     transcript.Format
	URL        string
	Title      string
	Transcript string
	Model      string
	CreatedAt  time.Time
}

// Stats summarizes the cache contents.
type Stats struct {
	Path      string
	Entries   int
	SizeBytes int64
	Oldest    time.Time
	Newest    time.Time
}

// Fresh reports whether an entry created at createdAt is still within the TTL
// at now. Entries exactly ttlDays old are expired.
func Fresh(createdAt, now time.Time, ttlDays int) bool {
	if ttlDays <= 0 {
		return false
	}
	cutoff := now.Add(-time.Duration(ttlDays) * 24 * time.Hour)
	return createdAt.After(cutoff)
}

// Get returns the unexpired entry for id and format. Any failure to read the
// store is logged and reported as a miss.
func (s *Store) Get(ctx context.Context, id videoid.ID, format transcript.Format) (Entry, bool) {
	ctx = ensureContext(ctx)
	if !s.exists() {
		return Entry{}, false
	}
	db, err := s.open(ctx, false)
	if err != nil {
		s.warnUnavailable("lookup", err)
		return Entry{}, false
	}
	defer db.Close()

	var (
		url, title, model sql.NullString
		text, createdRaw  string
	)
	err = retryOnBusy(ctx, func() error {
		return db.QueryRowContext(ctx,
			`SELECT url, title, transcript, model, created_at FROM transcripts WHERE video_id = ? AND format = ?`,
			string(id), string(format),
		).Scan(&url, &title, &text, &model, &createdRaw)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false
	}
	if err != nil {
		s.warnUnavailable("lookup", err)
		return Entry{}, false
	}

	createdAt, err := parseTimeString(createdRaw)
	if err != nil {
		s.logger.Debug("cache entry has unreadable timestamp",
			logging.String("video_id", string(id)),
			logging.String("created_at", createdRaw))
		return Entry{}, false
	}
	if !Fresh(createdAt, s.now(), s.ttlDays) {
		s.logger.Debug("cache entry expired",
			logging.String("video_id", string(id)),
			logging.String("format", string(format)),
			logging.Int("ttl_days", s.ttlDays))
		return Entry{}, false
	}

	return Entry{
		VideoID:    id,
		Format:     format,
		URL:        url.String,
		Title:      title.String,
		Transcript: text,
		Model:      model.String,
		CreatedAt:  createdAt,
	}, true
}

// Put upserts entry, stamping CreatedAt with the current time. An existing
// row for the same (video ID, format) is replaced, which refreshes its TTL.
func (s *Store) Put(ctx context.Context, entry Entry) error {
	ctx = ensureContext(ctx)
	if entry.VideoID == "" {
		return errors.New("cache put: video id is required")
	}
	if entry.Format == "" {
		entry.Format = transcript.FormatTXT
	}
	createdAt := s.now()

	return s.withWriteLock(ctx, func() error {
		db, err := s.open(ctx, true)
		if err != nil {
			return err
		}
		defer db.Close()

		err = retryOnBusy(ctx, func() error {
			_, execErr := db.ExecContext(ctx, `
				INSERT INTO transcripts (video_id, format, url, title, transcript, model, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(video_id, format) DO UPDATE SET
					url = excluded.url,
					title = excluded.title,
					transcript = excluded.transcript,
					model = excluded.model,
					created_at = excluded.created_at`,
				string(entry.VideoID), string(entry.Format),
				nullableString(entry.URL), nullableString(entry.Title),
				entry.Transcript, nullableString(entry.Model), formatTime(createdAt))
			return execErr
		})
		if err != nil {
			return fmt.Errorf("cache put %s: %w", entry.VideoID, err)
		}
		s.logger.Debug("cached transcript",
			logging.String("video_id", string(entry.VideoID)),
			logging.String("format", string(entry.Format)),
			logging.Int("bytes", len(entry.Transcript)))
		return nil
	})
}

// Clear deletes every entry and returns how many were removed. A missing
// database clears nothing.
func (s *Store) Clear(ctx context.Context) (int, error) {
	ctx = ensureContext(ctx)
	if !s.exists() {
		return 0, nil
	}
	var removed int
	err := s.withWriteLock(ctx, func() error {
		db, err := s.open(ctx, false)
		if err != nil {
			return err
		}
		defer db.Close()

		return retryOnBusy(ctx, func() error {
			res, execErr := db.ExecContext(ctx, "DELETE FROM transcripts")
			if execErr != nil {
				return execErr
			}
			n, rowsErr := res.RowsAffected()
			if rowsErr != nil {
				return rowsErr
			}
			removed = int(n)
			return nil
		})
	})
	if err != nil {
		return 0, fmt.Errorf("cache clear: %w", err)
	}
	return removed, nil
}

// Stats reports entry count, file size, and the oldest and newest entry
// times. Expired entries are counted until Clear removes them.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	stats := Stats{Path: s.path}
	if !s.exists() {
		return stats, nil
	}
	db, err := s.open(ctx, false)
	if err != nil {
		return stats, fmt.Errorf("cache stats: %w", err)
	}
	defer db.Close()

	var oldest, newest sql.NullString
	err = retryOnBusy(ctx, func() error {
		return db.QueryRowContext(ctx,
			"SELECT COUNT(*), MIN(created_at), MAX(created_at) FROM transcripts",
		).Scan(&stats.Entries, &oldest, &newest)
	})
	if err != nil {
		return stats, fmt.Errorf("cache stats: %w", err)
	}
	if oldest.Valid {
		if t, parseErr := parseTimeString(oldest.String); parseErr == nil {
			stats.Oldest = t
		}
	}
	if newest.Valid {
		if t, parseErr := parseTimeString(newest.String); parseErr == nil {
			stats.Newest = t
		}
	}
	if info, statErr := os.Stat(s.path); statErr == nil {
		stats.SizeBytes = info.Size()
	}
	return stats, nil
}

func (s *Store) warnUnavailable(op string, err error) {
	logging.WarnWithContext(s.logger, "transcript cache unavailable", "cache_unavailable",
		logging.String("operation", op),
		logging.String("path", s.path),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "run 'vidscribe cache clear' or delete the database file"),
		logging.String(logging.FieldImpact, "transcript will be recomputed"),
	)
}

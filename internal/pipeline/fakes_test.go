package pipeline

import (
	"context"
	"errors"
	"os"
	"sync"

	"vidscribe/internal/cache"
	"vidscribe/internal/media/ffprobe"
	"vidscribe/internal/services/ytdlp"
	"vidscribe/internal/transcript"
	"vidscribe/internal/videoid"
)

type fakeDownloader struct {
	mu           sync.Mutex
	titles       map[string]string
	metaErr      map[string]error
	captions     bool
	metaCalls    []string
	audioCalls   []string
	captionCalls []string
}

func (d *fakeDownloader) FetchMetadata(_ context.Context, url string) (ytdlp.Metadata, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.metaCalls = append(d.metaCalls, url)
	if err := d.metaErr[url]; err != nil {
		return ytdlp.Metadata{}, err
	}
	title := d.titles[url]
	if title == "" {
		title = "Video"
	}
	return ytdlp.Metadata{Title: title, Duration: 61}, nil
}

func (d *fakeDownloader) FetchAudio(ctx context.Context, url, dest string) (string, error) {
	d.mu.Lock()
	d.audioCalls = append(d.audioCalls, url)
	d.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.WriteFile(dest, []byte("mp3"), 0o644); err != nil {
		return "", err
	}
	return dest, nil
}

func (d *fakeDownloader) FetchNativeCaptions(_ context.Context, url, base string, format transcript.Format) (ytdlp.Captions, bool, error) {
	d.mu.Lock()
	d.captionCalls = append(d.captionCalls, url)
	d.mu.Unlock()
	if !d.captions {
		return ytdlp.Captions{}, false, nil
	}
	path := base + ".txt"
	if err := os.WriteFile(path, []byte("caption text"), 0o644); err != nil {
		return ytdlp.Captions{}, false, err
	}
	return ytdlp.Captions{Paths: []string{path}, Text: "caption text"}, true, nil
}

func (d *fakeDownloader) calls() (meta, audio, captions int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.metaCalls), len(d.audioCalls), len(d.captionCalls)
}

type fakeEngine struct {
	segments   []transcript.Segment
	err        error
	onCall     func(n int)
	calls      []string
	extracted  []string
	extractErr error
}

func (e *fakeEngine) Transcribe(ctx context.Context, audio, _ string) ([]transcript.Segment, transcript.Info, error) {
	e.calls = append(e.calls, audio)
	if e.onCall != nil {
		e.onCall(len(e.calls))
	}
	if err := ctx.Err(); err != nil {
		return nil, transcript.Info{}, err
	}
	if e.err != nil {
		return nil, transcript.Info{}, e.err
	}
	return transcript.Clone(e.segments), transcript.Info{Language: "en", Duration: 2}, nil
}

func (e *fakeEngine) ExtractAudio(_ context.Context, video, dest string) error {
	e.extracted = append(e.extracted, video)
	if e.extractErr != nil {
		return e.extractErr
	}
	return os.WriteFile(dest, []byte("mp3"), 0o644)
}

func (e *fakeEngine) Model() string { return "base" }

type fakeDiarizer struct {
	turns []transcript.Turn
	err   error
}

func (d *fakeDiarizer) Diarize(context.Context, string, int) ([]transcript.Turn, error) {
	return d.turns, d.err
}

type cacheKey struct {
	id     videoid.ID
	format transcript.Format
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[cacheKey]cache.Entry
	puts    []cache.Entry
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[cacheKey]cache.Entry{}}
}

func (c *fakeCache) Get(_ context.Context, id videoid.ID, format transcript.Format) (cache.Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[cacheKey{id, format}]
	return e, ok
}

func (c *fakeCache) Put(_ context.Context, e cache.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e.VideoID == "" {
		return errors.New("missing id")
	}
	c.entries[cacheKey{e.VideoID, e.Format}] = e
	c.puts = append(c.puts, e)
	return nil
}

type fakeClipboard struct {
	copied []string
	err    error
}

func (c *fakeClipboard) Copy(_ context.Context, text string) error {
	c.copied = append(c.copied, text)
	return c.err
}

type fixedProber float64

func (p fixedProber) DurationSeconds(context.Context, string) float64 { return float64(p) }

type inspectingProber struct {
	fixedProber
	streams ffprobe.Result
	err     error
}

func (p inspectingProber) Inspect(context.Context, string) (ffprobe.Result, error) {
	return p.streams, p.err
}

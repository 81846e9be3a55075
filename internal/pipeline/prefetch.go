package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"vidscribe/internal/logging"
	"vidscribe/internal/services"
	"vidscribe/internal/services/ytdlp"
	"vidscribe/internal/source"
	"vidscribe/internal/videoid"
)

// prefetched holds what was fetched ahead of time for one URL input.
type prefetched struct {
	done  chan struct{}
	meta  ytdlp.Metadata
	base  string
	audio string
	err   error
	used  bool
}

type prefetcher struct {
	slots    []*prefetched
	cancel   context.CancelFunc
	finished chan struct{}
	logger   *slog.Logger
}

// startPrefetch dispatches metadata and audio downloads for URL inputs when
// there is more than one. Inputs with a fresh cache entry are skipped.
func (r *Runner) startPrefetch(ctx context.Context, inputs []string) *prefetcher {
	pf := &prefetcher{slots: make([]*prefetched, len(inputs)), logger: r.logger}
	if r.deps.Downloader == nil {
		return pf
	}
	var urls []int
	for i, input := range inputs {
		if !source.IsLocalFile(input) {
			urls = append(urls, i)
		}
	}
	if len(urls) < 2 {
		return pf
	}

	queued := 0
	for _, i := range urls {
		if _, hit := r.cacheLookup(ctx, videoid.Derive(inputs[i])); hit {
			continue
		}
		pf.slots[i] = &prefetched{done: make(chan struct{})}
		queued++
	}
	if queued == 0 {
		return pf
	}

	pctx, cancel := context.WithCancel(ctx)
	pf.cancel = cancel
	pf.finished = make(chan struct{})
	r.logger.Debug("prefetching batch downloads",
		logging.Int("urls", queued),
		logging.Int("concurrency", r.opts.Concurrency))

	go func() {
		defer close(pf.finished)
		var g errgroup.Group
		g.SetLimit(r.opts.Concurrency)
		for i, slot := range pf.slots {
			if slot == nil {
				continue
			}
			url := inputs[i]
			g.Go(func() error {
				defer close(slot.done)
				r.prefetchOne(pctx, i, url, slot)
				return nil
			})
		}
		_ = g.Wait()
	}()
	return pf
}

// prefetchAudioPath names the download for input i. Two inputs may share a
// title, so the path carries the identifier token and the input position.
func prefetchAudioPath(base, url string, i int) string {
	return fmt.Sprintf("%s.%s-%d%s", base, videoid.Derive(url).Token(), i+1, audioSuffix)
}

func (r *Runner) prefetchOne(ctx context.Context, i int, url string, slot *prefetched) {
	if err := ctx.Err(); err != nil {
		slot.err = err
		return
	}
	ctx = services.WithSourceID(ctx, videoid.Derive(url).String())
	meta, err := r.deps.Downloader.FetchMetadata(ctx, url)
	if err != nil {
		slot.err = err
		return
	}
	slot.meta = meta
	slot.base = r.outputBase(meta.Title)
	if err := ensureParentDir(slot.base); err != nil {
		slot.err = err
		return
	}
	audio, err := r.deps.Downloader.FetchAudio(ctx, url, prefetchAudioPath(slot.base, url, i))
	if err != nil {
		slot.err = err
		return
	}
	slot.audio = audio
}

// await blocks until input i's prefetch finishes and returns it, or nil when
// nothing usable was prefetched.
func (pf *prefetcher) await(ctx context.Context, i int) *prefetched {
	if i >= len(pf.slots) || pf.slots[i] == nil {
		return nil
	}
	slot := pf.slots[i]
	select {
	case <-slot.done:
	case <-ctx.Done():
		return nil
	}
	if slot.err != nil {
		if !errors.Is(slot.err, context.Canceled) {
			pf.logger.Debug("prefetch failed; fetching inline", logging.Error(slot.err))
		}
		return nil
	}
	slot.used = true
	return slot
}

// discard stops outstanding prefetches and removes audio nobody consumed.
func (pf *prefetcher) discard() {
	if pf.finished == nil {
		return
	}
	pf.cancel()
	<-pf.finished
	for _, slot := range pf.slots {
		if slot == nil || slot.used || slot.audio == "" {
			continue
		}
		if err := os.Remove(slot.audio); err != nil && !errors.Is(err, os.ErrNotExist) {
			pf.logger.Debug("remove unused prefetched audio failed", logging.Error(err))
		}
	}
}

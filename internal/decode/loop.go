package decode

import (
	"context"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DEFAULT_INTERVAL is the decode tick period: frequent enough to feel
// instant at the door, coarse enough not to saturate the decoder.
const DEFAULT_INTERVAL = 500 * time.Millisecond

// FrameSource produces capture frames. *camera.Session satisfies this.
type FrameSource interface {
	Frame(ctx context.Context) (image.Image, error)
}

// Loop runs the recurring frame-sampling/decode attempt.
//
// Ticks never overlap: when a decode is still in flight as the next tick
// fires, that tick is skipped rather than queued, so a slow decoder cannot
// build up a frame backlog. Cancelling the context stops the loop; Run does
// not return until the in-flight decode attempt has finished, so no tick
// outlives the session.
type Loop struct {
	interval time.Duration
	decoder  Decoder
	logger   *slog.Logger

	busy atomic.Bool
	wg   sync.WaitGroup
}

func NewLoop(decoder Decoder, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DEFAULT_INTERVAL
	}
	return &Loop{
		interval: interval,
		decoder:  decoder,
		logger:   slog.With("component", "decode"),
	}
}

// Run samples frames until ctx is cancelled. Every decoded payload is
// passed to onCode on its own goroutine: a slow handler (a submission in
// flight) must not stall scanning, and the handler is responsible for
// discarding results that arrive after its session stopped.
func (l *Loop) Run(ctx context.Context, frames FrameSource, onCode func(string)) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.wg.Wait()
			return
		case <-ticker.C:
			if !l.busy.CompareAndSwap(false, true) {
				// Previous decode still in flight: skip, never queue.
				continue
			}
			l.wg.Add(1)
			go l.tick(ctx, frames, onCode)
		}
	}
}

func (l *Loop) tick(ctx context.Context, frames FrameSource, onCode func(string)) {
	defer l.wg.Done()
	defer l.busy.Store(false)

	img, err := frames.Frame(ctx)
	if err != nil {
		// Includes the session being stopped under us; either way there is
		// nothing to decode and nothing to report.
		l.logger.Debug("No frame for this tick", "error", err)
		return
	}

	payload, found := l.decoder.Decode(img)
	if !found {
		return
	}
	if ctx.Err() != nil {
		return
	}
	go onCode(payload)
}

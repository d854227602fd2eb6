// Package plot observes a running algorithm through its snapshot feed and
// renders the progress, as PNG charts or on a terminal screen.
//
// The observer runs in its own goroutine and only ever reads from the feed,
// so a slow or failing renderer cannot stall the algorithm.
package plot

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/baldhumanity/evolve-go/evolve"
)

// DefaultCadence is the default interval between two renders.
const DefaultCadence = time.Second / 6

// Renderer draws one snapshot.
type Renderer[T any] interface {
	Render(s evolve.Snapshot[T]) error
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc[T any] func(s evolve.Snapshot[T]) error

func (f RendererFunc[T]) Render(s evolve.Snapshot[T]) error {
	return f(s)
}

// Renderers hands every snapshot to each renderer in turn.
type Renderers[T any] []Renderer[T]

func (rs Renderers[T]) Render(s evolve.Snapshot[T]) error {
	var errs []error
	for _, r := range rs {
		if err := r.Render(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Observer polls a snapshot stream at a fixed cadence and renders the newest
// snapshot it has seen since the previous tick.
type Observer[T any] struct {
	renderer Renderer[T]
	cadence  time.Duration
	logger   *slog.Logger

	rendered atomic.Uint64
	failed   atomic.Uint64
}

// NewObserver creates an observer. A non-positive cadence means DefaultCadence.
func NewObserver[T any](renderer Renderer[T], cadence time.Duration, logger *slog.Logger) *Observer[T] {
	if cadence <= 0 {
		cadence = DefaultCadence
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Observer[T]{
		renderer: renderer,
		cadence:  cadence,
		logger:   logger.With(slog.String("component", "plot")),
	}
}

// Run renders until the stream is closed, after drawing its last snapshot,
// or until ctx is done. Renderer errors are logged and do not end the loop.
func (o *Observer[T]) Run(ctx context.Context, snapshots <-chan evolve.Snapshot[T]) error {
	ticker := time.NewTicker(o.cadence)
	defer ticker.Stop()

	var latest evolve.Snapshot[T]
	pending := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

	drain:
		for {
			select {
			case s, ok := <-snapshots:
				if !ok {
					if pending {
						o.render(latest)
					}
					return nil
				}
				latest, pending = s, true
			default:
				break drain
			}
		}

		if pending {
			o.render(latest)
			pending = false
		}
	}
}

func (o *Observer[T]) render(s evolve.Snapshot[T]) {
	if err := o.renderer.Render(s); err != nil {
		o.failed.Add(1)
		o.logger.Warn("failed to render progress", slog.Int("generation", s.Generation), slog.Any("error", err))
		return
	}
	o.rendered.Add(1)
}

// Rendered returns the number of successful renders.
func (o *Observer[T]) Rendered() uint64 { return o.rendered.Load() }

// Failed returns the number of renders that returned an error.
func (o *Observer[T]) Failed() uint64 { return o.failed.Load() }

// Run observes feed with the default logger until the feed is closed or ctx is done.
func Run[T any](ctx context.Context, feed *evolve.Feed[T], renderer Renderer[T], cadence time.Duration) error {
	return NewObserver(renderer, cadence, nil).Run(ctx, feed.Snapshots())
}

package audit

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/yourorg/mls-search-api/internal/events"
)

const (
	writeTimeout = 5 * time.Second
	drainTimeout = 5 * time.Second
)

// Writer persists one search event; *store.Store satisfies it.
type Writer interface {
	RecordSearch(ctx context.Context, evt events.SearchCompleted) error
}

// Recorder consumes search.completed events and writes them with a pool of workers.
// Without a Writer the events are only logged at debug level.
type Recorder struct {
	Pub     events.Publisher
	Writer  Writer
	Workers int
	Log     *slog.Logger
	// DrainTimeout bounds how long buffered events are still written after ctx ends.
	DrainTimeout time.Duration
	// OnDrop is called for every buffered event left unwritten at shutdown.
	OnDrop func()
}

// Run blocks until ctx is cancelled, the buffer is drained and every worker has returned.
func (r *Recorder) Run(ctx context.Context) {
	log := r.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	workers := r.Workers
	if workers <= 0 {
		workers = 2
	}
	drain := r.DrainTimeout
	if drain <= 0 {
		drain = drainTimeout
	}
	sub := r.Pub.SubscribeSearchCompleted()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if ctx.Err() != nil {
					r.drain(log, sub, time.Now().Add(drain))
					return
				}
				select {
				case <-ctx.Done():
				case evt := <-sub:
					r.record(log, evt)
				}
			}
		}()
	}
	wg.Wait()
}

// drain writes what is still buffered until deadline, then counts the rest as dropped.
func (r *Recorder) drain(log *slog.Logger, sub <-chan events.SearchCompleted, deadline time.Time) {
	dropped := 0
	for {
		select {
		case evt := <-sub:
			if time.Now().Before(deadline) {
				r.record(log, evt)
				continue
			}
			dropped++
			if r.OnDrop != nil {
				r.OnDrop()
			}
		default:
			if dropped > 0 {
				log.Warn("audit events dropped at shutdown", "count", dropped)
			}
			return
		}
	}
}

func (r *Recorder) record(log *slog.Logger, evt events.SearchCompleted) {
	if r.Writer == nil {
		log.Debug("search completed", "provider", evt.Provider, "mode", evt.Mode,
			"status", evt.Status, "results", evt.ResultCount)
		return
	}
	// detached from the request; the HTTP response has already gone out
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := r.Writer.RecordSearch(ctx, evt); err != nil {
		log.Warn("audit write failed", "provider", evt.Provider, "err", err)
	}
}

package events

import (
	"context"
	"time"
)

// SearchCompleted describes one proxied search that reached the upstream step.
type SearchCompleted struct {
	Provider    string
	Mode        string // "mls" or "address"
	MLS         string
	Address     string
	City        string
	Status      int
	ResultCount int
	MLSNumbers  []string
	// PropertyKeys holds the canonical address key of each result, for
	// matching the same property across providers.
	PropertyKeys []string
	Duration     time.Duration
	At           time.Time
}

type Publisher interface {
	PublishSearchCompleted(ctx context.Context, evt SearchCompleted) bool
	SubscribeSearchCompleted() <-chan SearchCompleted
}

type inMemory struct {
	ch     chan SearchCompleted
	onDrop func()
}

// NewInMemory returns a buffered publisher. Publishing never blocks: when the buffer
// is full the event is dropped and onDrop (if set) is called.
func NewInMemory(buffer int, onDrop func()) Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &inMemory{ch: make(chan SearchCompleted, buffer), onDrop: onDrop}
}

func (m *inMemory) PublishSearchCompleted(_ context.Context, evt SearchCompleted) bool {
	select {
	case m.ch <- evt:
		return true
	default:
		if m.onDrop != nil {
			m.onDrop()
		}
		return false
	}
}

func (m *inMemory) SubscribeSearchCompleted() <-chan SearchCompleted { return m.ch }

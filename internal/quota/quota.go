package quota

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"
)

// ErrDailyLimitExceeded is returned once a provider has used up today's allowance.
var ErrDailyLimitExceeded = errors.New("daily upstream quota exceeded")

// Counter is an atomic counter with expiry; *redisx.Client satisfies it.
type Counter interface {
	IncrExpire(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Daily caps upstream searches per provider per UTC day.
type Daily struct {
	counter Counter
	limit   int64
	log     *slog.Logger
	now     func() time.Time
}

func NewDaily(counter Counter, limit int, log *slog.Logger) *Daily {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Daily{counter: counter, limit: int64(limit), log: log, now: time.Now}
}

// Take consumes one unit for provider. A limit <= 0 or a missing counter disables the
// check; counter failures are logged and let the request through.
func (d *Daily) Take(ctx context.Context, provider string) error {
	if d == nil || d.counter == nil || d.limit <= 0 {
		return nil
	}
	key := Key(provider, d.now())
	n, err := d.counter.IncrExpire(ctx, key, 24*time.Hour)
	if err != nil {
		d.log.Warn("quota counter unavailable; allowing request", "provider", provider, "err", err)
		return nil
	}
	if n > d.limit {
		return ErrDailyLimitExceeded
	}
	return nil
}

func Key(provider string, t time.Time) string {
	return "mls:quota:" + provider + ":" + t.UTC().Format("2006-01-02")
}

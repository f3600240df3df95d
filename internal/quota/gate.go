package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// counterTTL is how long a counter lives after its most recent
// increment. Expiry is re-armed on every write, so the window is a
// rolling 24 hours from the last request rather than a strict
// UTC-midnight reset. That behavior is intentional; keep it.
const counterTTL = 24 * time.Hour

// TotalKey aggregates usage across all principals for the day.
const TotalKey = "total"

// Store is the shared counter store the gate writes to. Both operations
// must be atomic on the store's side; the gate never locks.
type Store interface {
	// Incr atomically increments the counter and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)
	// Expire (re)sets the counter's time-to-live.
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// ExceededError is returned when a principal has used up its daily budget.
type ExceededError struct {
	Limit int
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("Daily quota of %d requests exceeded.", e.Limit)
}

// Gate enforces a per-principal daily request budget against a shared
// counter store. A nil store disables enforcement entirely: the gate
// fails open, favoring availability over strict accounting.
type Gate struct {
	store Store
	limit int
}

// NewGate creates a quota gate. Pass a nil store to run the gate as a
// no-op admit-everything filter.
func NewGate(store Store, limit int) *Gate {
	return &Gate{store: store, limit: limit}
}

// Check consumes one unit of the subject's daily budget and reports
// whether the request is admitted. The increment happens before the
// limit comparison, so the rejecting request still consumes quota; the
// original design has no conditional decrement and we preserve that.
//
// Store failures are swallowed and the request admitted (fail-open).
func (g *Gate) Check(ctx context.Context, subjectID string) error {
	if g.store == nil {
		return nil
	}

	day := time.Now().UTC().Format("2006-01-02")

	count, err := g.bump(ctx, counterKey(subjectID, day))
	if err != nil {
		logrus.Warnf("Quota store unavailable, admitting request: %v", err)
		return nil
	}
	if _, err := g.bump(ctx, counterKey(TotalKey, day)); err != nil {
		logrus.Warnf("Quota total counter increment failed: %v", err)
	}

	if count > int64(g.limit) {
		return &ExceededError{Limit: g.limit}
	}
	return nil
}

// bump increments a counter and re-arms its expiry.
func (g *Gate) bump(ctx context.Context, key string) (int64, error) {
	count, err := g.store.Incr(ctx, key)
	if err != nil {
		return 0, err
	}
	if err := g.store.Expire(ctx, key, counterTTL); err != nil {
		logrus.Warnf("Failed to set expiry on %s: %v", key, err)
	}
	return count, nil
}

func counterKey(subject, day string) string {
	return fmt.Sprintf("quota:%s:%s", subject, day)
}

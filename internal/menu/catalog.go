// Package menu serves the catalog of purchasable items. Backend
// failures never propagate to callers: the catalog degrades to a fixed
// demo menu instead, with a circuit breaker keeping a flapping database
// from being hammered.
package menu

import (
	"context"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"storefront-system/internal/logger"
	"storefront-system/internal/models"
)

// DefaultPollInterval is how often a subscription refreshes its snapshot.
const DefaultPollInterval = 30 * time.Second

// Store fetches catalog items from a backend.
type Store interface {
	ListMenuItems(ctx context.Context) ([]models.MenuItem, error)
}

// Catalog is the menu catalog source consumed by the storefront.
type Catalog struct {
	store        Store
	breaker      *gobreaker.CircuitBreaker
	logger       *logger.Logger
	pollInterval time.Duration
}

// NewCatalog creates a catalog over the given store.
func NewCatalog(store Store, log *logger.Logger) *Catalog {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "menu-catalog",
		MaxRequests: 3,
		Interval:    15 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Info("circuit_state_changed", "Menu catalog circuit breaker state changed", "", map[string]interface{}{
				"circuit": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	})

	return &Catalog{
		store:        store,
		breaker:      breaker,
		logger:       log,
		pollInterval: DefaultPollInterval,
	}
}

// Items returns the current catalog snapshot. When the backend is
// unavailable (or the breaker is open) the fixed demo catalog is
// returned instead of an error.
func (c *Catalog) Items(ctx context.Context) []models.MenuItem {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.store.ListMenuItems(ctx)
	})
	if err != nil {
		c.logger.Error("menu_fetch_failed", "Falling back to demo catalog", "", err, map[string]interface{}{
			"circuit_state": c.breaker.State().String(),
		})
		return FallbackItems()
	}

	items := result.([]models.MenuItem)
	if len(items) == 0 {
		return FallbackItems()
	}
	return items
}

// Subscription delivers full catalog snapshots over C until Unsubscribe
// is called or the parent context is cancelled. Unsubscribe is idempotent
// and side-effect-free after the first call.
type Subscription struct {
	C <-chan []models.MenuItem

	cancel context.CancelFunc
	once   sync.Once
}

// Unsubscribe stops the feed and releases its goroutine.
func (s *Subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}

// Subscribe starts a snapshot feed. The first snapshot is delivered
// immediately, then one per poll interval. Slow consumers miss
// intermediate snapshots rather than blocking the feed.
func (c *Catalog) Subscribe(ctx context.Context) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	ch := make(chan []models.MenuItem, 1)

	go func() {
		defer close(ch)

		ticker := time.NewTicker(c.pollInterval)
		defer ticker.Stop()

		c.deliver(ctx, ch)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.deliver(ctx, ch)
			}
		}
	}()

	return &Subscription{C: ch, cancel: cancel}
}

// deliver sends a snapshot, dropping the stale one if the consumer has
// not drained the channel yet.
func (c *Catalog) deliver(ctx context.Context, ch chan []models.MenuItem) {
	items := c.Items(ctx)

	select {
	case ch <- items:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- items:
		default:
		}
	}
}

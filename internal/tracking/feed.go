// Package tracking turns the status fanout queue into per-order
// subscription feeds for post-submission tracking.
package tracking

import (
	"context"
	"fmt"
	"sync"

	"storefront-system/internal/logger"
	"storefront-system/internal/messaging"
	"storefront-system/internal/models"
)

// subscriptionBuffer bounds how many undelivered updates a subscriber
// may lag behind before older ones are dropped.
const subscriptionBuffer = 16

// StreamConsumer is the message stream the feed reads from.
type StreamConsumer interface {
	StartConsuming(ctx context.Context, handler messaging.MessageHandler) error
}

// StatusFeed consumes order status updates and dispatches them to
// subscribers. A subscriber either follows a single order number or the
// whole stream.
type StatusFeed struct {
	consumer StreamConsumer
	logger   *logger.Logger

	mu     sync.Mutex
	nextID int
	subs   map[int]*feedSub
}

type feedSub struct {
	orderNumber string // empty means all orders
	ch          chan models.StatusUpdateMessage
}

// NewStatusFeed creates a feed over the given consumer.
func NewStatusFeed(consumer StreamConsumer, log *logger.Logger) *StatusFeed {
	return &StatusFeed{
		consumer: consumer,
		logger:   log,
		subs:     make(map[int]*feedSub),
	}
}

// Start consumes the status queue until the context is cancelled. All
// open subscription channels are closed on return.
func (f *StatusFeed) Start(ctx context.Context) error {
	err := f.consumer.StartConsuming(ctx, f.handleMessage)
	f.closeAll()
	return err
}

// StatusSubscription is a handle on a stream of status updates.
// Unsubscribe is idempotent and side-effect-free after the first call.
type StatusSubscription struct {
	C <-chan models.StatusUpdateMessage

	remove func()
	once   sync.Once
}

// Unsubscribe detaches the subscriber from the feed.
func (s *StatusSubscription) Unsubscribe() {
	s.once.Do(s.remove)
}

// Subscribe returns a feed of status updates for one order number.
func (f *StatusFeed) Subscribe(orderNumber string) *StatusSubscription {
	return f.subscribe(orderNumber)
}

// SubscribeAll returns a feed of every status update on the stream.
func (f *StatusFeed) SubscribeAll() *StatusSubscription {
	return f.subscribe("")
}

func (f *StatusFeed) subscribe(orderNumber string) *StatusSubscription {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++

	sub := &feedSub{
		orderNumber: orderNumber,
		ch:          make(chan models.StatusUpdateMessage, subscriptionBuffer),
	}
	f.subs[id] = sub

	return &StatusSubscription{
		C: sub.ch,
		remove: func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			if current, ok := f.subs[id]; ok {
				delete(f.subs, id)
				close(current.ch)
			}
		},
	}
}

// handleMessage parses one status update and fans it out.
func (f *StatusFeed) handleMessage(ctx context.Context, body []byte) error {
	var update models.StatusUpdateMessage
	if err := messaging.ParseMessage(body, &update); err != nil {
		return fmt.Errorf("failed to parse status update: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, sub := range f.subs {
		if sub.orderNumber != "" && sub.orderNumber != update.OrderNumber {
			continue
		}
		select {
		case sub.ch <- update:
		default:
			f.logger.Debug("status_update_dropped", "Subscriber lagging, dropping update", "", map[string]interface{}{
				"order_number": update.OrderNumber,
				"new_status":   string(update.NewStatus),
			})
		}
	}

	return nil
}

// closeAll closes every remaining subscription channel.
func (f *StatusFeed) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for id, sub := range f.subs {
		delete(f.subs, id)
		close(sub.ch)
	}
}

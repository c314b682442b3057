// Package notification renders order status updates as human-readable
// console output.
package notification

import (
	"context"
	"fmt"

	"storefront-system/internal/logger"
	"storefront-system/internal/models"
	"storefront-system/internal/tracking"
)

// Subscriber follows the status feed and prints every update.
type Subscriber struct {
	feed   *tracking.StatusFeed
	logger *logger.Logger
}

// NewSubscriber creates a notification subscriber over the given feed.
func NewSubscriber(feed *tracking.StatusFeed, log *logger.Logger) *Subscriber {
	return &Subscriber{
		feed:   feed,
		logger: log,
	}
}

// Start consumes the status feed until the context is cancelled.
func (s *Subscriber) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()

	sub := s.feed.SubscribeAll()
	defer sub.Unsubscribe()

	s.logger.Info("service_started", "Notification subscriber started", requestID, nil)

	done := make(chan error, 1)
	go func() {
		done <- s.feed.Start(ctx)
	}()

	for update := range sub.C {
		s.display(&update)
	}

	return <-done
}

// display prints a human-readable notification and logs the structured
// counterpart.
func (s *Subscriber) display(update *models.StatusUpdateMessage) {
	fmt.Println(s.format(update))

	s.logger.Info("notification_displayed", "Notification displayed to user", "", map[string]interface{}{
		"order_number": update.OrderNumber,
		"old_status":   string(update.OldStatus),
		"new_status":   string(update.NewStatus),
		"changed_by":   update.ChangedBy,
	})
}

// format renders one status update as a console line.
func (s *Subscriber) format(update *models.StatusUpdateMessage) string {
	timestamp := update.Timestamp.Format("2006-01-02 15:04:05")

	switch update.NewStatus {
	case models.StatusConfirmed:
		return fmt.Sprintf("✅ [%s] Order %s has been confirmed by the restaurant.",
			timestamp, update.OrderNumber)
	case models.StatusPreparing:
		if update.EstimatedCompletion != nil {
			return fmt.Sprintf("🍳 [%s] Order %s is being prepared. Estimated completion: %s",
				timestamp, update.OrderNumber, update.EstimatedCompletion.Format("15:04:05"))
		}
		return fmt.Sprintf("🍳 [%s] Order %s is being prepared.",
			timestamp, update.OrderNumber)
	case models.StatusReady:
		return fmt.Sprintf("📦 [%s] Order %s is ready and out for delivery!",
			timestamp, update.OrderNumber)
	case models.StatusDelivered:
		return fmt.Sprintf("🎉 [%s] Order %s has been delivered. Enjoy your meal!",
			timestamp, update.OrderNumber)
	default:
		return fmt.Sprintf("📋 [%s] Order %s status changed from '%s' to '%s' by %s.",
			timestamp, update.OrderNumber, update.OldStatus, update.NewStatus, update.ChangedBy)
	}
}

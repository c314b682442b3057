package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"storefront-system/internal/logger"
	"storefront-system/internal/models"
)

func TestFormat(t *testing.T) {
	s := NewSubscriber(nil, logger.New("test"))
	timestamp := time.Date(2025, 3, 14, 12, 30, 0, 0, time.UTC)

	update := &models.StatusUpdateMessage{
		OrderNumber: "ORD_20250314_001",
		OldStatus:   models.StatusPending,
		NewStatus:   models.StatusConfirmed,
		ChangedBy:   "worker-1",
		Timestamp:   timestamp,
	}
	assert.Contains(t, s.format(update), "Order ORD_20250314_001 has been confirmed")
	assert.Contains(t, s.format(update), "2025-03-14 12:30:00")

	update.NewStatus = models.StatusPreparing
	estimated := timestamp.Add(10 * time.Second)
	update.EstimatedCompletion = &estimated
	assert.Contains(t, s.format(update), "Estimated completion: 12:30:10")

	update.NewStatus = models.StatusDelivered
	assert.Contains(t, s.format(update), "has been delivered")

	update.NewStatus = models.OrderStatus("cancelled")
	assert.Contains(t, s.format(update), "status changed from 'pending' to 'cancelled'")
}

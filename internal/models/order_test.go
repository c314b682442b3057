package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextStatus(t *testing.T) {
	chain := []OrderStatus{StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusDelivered}

	for i := 0; i < len(chain)-1; i++ {
		next, ok := NextStatus(chain[i])
		assert.True(t, ok)
		assert.Equal(t, chain[i+1], next)
	}

	_, ok := NextStatus(StatusDelivered)
	assert.False(t, ok)

	_, ok = NextStatus(OrderStatus("cancelled"))
	assert.False(t, ok)
}

func TestGenerateOrderNumber(t *testing.T) {
	date := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "ORD_20250314_007", GenerateOrderNumber(date, 7))
}

func TestLineTotal(t *testing.T) {
	line := CartLine{MenuItem: MenuItem{ID: "1", Price: 12.99}, Quantity: 2}
	assert.InDelta(t, 25.98, line.LineTotal(), 0.0001)
}

package models

import (
	"fmt"
	"time"
)

// OrderPlacedMessage is sent to the fulfillment topic exchange when a
// checkout succeeds.
type OrderPlacedMessage struct {
	OrderNumber string       `json:"order_number"`
	Customer    CustomerInfo `json:"customer_info"`
	Lines       []CartLine   `json:"items"`
	Subtotal    float64      `json:"subtotal"`
	DeliveryFee float64      `json:"delivery_fee"`
	Total       float64      `json:"total_amount"`
}

// StatusUpdateMessage is broadcast on the status fanout exchange each
// time an order moves through the fulfillment chain.
type StatusUpdateMessage struct {
	OrderNumber         string      `json:"order_number"`
	OldStatus           OrderStatus `json:"old_status"`
	NewStatus           OrderStatus `json:"new_status"`
	ChangedBy           string      `json:"changed_by"`
	Timestamp           time.Time   `json:"timestamp"`
	EstimatedCompletion *time.Time  `json:"estimated_completion,omitempty"`
}

// NewOrderPlacedMessage builds the fulfillment message for a persisted order.
func NewOrderPlacedMessage(req *OrderRequest, orderNumber string) *OrderPlacedMessage {
	return &OrderPlacedMessage{
		OrderNumber: orderNumber,
		Customer:    req.Customer,
		Lines:       req.Lines,
		Subtotal:    req.Subtotal,
		DeliveryFee: req.DeliveryFee,
		Total:       req.Total,
	}
}

// NewStatusUpdateMessage builds a status change notification.
func NewStatusUpdateMessage(orderNumber string, oldStatus, newStatus OrderStatus, changedBy string, estimatedCompletion *time.Time) *StatusUpdateMessage {
	return &StatusUpdateMessage{
		OrderNumber:         orderNumber,
		OldStatus:           oldStatus,
		NewStatus:           newStatus,
		ChangedBy:           changedBy,
		Timestamp:           time.Now().UTC(),
		EstimatedCompletion: estimatedCompletion,
	}
}

// StageDuration returns how long the simulated fulfillment side holds an
// order in the given status before advancing it.
func StageDuration(status OrderStatus) time.Duration {
	switch status {
	case StatusPending:
		return 2 * time.Second
	case StatusConfirmed:
		return 4 * time.Second
	case StatusPreparing:
		return 10 * time.Second
	case StatusReady:
		return 6 * time.Second
	default:
		return 0
	}
}

// FulfillmentRoutingKey generates the routing key for order placed messages.
func FulfillmentRoutingKey(status OrderStatus) string {
	return fmt.Sprintf("fulfillment.%s", status)
}

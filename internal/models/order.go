package models

import (
	"fmt"
	"time"
)

// OrderStatus represents the lifecycle state of a placed order.
// The storefront only ever writes the initial "pending"; every later
// transition is owned by the fulfillment side.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
)

// NextStatus returns the status that follows s in the fulfillment chain
// and false when s is terminal or unknown.
func NextStatus(s OrderStatus) (OrderStatus, bool) {
	switch s {
	case StatusPending:
		return StatusConfirmed, true
	case StatusConfirmed:
		return StatusPreparing, true
	case StatusPreparing:
		return StatusReady, true
	case StatusReady:
		return StatusDelivered, true
	default:
		return "", false
	}
}

// CustomerInfo is the contact data collected at checkout.
type CustomerInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// OrderRequest is the immutable snapshot handed to the persistence sink.
// It is constructed once per checkout attempt and never mutated locally
// afterwards; the sink assigns the order number and all later statuses.
type OrderRequest struct {
	Lines       []CartLine   `json:"items"`
	Subtotal    float64      `json:"subtotal"`
	DeliveryFee float64      `json:"delivery_fee"`
	Total       float64      `json:"total"`
	Customer    CustomerInfo `json:"customer_info"`
	Status      OrderStatus  `json:"status"`
}

// Order is a persisted order as read back for tracking.
type Order struct {
	ID          int         `json:"id,omitempty" db:"id"`
	CreatedAt   time.Time   `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at,omitempty" db:"updated_at"`
	Number      string      `json:"order_number" db:"number"`
	Customer    CustomerInfo `json:"customer_info"`
	Lines       []CartLine  `json:"items,omitempty"`
	Subtotal    float64     `json:"subtotal" db:"subtotal"`
	DeliveryFee float64     `json:"delivery_fee" db:"delivery_fee"`
	Total       float64     `json:"total_amount" db:"total_amount"`
	Status      OrderStatus `json:"status" db:"status"`
	CompletedAt *time.Time  `json:"completed_at,omitempty" db:"completed_at"`
}

// CreateOrderResponse is returned by the storefront after checkout.
type CreateOrderResponse struct {
	OrderNumber string  `json:"order_number"`
	Status      string  `json:"status"`
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"delivery_fee"`
	TotalAmount float64 `json:"total_amount"`
}

// OrderStatusHistory is one entry in the order status log.
type OrderStatusHistory struct {
	Status    OrderStatus `json:"status" db:"status"`
	ChangedBy string      `json:"changed_by" db:"changed_by"`
	ChangedAt time.Time   `json:"timestamp" db:"changed_at"`
	Notes     *string     `json:"notes,omitempty" db:"notes"`
}

// OrderTrackingResponse is the response for order status lookups.
type OrderTrackingResponse struct {
	OrderNumber         string     `json:"order_number"`
	CurrentStatus       string     `json:"current_status"`
	UpdatedAt           time.Time  `json:"updated_at"`
	EstimatedCompletion *time.Time `json:"estimated_completion,omitempty"`
}

// GenerateOrderNumber builds an order number in the ORD_YYYYMMDD_NNN format.
func GenerateOrderNumber(date time.Time, sequence int) string {
	return fmt.Sprintf("ORD_%s_%03d", date.Format("20060102"), sequence)
}

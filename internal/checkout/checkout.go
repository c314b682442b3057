// Package checkout converts a cart snapshot plus customer contact data
// into a persisted order and tracks the outcome of each attempt.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"storefront-system/internal/cart"
	"storefront-system/internal/logger"
	"storefront-system/internal/models"
)

// DeliveryFee is the fixed fee added on top of the cart subtotal at
// checkout. It is not part of cart state.
const DeliveryFee = 2.99

// Validation and persistence failures surfaced by Submit.
var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrMissingContactInfo = errors.New("customer name, phone and address are required")
	ErrInvalidTotal       = errors.New("order total must be greater than zero")
	ErrPersistence        = errors.New("order could not be persisted")
	ErrSubmissionInFlight = errors.New("an order submission is already in flight")
)

// State is the submission state of the flow.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Sink persists an order request and assigns its order number.
type Sink interface {
	Submit(ctx context.Context, req *models.OrderRequest) (string, error)
}

// Flow runs checkout attempts against a cart. Each attempt moves
// Idle -> Submitting -> Succeeded or Failed; a failed attempt leaves the
// cart untouched so the caller can simply submit again. Submit must not
// be called concurrently for the same cart; a second call while one is
// in flight is rejected with ErrSubmissionInFlight.
type Flow struct {
	sink   Sink
	logger *logger.Logger

	mu          sync.Mutex
	state       State
	orderNumber string
}

// NewFlow creates a checkout flow backed by the given persistence sink.
func NewFlow(sink Sink, log *logger.Logger) *Flow {
	return &Flow{
		sink:   sink,
		logger: log,
	}
}

// State returns the state of the most recent attempt.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// OrderNumber returns the number assigned by the sink for the last
// successful attempt, or the empty string.
func (f *Flow) OrderNumber() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orderNumber
}

// Submit validates the cart and contact info, hands the constructed
// order to the sink and clears the cart on success. It returns the
// sink-assigned order number.
func (f *Flow) Submit(ctx context.Context, c *cart.Cart, customer models.CustomerInfo, requestID string) (string, error) {
	if err := f.begin(); err != nil {
		return "", err
	}

	req, err := f.buildRequest(c, customer)
	if err != nil {
		f.finish(StateFailed, "")
		f.logger.Error("checkout_validation_failed", "Order validation failed", requestID, err, nil)
		return "", err
	}

	orderNumber, err := f.sink.Submit(ctx, req)
	if err != nil {
		f.finish(StateFailed, "")
		f.logger.Error("order_persistence_failed", "Failed to persist order", requestID, err, map[string]interface{}{
			"total_amount": req.Total,
		})
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// The cart is only cleared once the sink has accepted the order.
	c.Clear()
	f.finish(StateSucceeded, orderNumber)

	f.logger.Info("order_placed", "Order submitted successfully", requestID, map[string]interface{}{
		"order_number": orderNumber,
		"total_amount": req.Total,
	})

	return orderNumber, nil
}

// buildRequest snapshots the cart and validates the attempt. The first
// failing precondition is reported.
func (f *Flow) buildRequest(c *cart.Cart, customer models.CustomerInfo) (*models.OrderRequest, error) {
	lines := c.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	customer.Name = strings.TrimSpace(customer.Name)
	customer.Phone = strings.TrimSpace(customer.Phone)
	customer.Address = strings.TrimSpace(customer.Address)
	if customer.Name == "" || customer.Phone == "" || customer.Address == "" {
		return nil, ErrMissingContactInfo
	}

	subtotal := c.Subtotal()
	total := subtotal + DeliveryFee
	if total <= 0 {
		// Unreachable while the cart is non-empty and prices are
		// non-negative, kept as an invariant check.
		return nil, ErrInvalidTotal
	}

	return &models.OrderRequest{
		Lines:       lines,
		Subtotal:    subtotal,
		DeliveryFee: DeliveryFee,
		Total:       total,
		Customer:    customer,
		Status:      models.StatusPending,
	}, nil
}

func (f *Flow) begin() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateSubmitting {
		return ErrSubmissionInFlight
	}

	f.state = StateSubmitting
	f.orderNumber = ""
	return nil
}

func (f *Flow) finish(state State, orderNumber string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.state = state
	f.orderNumber = orderNumber
}

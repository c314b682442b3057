package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront-system/internal/cart"
	"storefront-system/internal/logger"
	"storefront-system/internal/models"
)

type MockSink struct {
	mock.Mock
}

func (m *MockSink) Submit(ctx context.Context, req *models.OrderRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func validCustomer() models.CustomerInfo {
	return models.CustomerInfo{Name: "Alex Doe", Phone: "555-0100", Address: "1 Main St"}
}

func cartWith(items ...models.MenuItem) *cart.Cart {
	c := cart.New()
	for _, item := range items {
		c.AddItem(item)
	}
	return c
}

func TestSubmit_EmptyCart(t *testing.T) {
	sink := new(MockSink)
	flow := NewFlow(sink, logger.New("test"))

	_, err := flow.Submit(context.Background(), cart.New(), validCustomer(), "req_test")

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, StateFailed, flow.State())
	sink.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestSubmit_MissingContactInfo(t *testing.T) {
	sink := new(MockSink)
	flow := NewFlow(sink, logger.New("test"))
	c := cartWith(models.MenuItem{ID: "1", Name: "Margherita Pizza", Price: 12.99})

	cases := []models.CustomerInfo{
		{Name: "", Phone: "555", Address: "1 Main St"},
		{Name: "Alex", Phone: "   ", Address: "1 Main St"},
		{Name: "Alex", Phone: "555", Address: ""},
	}

	for _, customer := range cases {
		_, err := flow.Submit(context.Background(), c, customer, "req_test")
		assert.ErrorIs(t, err, ErrMissingContactInfo)
	}

	// Validation failures leave the cart untouched.
	assert.Len(t, c.Lines(), 1)
	sink.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestSubmit_Success(t *testing.T) {
	sink := new(MockSink)
	flow := NewFlow(sink, logger.New("test"))

	c := cartWith(models.MenuItem{ID: "1", Name: "Margherita Pizza", Price: 12.99})
	c.UpdateQuantity("1", 2)

	sink.On("Submit", mock.Anything, mock.MatchedBy(func(req *models.OrderRequest) bool {
		return len(req.Lines) == 1 &&
			req.Lines[0].Quantity == 2 &&
			req.Status == models.StatusPending &&
			req.Customer.Name == "Alex Doe"
	})).Return("ORD_20250314_001", nil).Once()

	orderNumber, err := flow.Submit(context.Background(), c, validCustomer(), "req_test")

	require.NoError(t, err)
	assert.Equal(t, "ORD_20250314_001", orderNumber)
	assert.Equal(t, StateSucceeded, flow.State())
	assert.Equal(t, "ORD_20250314_001", flow.OrderNumber())
	assert.Empty(t, c.Lines(), "cart must be cleared after a successful submission")
	assert.Zero(t, c.Subtotal())

	req := sink.Calls[0].Arguments.Get(1).(*models.OrderRequest)
	assert.InDelta(t, 25.98, req.Subtotal, 0.0001)
	assert.InDelta(t, 2.99, req.DeliveryFee, 0.0001)
	assert.InDelta(t, 28.97, req.Total, 0.0001)

	sink.AssertExpectations(t)
}

func TestSubmit_TrimsContactInfo(t *testing.T) {
	sink := new(MockSink)
	flow := NewFlow(sink, logger.New("test"))
	c := cartWith(models.MenuItem{ID: "1", Price: 5.00})

	sink.On("Submit", mock.Anything, mock.MatchedBy(func(req *models.OrderRequest) bool {
		return req.Customer.Name == "Alex Doe" && req.Customer.Address == "1 Main St"
	})).Return("ORD_20250314_002", nil).Once()

	_, err := flow.Submit(context.Background(), c, models.CustomerInfo{
		Name:    "  Alex Doe  ",
		Phone:   " 555-0100 ",
		Address: " 1 Main St ",
	}, "req_test")

	require.NoError(t, err)
	sink.AssertExpectations(t)
}

func TestSubmit_PersistenceFailureKeepsCart(t *testing.T) {
	sink := new(MockSink)
	flow := NewFlow(sink, logger.New("test"))

	c := cartWith(models.MenuItem{ID: "1", Name: "Margherita Pizza", Price: 12.99})
	c.UpdateQuantity("1", 2)

	sink.On("Submit", mock.Anything, mock.Anything).Return("", errors.New("connection refused")).Once()

	_, err := flow.Submit(context.Background(), c, validCustomer(), "req_test")

	assert.ErrorIs(t, err, ErrPersistence)
	assert.Equal(t, StateFailed, flow.State())
	assert.Empty(t, flow.OrderNumber())

	lines := c.Lines()
	require.Len(t, lines, 1, "cart must be preserved on persistence failure")
	assert.Equal(t, 2, lines[0].Quantity)
	sink.AssertExpectations(t)
}

func TestSubmit_RetryAfterFailureSucceeds(t *testing.T) {
	sink := new(MockSink)
	flow := NewFlow(sink, logger.New("test"))
	c := cartWith(models.MenuItem{ID: "1", Price: 12.99})

	sink.On("Submit", mock.Anything, mock.Anything).Return("", errors.New("backend down")).Once()
	sink.On("Submit", mock.Anything, mock.Anything).Return("ORD_20250314_003", nil).Once()

	_, err := flow.Submit(context.Background(), c, validCustomer(), "req_test")
	require.ErrorIs(t, err, ErrPersistence)

	orderNumber, err := flow.Submit(context.Background(), c, validCustomer(), "req_test")
	require.NoError(t, err)
	assert.Equal(t, "ORD_20250314_003", orderNumber)
	assert.Empty(t, c.Lines())
	sink.AssertExpectations(t)
}

func TestSubmit_RejectsReentry(t *testing.T) {
	sink := new(MockSink)
	flow := NewFlow(sink, logger.New("test"))
	c := cartWith(models.MenuItem{ID: "1", Price: 12.99})

	sink.On("Submit", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		// The flow is mid-submission here; a second attempt must be rejected.
		_, err := flow.Submit(context.Background(), cartWith(models.MenuItem{ID: "2", Price: 1.00}), validCustomer(), "req_reentry")
		assert.ErrorIs(t, err, ErrSubmissionInFlight)
	}).Return("ORD_20250314_004", nil).Once()

	_, err := flow.Submit(context.Background(), c, validCustomer(), "req_test")
	require.NoError(t, err)
	sink.AssertExpectations(t)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "submitting", StateSubmitting.String())
	assert.Equal(t, "succeeded", StateSucceeded.String())
	assert.Equal(t, "failed", StateFailed.String())
}

package storefront

import (
	"context"
	"time"

	"storefront-system/internal/cart"
	"storefront-system/internal/checkout"
	"storefront-system/internal/logger"
	"storefront-system/internal/menu"
	"storefront-system/internal/messaging"
	"storefront-system/internal/models"
	"storefront-system/internal/orders"
)

// workerHeartbeatThreshold is how stale a heartbeat may be before a
// worker is reported offline (2x the default heartbeat interval).
const workerHeartbeatThreshold = 2 * 30 * time.Second

// CreateOrderRequest is the checkout payload accepted by POST /orders.
type CreateOrderRequest struct {
	Customer models.CustomerInfo `json:"customer_info"`
	Items    []OrderItemRequest  `json:"items"`
}

// OrderItemRequest is one selected menu item in a checkout payload.
type OrderItemRequest struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Service wires the cart store and checkout flow to the order
// persistence sink, the menu catalog and the fulfillment exchange.
type Service struct {
	store     *orders.Store
	catalog   *menu.Catalog
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewService creates the storefront service.
func NewService(store *orders.Store, catalog *menu.Catalog, publisher *messaging.Publisher, log *logger.Logger) *Service {
	return &Service{
		store:     store,
		catalog:   catalog,
		publisher: publisher,
		logger:    log,
	}
}

// CreateOrder builds a cart from the requested items, runs the checkout
// flow against the order store and announces the placed order to the
// fulfillment side.
func (s *Service) CreateOrder(ctx context.Context, req *CreateOrderRequest, requestID string) (*models.CreateOrderResponse, error) {
	c := cart.New()
	for _, item := range req.Items {
		c.AddItem(models.MenuItem{
			ID:    item.ID,
			Name:  item.Name,
			Price: item.Price,
		})
		if item.Quantity != 1 {
			c.UpdateQuantity(item.ID, item.Quantity)
		}
	}

	// Snapshot before submission; the flow clears the cart on success.
	lines := c.Lines()
	subtotal := c.Subtotal()

	flow := checkout.NewFlow(s.store, s.logger)
	orderNumber, err := flow.Submit(ctx, c, req.Customer, requestID)
	if err != nil {
		return nil, err
	}

	placed := models.NewOrderPlacedMessage(&models.OrderRequest{
		Lines:       lines,
		Subtotal:    subtotal,
		DeliveryFee: checkout.DeliveryFee,
		Total:       subtotal + checkout.DeliveryFee,
		Customer:    req.Customer,
		Status:      models.StatusPending,
	}, orderNumber)

	routingKey := models.FulfillmentRoutingKey(models.StatusPending)
	if err := s.publisher.PublishOrderPlaced(ctx, placed, routingKey); err != nil {
		// The order is already persisted; fulfillment can still pick it
		// up from the database, so the checkout is not failed here.
		s.logger.Error("order_publish_failed", "Failed to announce placed order", requestID, err, map[string]interface{}{
			"order_number": orderNumber,
		})
	}

	return &models.CreateOrderResponse{
		OrderNumber: orderNumber,
		Status:      string(models.StatusPending),
		Subtotal:    subtotal,
		DeliveryFee: checkout.DeliveryFee,
		TotalAmount: subtotal + checkout.DeliveryFee,
	}, nil
}

// MenuItems returns the current catalog snapshot.
func (s *Service) MenuItems(ctx context.Context) []models.MenuItem {
	return s.catalog.Items(ctx)
}

// GetOrderStatus returns the tracking view of an order.
func (s *Service) GetOrderStatus(ctx context.Context, orderNumber string) (*models.OrderTrackingResponse, error) {
	return s.store.GetOrderStatus(ctx, orderNumber)
}

// GetOrderHistory returns the status history of an order.
func (s *Service) GetOrderHistory(ctx context.Context, orderNumber string) ([]models.OrderStatusHistory, error) {
	return s.store.GetOrderHistory(ctx, orderNumber)
}

// ListWorkers returns the fulfillment worker registry.
func (s *Service) ListWorkers(ctx context.Context) ([]models.WorkerStatusResponse, error) {
	return s.store.ListWorkers(ctx, workerHeartbeatThreshold)
}

// HealthCheck reports whether the service dependencies are reachable.
func (s *Service) HealthCheck(ctx context.Context) bool {
	return s.store.HealthCheck(ctx)
}

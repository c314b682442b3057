// Package orders persists placed orders and owns every status
// transition after the initial pending state.
package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"storefront-system/internal/database"
	"storefront-system/internal/logger"
	"storefront-system/internal/models"
)

// ErrOrderNotFound is returned for lookups of unknown order numbers.
var ErrOrderNotFound = errors.New("order not found")

// ErrStaleStatus is returned when a status transition no longer matches
// the stored state, e.g. two workers racing on the same order.
var ErrStaleStatus = errors.New("order status changed concurrently")

// Store is the Postgres-backed order persistence sink.
type Store struct {
	db     *database.DB
	logger *logger.Logger
}

// NewStore creates an order store.
func NewStore(db *database.DB, log *logger.Logger) *Store {
	return &Store{
		db:     db,
		logger: log,
	}
}

// Submit persists the order request transactionally (order row, items,
// initial status-log entry) and returns the assigned order number.
func (s *Store) Submit(ctx context.Context, req *models.OrderRequest) (string, error) {
	orderNumber, err := s.nextOrderNumber(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to generate order number: %w", err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var orderID int
	var createdAt time.Time
	err = tx.QueryRow(ctx, database.InsertOrderSQL,
		orderNumber,
		req.Customer.Name,
		req.Customer.Phone,
		req.Customer.Address,
		req.Subtotal,
		req.DeliveryFee,
		req.Total,
		req.Status,
	).Scan(&orderID, &createdAt)
	if err != nil {
		return "", fmt.Errorf("failed to insert order: %w", err)
	}

	for _, line := range req.Lines {
		_, err = tx.Exec(ctx, database.InsertOrderItemSQL,
			orderID, line.ID, line.Name, line.Quantity, line.Price)
		if err != nil {
			return "", fmt.Errorf("failed to insert order item %q: %w", line.Name, err)
		}
	}

	notes := "order placed via storefront"
	_, err = tx.Exec(ctx, database.InsertOrderStatusLogSQL,
		orderID, req.Status, "storefront-service", notes)
	if err != nil {
		return "", fmt.Errorf("failed to insert initial status: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit order: %w", err)
	}

	return orderNumber, nil
}

// nextOrderNumber derives the next ORD_YYYYMMDD_NNN number from the
// highest sequence persisted today.
func (s *Store) nextOrderNumber(ctx context.Context) (string, error) {
	today := time.Now().UTC()
	prefix := fmt.Sprintf("ORD_%s_%%", today.Format("20060102"))

	var sequence int
	err := s.db.QueryRow(ctx, database.GetNextOrderNumberSQL, prefix).Scan(&sequence)
	if err != nil {
		return "", err
	}

	return models.GenerateOrderNumber(today, sequence), nil
}

// GetOrder returns the persisted order with its items.
func (s *Store) GetOrder(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	err := s.db.QueryRow(ctx, database.GetOrderByNumberSQL, orderNumber).Scan(
		&order.ID,
		&order.Number,
		&order.Customer.Name,
		&order.Customer.Phone,
		&order.Customer.Address,
		&order.Subtotal,
		&order.DeliveryFee,
		&order.Total,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
		&order.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	rows, err := s.db.Query(ctx, database.GetOrderItemsSQL, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line models.CartLine
		err := rows.Scan(&line.MenuItem.ID, &line.Name, &line.Quantity, &line.Price)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Lines = append(order.Lines, line)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order items: %w", err)
	}

	return &order, nil
}

// GetOrderStatus returns the tracking view of an order, including an
// estimated completion time while it is being prepared.
func (s *Store) GetOrderStatus(ctx context.Context, orderNumber string) (*models.OrderTrackingResponse, error) {
	order, err := s.GetOrder(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	var estimatedCompletion *time.Time
	if order.Status == models.StatusPreparing {
		estimated := order.UpdatedAt.Add(models.StageDuration(models.StatusPreparing))
		estimatedCompletion = &estimated
	}

	return &models.OrderTrackingResponse{
		OrderNumber:         order.Number,
		CurrentStatus:       string(order.Status),
		UpdatedAt:           order.UpdatedAt,
		EstimatedCompletion: estimatedCompletion,
	}, nil
}

// GetOrderHistory returns the complete status history of an order.
func (s *Store) GetOrderHistory(ctx context.Context, orderNumber string) ([]models.OrderStatusHistory, error) {
	var exists bool
	err := s.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM orders WHERE number = $1)", orderNumber).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check order existence: %w", err)
	}
	if !exists {
		return nil, ErrOrderNotFound
	}

	rows, err := s.db.Query(ctx, database.GetOrderStatusHistorySQL, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to query order history: %w", err)
	}
	defer rows.Close()

	var history []models.OrderStatusHistory
	for rows.Next() {
		var entry models.OrderStatusHistory
		err := rows.Scan(&entry.Status, &entry.ChangedBy, &entry.ChangedAt, &entry.Notes)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		history = append(history, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history rows: %w", err)
	}

	return history, nil
}

// AdvanceStatus moves an order from one status to the next, appending a
// status-log entry in the same transaction. The update is guarded on the
// expected current status.
func (s *Store) AdvanceStatus(ctx context.Context, orderNumber string, from, to models.OrderStatus, changedBy string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	updateSQL := database.UpdateOrderStatusSQL
	if to == models.StatusDelivered {
		updateSQL = database.UpdateOrderDeliveredSQL
	}

	tag, err := tx.Exec(ctx, updateSQL, to, orderNumber, from)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleStatus
	}

	var orderID int
	err = tx.QueryRow(ctx, "SELECT id FROM orders WHERE number = $1", orderNumber).Scan(&orderID)
	if err != nil {
		return fmt.Errorf("failed to get order ID: %w", err)
	}

	notes := fmt.Sprintf("status changed from %s to %s", from, to)
	_, err = tx.Exec(ctx, database.InsertOrderStatusLogSQL, orderID, to, changedBy, notes)
	if err != nil {
		return fmt.Errorf("failed to insert status log: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit status change: %w", err)
	}

	return nil
}

// ListWorkers returns the fulfillment worker registry with heartbeat
// based liveness.
func (s *Store) ListWorkers(ctx context.Context, heartbeatThreshold time.Duration) ([]models.WorkerStatusResponse, error) {
	rows, err := s.db.Query(ctx, database.GetAllWorkersSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query workers: %w", err)
	}
	defer rows.Close()

	var workers []models.WorkerStatusResponse
	for rows.Next() {
		var worker models.Worker
		var createdAt time.Time

		err := rows.Scan(&worker.Name, &worker.Status, &worker.OrdersProcessed, &worker.LastSeen, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan worker row: %w", err)
		}

		actualStatus := string(worker.Status)
		if worker.Status == models.WorkerOnline && time.Since(worker.LastSeen) > heartbeatThreshold {
			actualStatus = string(models.WorkerOffline)
		}

		workers = append(workers, models.WorkerStatusResponse{
			WorkerName:      worker.Name,
			Status:          actualStatus,
			OrdersProcessed: worker.OrdersProcessed,
			LastSeen:        worker.LastSeen,
		})
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate worker rows: %w", err)
	}

	return workers, nil
}

// HealthCheck reports whether the database is reachable.
func (s *Store) HealthCheck(ctx context.Context) bool {
	if err := s.db.Ping(ctx); err != nil {
		s.logger.Error("health_check_failed", "Database ping failed", "", err, nil)
		return false
	}
	return true
}

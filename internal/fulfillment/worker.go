// Package fulfillment simulates the backend side of an order's life:
// it consumes placed orders and walks them through
// pending -> confirmed -> preparing -> ready -> delivered, broadcasting
// each transition on the status fanout.
package fulfillment

import (
	"context"
	"fmt"
	"time"

	"storefront-system/internal/database"
	"storefront-system/internal/logger"
	"storefront-system/internal/messaging"
	"storefront-system/internal/models"
	"storefront-system/internal/orders"
)

// Worker processes placed orders from the fulfillment queue.
type Worker struct {
	name              string
	heartbeatInterval time.Duration

	db        *database.DB
	store     *orders.Store
	consumer  *messaging.Consumer
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewWorker creates a fulfillment worker.
func NewWorker(name string, heartbeatInterval time.Duration,
	db *database.DB, store *orders.Store, consumer *messaging.Consumer, publisher *messaging.Publisher, log *logger.Logger) *Worker {

	return &Worker{
		name:              name,
		heartbeatInterval: heartbeatInterval,
		db:                db,
		store:             store,
		consumer:          consumer,
		publisher:         publisher,
		logger:            log,
	}
}

// Start registers the worker and consumes placed orders until the
// context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()

	if err := w.register(ctx, requestID); err != nil {
		return fmt.Errorf("failed to register worker: %w", err)
	}

	go w.heartbeatLoop(ctx)

	w.logger.Info("worker_started", fmt.Sprintf("Fulfillment worker %s started", w.name), requestID, map[string]interface{}{
		"worker_name":        w.name,
		"heartbeat_interval": w.heartbeatInterval.Seconds(),
	})

	err := w.consumer.StartConsuming(ctx, w.handleMessage)

	w.shutdown(requestID)
	return err
}

// register claims the worker name in the registry. A name that is
// already online is refused to keep processed counts unambiguous.
func (w *Worker) register(ctx context.Context, requestID string) error {
	var count int
	err := w.db.QueryRow(ctx, database.CheckWorkerOnlineSQL, w.name).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check worker status: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("worker %s is already online", w.name)
	}

	var workerID int
	err = w.db.QueryRow(ctx, database.InsertWorkerSQL, w.name).Scan(&workerID)
	if err != nil {
		return fmt.Errorf("failed to insert worker: %w", err)
	}

	w.logger.Info("worker_registered", fmt.Sprintf("Worker %s registered", w.name), requestID, map[string]interface{}{
		"worker_id":   workerID,
		"worker_name": w.name,
	})

	return nil
}

// handleMessage processes one placed order message.
func (w *Worker) handleMessage(ctx context.Context, body []byte) error {
	requestID := logger.GenerateRequestID()

	var placed models.OrderPlacedMessage
	if err := messaging.ParseMessage(body, &placed); err != nil {
		w.logger.Error("message_parsing_failed", "Failed to parse order message", requestID, err, nil)
		return fmt.Errorf("failed to parse message: %w", err)
	}

	w.logger.Debug("order_processing_started", fmt.Sprintf("Processing order %s", placed.OrderNumber), requestID, map[string]interface{}{
		"order_number": placed.OrderNumber,
		"total_amount": placed.Total,
	})

	return w.processOrder(ctx, &placed, requestID)
}

// processOrder walks the order through the status chain with the
// simulated per-stage delays.
func (w *Worker) processOrder(ctx context.Context, placed *models.OrderPlacedMessage, requestID string) error {
	status := models.StatusPending

	for {
		next, ok := models.NextStatus(status)
		if !ok {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(models.StageDuration(status)):
		}

		if err := w.store.AdvanceStatus(ctx, placed.OrderNumber, status, next, w.name); err != nil {
			return fmt.Errorf("failed to advance order %s to %s: %w", placed.OrderNumber, next, err)
		}

		var estimatedCompletion *time.Time
		if next == models.StatusPreparing {
			estimated := time.Now().UTC().Add(models.StageDuration(models.StatusPreparing))
			estimatedCompletion = &estimated
		}

		update := models.NewStatusUpdateMessage(placed.OrderNumber, status, next, w.name, estimatedCompletion)
		if err := w.publisher.PublishStatusUpdate(ctx, update); err != nil {
			// Status is already persisted; a lost notification should
			// not stall the order.
			w.logger.Error("notification_publish_failed", "Failed to publish status update", requestID, err, map[string]interface{}{
				"order_number": placed.OrderNumber,
				"new_status":   string(next),
			})
		}

		status = next
	}

	if err := w.db.Exec(ctx, database.UpdateWorkerProcessedSQL, 1, w.name); err != nil {
		w.logger.Error("worker_update_failed", "Failed to update processed count", requestID, err, nil)
	}

	w.logger.Debug("order_completed", fmt.Sprintf("Order %s delivered", placed.OrderNumber), requestID, map[string]interface{}{
		"order_number": placed.OrderNumber,
		"processed_by": w.name,
	})

	return nil
}

// heartbeatLoop refreshes last_seen so tracking can tell live workers
// from crashed ones.
func (w *Worker) heartbeatLoop(ctx context.Context) {
	ticker := time.NewTicker(w.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.db.Exec(ctx, database.UpdateWorkerStatusSQL, models.WorkerOnline, w.name); err != nil {
				w.logger.Error("heartbeat_failed", "Failed to send heartbeat", "", err, nil)
			} else {
				w.logger.Debug("heartbeat_sent", "Heartbeat sent", "", nil)
			}
		}
	}
}

// shutdown marks the worker offline and closes the consumer.
func (w *Worker) shutdown(requestID string) {
	w.logger.Info("graceful_shutdown", "Starting graceful shutdown", requestID, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := w.db.Exec(ctx, database.UpdateWorkerStatusSQL, models.WorkerOffline, w.name); err != nil {
		w.logger.Error("shutdown_failed", "Failed to mark worker offline", requestID, err, nil)
	}

	if w.consumer != nil {
		w.consumer.Close()
	}

	w.logger.Info("graceful_shutdown", "Graceful shutdown completed", requestID, nil)
}

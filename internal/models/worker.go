package models

import "time"

// WorkerStatus represents the registry state of a fulfillment worker.
type WorkerStatus string

const (
	WorkerOnline  WorkerStatus = "online"
	WorkerOffline WorkerStatus = "offline"
)

// Worker is a fulfillment worker registry row.
type Worker struct {
	ID              int          `json:"id,omitempty" db:"id"`
	Name            string       `json:"name" db:"name"`
	Status          WorkerStatus `json:"status" db:"status"`
	OrdersProcessed int          `json:"orders_processed" db:"orders_processed"`
	LastSeen        time.Time    `json:"last_seen" db:"last_seen"`
}

// WorkerStatusResponse is the tracking view of a fulfillment worker.
type WorkerStatusResponse struct {
	WorkerName      string    `json:"worker_name"`
	Status          string    `json:"status"`
	OrdersProcessed int       `json:"orders_processed"`
	LastSeen        time.Time `json:"last_seen"`
}

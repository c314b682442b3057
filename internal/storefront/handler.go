package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"storefront-system/internal/checkout"
	"storefront-system/internal/logger"
	"storefront-system/internal/models"
	"storefront-system/internal/orders"
)

// OrderService is the surface the HTTP handler needs from the service.
type OrderService interface {
	CreateOrder(ctx context.Context, req *CreateOrderRequest, requestID string) (*models.CreateOrderResponse, error)
	MenuItems(ctx context.Context) []models.MenuItem
	GetOrderStatus(ctx context.Context, orderNumber string) (*models.OrderTrackingResponse, error)
	GetOrderHistory(ctx context.Context, orderNumber string) ([]models.OrderStatusHistory, error)
	ListWorkers(ctx context.Context) ([]models.WorkerStatusResponse, error)
	HealthCheck(ctx context.Context) bool
}

// Handler handles HTTP requests for the storefront service
type Handler struct {
	service OrderService
	logger  *logger.Logger
}

// NewHandler creates a new storefront handler
func NewHandler(service OrderService, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// CreateOrder handles POST /orders requests
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Header.Get("Content-Type") != "application/json" {
		h.writeErrorResponse(w, http.StatusBadRequest, "Content-Type must be application/json", requestID)
		return
	}

	var req CreateOrderRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		h.logger.Error("validation_failed", "Failed to parse request body", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	response, err := h.service.CreateOrder(ctx, &req, requestID)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart),
			errors.Is(err, checkout.ErrMissingContactInfo),
			errors.Is(err, checkout.ErrInvalidTotal):
			h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		default:
			h.logger.Error("order_creation_failed", "Failed to create order", requestID, err, map[string]interface{}{
				"customer_name": req.Customer.Name,
			})
			h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		}
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, response)
}

// GetMenu handles GET /menu requests
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	items := h.service.MenuItems(ctx)
	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"items": items,
	})
}

// GetOrderStatus handles GET /orders/{number}/status requests
func (h *Handler) GetOrderStatus(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()
	orderNumber := r.PathValue("number")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := h.service.GetOrderStatus(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			h.writeErrorResponse(w, http.StatusNotFound, "Order not found", requestID)
			return
		}
		h.logger.Error("tracking_failed", "Failed to get order status", requestID, err, map[string]interface{}{
			"order_number": orderNumber,
		})
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// GetOrderHistory handles GET /orders/{number}/history requests
func (h *Handler) GetOrderHistory(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()
	orderNumber := r.PathValue("number")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	history, err := h.service.GetOrderHistory(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			h.writeErrorResponse(w, http.StatusNotFound, "Order not found", requestID)
			return
		}
		h.logger.Error("tracking_failed", "Failed to get order history", requestID, err, map[string]interface{}{
			"order_number": orderNumber,
		})
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"order_number": orderNumber,
		"history":      history,
	})
}

// GetWorkerStatus handles GET /workers/status requests
func (h *Handler) GetWorkerStatus(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	workers, err := h.service.ListWorkers(ctx)
	if err != nil {
		h.logger.Error("tracking_failed", "Failed to list workers", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"workers": workers,
	})
}

// HealthCheck handles GET /health requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	healthy := h.service.HealthCheck(ctx)

	response := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "storefront-service",
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
		response["status"] = "unhealthy"
	}

	h.writeJSONResponse(w, status, response)
}

// writeJSONResponse writes a JSON response with the given status code
func (h *Handler) writeJSONResponse(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode response", "", err, nil)
	}
}

// writeErrorResponse writes an error response in JSON format
func (h *Handler) writeErrorResponse(w http.ResponseWriter, statusCode int, message, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := map[string]interface{}{
		"error":      message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
	}

	json.NewEncoder(w).Encode(errorResponse)
}

// SetupRoutes sets up the HTTP routes
func (h *Handler) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /orders", h.withLogging(h.CreateOrder))
	mux.HandleFunc("GET /menu", h.withLogging(h.GetMenu))
	mux.HandleFunc("GET /orders/{number}/status", h.withLogging(h.GetOrderStatus))
	mux.HandleFunc("GET /orders/{number}/history", h.withLogging(h.GetOrderHistory))
	mux.HandleFunc("GET /workers/status", h.withLogging(h.GetWorkerStatus))
	mux.HandleFunc("GET /health", h.withLogging(h.HealthCheck))

	return mux
}

// withLogging adds request logging middleware
func (h *Handler) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := logger.GenerateRequestID()

		h.logger.Debug("request_started",
			fmt.Sprintf("%s %s", r.Method, r.URL.Path),
			requestID,
			map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"remote_addr": r.RemoteAddr,
				"user_agent":  r.Header.Get("User-Agent"),
			})

		rw := &responseWriter{ResponseWriter: w, statusCode: 200}

		next(rw, r)

		duration := time.Since(start)
		h.logger.Debug("request_completed",
			fmt.Sprintf("%s %s - %d", r.Method, r.URL.Path, rw.statusCode),
			requestID,
			map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status_code": rw.statusCode,
				"duration_ms": duration.Milliseconds(),
			})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

package orders

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/whatsapp-order-bot/pkg/logging"
)

// Handler exposes order CRUD endpoints.
type Handler struct {
	store   Store
	numbers NumberGenerator
	logger  *logging.Logger
}

// NewHandler creates an order API handler.
func NewHandler(store Store, numbers NumberGenerator, logger *logging.Logger) *Handler {
	if store == nil {
		panic("orders: store cannot be nil")
	}
	if numbers == nil {
		numbers = NewNumberGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, numbers: numbers, logger: logger}
}

// List handles GET /api/orders.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list orders", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetByID handles GET /api/orders/{id}.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	order, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "Order not found")
			return
		}
		h.logger.Error("failed to fetch order", "error", err, "order_id", id)
		writeError(w, http.StatusInternalServerError, "failed to fetch order")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Create handles POST /api/orders. Orders created here start as pending;
// confirmed orders only come out of the conversation flow.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CustomerID == "" {
		writeError(w, http.StatusBadRequest, "customer_id is required")
		return
	}

	order := &Order{
		OrderNumber: h.numbers.Next(),
		CustomerID:  req.CustomerID,
		Status:      StatusPending,
		Total:       req.Total,
		Items:       req.Items,
		Notes:       req.Notes,
	}
	if err := h.store.Insert(r.Context(), order); err != nil {
		h.logger.Error("failed to create order", "error", err, "customer_id", req.CustomerID)
		writeError(w, http.StatusInternalServerError, "failed to create order")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"id":           order.ID,
		"order_number": order.OrderNumber,
		"message":      "Order created successfully",
	})
}

// UpdateStatus handles PATCH /api/orders/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.store.UpdateStatus(r.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			writeError(w, http.StatusBadRequest, "Invalid status")
		case errors.Is(err, ErrOrderNotFound):
			writeError(w, http.StatusNotFound, "Order not found")
		default:
			h.logger.Error("failed to update order status", "error", err, "order_id", id)
			writeError(w, http.StatusInternalServerError, "failed to update order status")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Order status updated successfully"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

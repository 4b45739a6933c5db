package customers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/whatsapp-order-bot/pkg/logging"
)

// Handler exposes customer CRUD endpoints.
type Handler struct {
	directory Directory
	logger    *logging.Logger
}

// NewHandler creates a customer API handler.
func NewHandler(directory Directory, logger *logging.Logger) *Handler {
	if directory == nil {
		panic("customers: directory cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{directory: directory, logger: logger}
}

// List handles GET /api/customers.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.directory.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list customers", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list customers")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetByPhone handles GET /api/customers/phone/{phone}.
func (h *Handler) GetByPhone(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")
	customer, err := h.directory.GetByPhone(r.Context(), phone)
	if err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			writeJSON(w, http.StatusOK, nil)
			return
		}
		h.logger.Error("failed to fetch customer", "error", err, "phone", phone)
		writeError(w, http.StatusInternalServerError, "failed to fetch customer")
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

// Upsert handles POST /api/customers.
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req UpsertCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	customer, err := h.directory.Upsert(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrMissingPhone) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to upsert customer", "error", err, "phone", req.Phone)
		writeError(w, http.StatusInternalServerError, "failed to save customer")
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

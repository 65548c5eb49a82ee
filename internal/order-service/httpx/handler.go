package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shopmesh/shopmesh/internal/order-service/app"
	"github.com/shopmesh/shopmesh/internal/order-service/domain"
	"github.com/shopmesh/shopmesh/internal/pkg/cache"
	"github.com/shopmesh/shopmesh/internal/pkg/httpmeta"
)

// replayTTL bounds how long a created order can be replayed through its
// idempotency key.
const replayTTL = 24 * time.Hour

// Handler exposes the order service's REST surface.
type Handler struct {
	service *app.Service
	cache   cache.Cache // nil-safe: idempotent replay skipped if nil
}

// NewHandler builds the handler. c may be nil — idempotency keys are then
// ignored and every POST runs the full orchestration.
func NewHandler(service *app.Service, c cache.Cache) *Handler {
	return &Handler{service: service, cache: c}
}

// CreateOrder validates the request, replays a previously created order if
// the caller resends a known idempotency key, and otherwise runs the
// orchestration workflow.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "userId is required")
		return
	}

	items := make([]app.OrderRequestItem, 0, len(req.Items))
	for _, it := range req.Items {
		if it.ProductID == "" || it.Quantity <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_item", "productId and a positive quantity are required")
			return
		}
		items = append(items, app.OrderRequestItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	idempKey := httpmeta.IdempotencyKey(r.Context())
	if cached, ok := h.replay(r, idempKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(cached)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), req.UserID, items)
	if err != nil {
		h.writeCreateError(w, r, err)
		return
	}

	res := mapOrderToResponse(order)
	h.remember(r, idempKey, res)
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "order_not_found", "")
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

func (h *Handler) ListUserOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.service.ListUserOrders(r.Context(), chi.URLParam(r, "userId"))
	res := make([]OrderResponse, len(orders))
	for i, o := range orders {
		res[i] = mapOrderToResponse(o)
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "status is required")
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), domain.OrderStatus(req.Status))
	if err != nil {
		writeError(w, http.StatusNotFound, "order_not_found", "")
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

// writeCreateError maps orchestration failures to responses: validation
// failures are 400 with a human-readable message, anything unexpected 500.
func (h *Handler) writeCreateError(w http.ResponseWriter, r *http.Request, err error) {
	var unavailable *domain.ProductUnavailableError
	var insufficient *domain.InsufficientStockError

	switch {
	case errors.Is(err, domain.ErrInvalidUser):
		writeError(w, http.StatusBadRequest, "invalid_user", "invalid user")
	case errors.As(err, &unavailable):
		writeError(w, http.StatusBadRequest, "product_unavailable", unavailable.Error())
	case errors.As(err, &insufficient):
		writeError(w, http.StatusBadRequest, "insufficient_stock", insufficient.Error())
	default:
		slog.ErrorContext(r.Context(), "order creation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// replay returns the cached response body for a previously seen idempotency key.
func (h *Handler) replay(r *http.Request, idempKey string) ([]byte, bool) {
	if h.cache == nil || idempKey == "" {
		return nil, false
	}
	cached, err := h.cache.Get(r.Context(), h.cache.GenerateKey("create", idempKey))
	if err != nil {
		slog.WarnContext(r.Context(), "idempotency lookup failed", "error", err)
		return nil, false
	}
	if cached == "" {
		return nil, false
	}
	slog.InfoContext(r.Context(), "replaying order for idempotency key")
	return []byte(cached), true
}

func (h *Handler) remember(r *http.Request, idempKey string, res OrderResponse) {
	if h.cache == nil || idempKey == "" {
		return
	}
	body, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := h.cache.Set(r.Context(), h.cache.GenerateKey("create", idempKey), string(body), replayTTL); err != nil {
		slog.WarnContext(r.Context(), "idempotency store failed", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: msg})
}

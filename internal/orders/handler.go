package orders

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/el-asil/restaurant-api/internal/domain"
	"github.com/el-asil/restaurant-api/internal/messaging"
)

type Handler struct {
	repo     *OrderRepository
	producer *messaging.Producer
	logger   *slog.Logger
}

func NewHandler(repo *OrderRepository, producer *messaging.Producer, logger *slog.Logger) *Handler {
	return &Handler{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var payload domain.OrderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := domain.ValidateOrderPayload(payload); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	order := &domain.Order{
		Email:    payload.Email,
		Phone:    payload.Phone,
		TableNum: payload.TableNum,
		Status:   payload.Status,
	}

	if err := h.repo.Create(r.Context(), order, payload.Items); err != nil {
		if errors.Is(err, ErrUnknownMenuItem) {
			h.writeError(w, http.StatusBadRequest, "Items must reference existing menu items")
			return
		}
		h.logger.Error("failed to create order", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Could not create order")
		return
	}

	if h.producer != nil {
		event := domain.OrderCreatedEvent{
			OrderID:   order.ID,
			Email:     order.Email,
			Items:     order.Items,
			Total:     order.Total(),
			Timestamp: order.CreatedAt,
		}
		if err := h.producer.PublishOrderCreated(r.Context(), event); err != nil {
			h.logger.Error("failed to publish order created event", "error", err, "order_id", order.ID)
		}
	}

	h.logger.Info("order created", "order_id", order.ID, "email", order.Email, "total", order.Total())
	h.writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	orders, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list orders", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("orders listed", "count", len(orders))
	h.writeJSON(w, http.StatusOK, orders)
}

type orderDetailResponse struct {
	Order     *domain.Order      `json:"order"`
	TotalSum  float64            `json:"totalSum"`
	MenuItems []domain.OrderItem `json:"menuItems"`
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	order, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get order", "error", err, "order_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if order == nil {
		h.writeError(w, http.StatusNotFound, "Order not found")
		return
	}

	h.writeJSON(w, http.StatusOK, orderDetailResponse{
		Order:     order,
		TotalSum:  order.Total(),
		MenuItems: order.Items,
	})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status := domain.OrderStatus(strings.ToUpper(req.Status))
	if !domain.ValidOrderStatus(status) {
		h.writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	current, found, err := h.repo.GetStatus(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to read order status", "error", err, "order_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !found {
		h.writeError(w, http.StatusNotFound, "Order not found")
		return
	}

	if !domain.CanTransition(current, status) {
		h.writeError(w, http.StatusBadRequest, "Illegal status transition")
		return
	}

	order, err := h.repo.UpdateStatus(r.Context(), id, status)
	if err != nil {
		h.logger.Error("failed to update order status", "error", err, "order_id", id)
		h.writeError(w, http.StatusInternalServerError, "Could not update order")
		return
	}

	if order == nil {
		h.writeError(w, http.StatusNotFound, "Order not found")
		return
	}

	h.logger.Info("order status updated", "order_id", order.ID, "from", current, "to", order.Status)
	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	found, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete order", "error", err, "order_id", id)
		h.writeError(w, http.StatusInternalServerError, "Could not delete order")
		return
	}

	if !found {
		h.writeError(w, http.StatusNotFound, "Order not found")
		return
	}

	h.logger.Info("order deleted", "order_id", id)
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Order deleted"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

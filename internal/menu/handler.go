package menu

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/el-asil/restaurant-api/internal/domain"
)

type Handler struct {
	repo   *MenuRepository
	logger *slog.Logger
}

func NewHandler(repo *MenuRepository, logger *slog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

type menuItemRequest struct {
	Name        string   `json:"name"`
	ArabicName  string   `json:"arabicName"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Available   *bool    `json:"available"`
	Specials    []string `json:"specials"`
}

func (req *menuItemRequest) toItem() (*domain.MenuItem, string) {
	if req.Name == "" {
		return nil, "name is required"
	}
	if req.Price < 0 {
		return nil, "price must not be negative"
	}
	if req.Category != "" && !domain.ValidCategory(domain.Category(req.Category)) {
		return nil, "unknown category"
	}

	item := &domain.MenuItem{
		Name:        req.Name,
		ArabicName:  req.ArabicName,
		Description: req.Description,
		Price:       req.Price,
		Category:    domain.Category(req.Category),
		Available:   true,
	}
	if req.Available != nil {
		item.Available = *req.Available
	}

	for _, s := range req.Specials {
		special := domain.SpecialType(s)
		if !domain.ValidSpecial(special) {
			return nil, "unknown special: " + s
		}
		item.Specials = append(item.Specials, domain.ItemSpecial{Type: special})
	}

	return item, ""
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list menu items", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("menu listed", "count", len(items))
	h.writeJSON(w, http.StatusOK, items)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, reason := req.toItem()
	if reason != "" {
		h.writeError(w, http.StatusBadRequest, reason)
		return
	}

	if err := h.repo.Create(r.Context(), item); err != nil {
		h.logger.Error("failed to create menu item", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("menu item created", "item_id", item.ID, "name", item.Name)
	h.writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing item id")
		return
	}

	item, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get menu item", "error", err, "item_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if item == nil {
		h.writeError(w, http.StatusNotFound, "Item not found")
		return
	}

	h.writeJSON(w, http.StatusOK, item)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing item id")
		return
	}

	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, reason := req.toItem()
	if reason != "" {
		h.writeError(w, http.StatusBadRequest, reason)
		return
	}
	item.ID = id

	found, err := h.repo.Update(r.Context(), item)
	if err != nil {
		h.logger.Error("failed to update menu item", "error", err, "item_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if !found {
		h.writeError(w, http.StatusNotFound, "Item not found")
		return
	}

	updated, err := h.repo.GetByID(r.Context(), id)
	if err != nil || updated == nil {
		h.logger.Error("failed to reload menu item", "error", err, "item_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("menu item updated", "item_id", id)
	h.writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing item id")
		return
	}

	found, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete menu item", "error", err, "item_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if !found {
		h.writeError(w, http.StatusNotFound, "Item not found")
		return
	}

	h.logger.Info("menu item deleted", "item_id", id)
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
}

func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing item id")
		return
	}

	item, err := h.repo.ToggleAvailability(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to toggle menu item", "error", err, "item_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if item == nil {
		h.writeError(w, http.StatusNotFound, "Item not found")
		return
	}

	h.logger.Info("menu item toggled", "item_id", id, "available", item.Available)
	h.writeJSON(w, http.StatusOK, map[string]any{"message": "Toggled", "updated": item})
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

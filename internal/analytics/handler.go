package analytics

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

type Handler struct {
	repo   *AnalyticsRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewHandler(repo *AnalyticsRepository, logger *slog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

type summaryResponse struct {
	RevenueThisMonth float64 `json:"revenueThisMonth"`
	RevenueRatio     float64 `json:"revenueRatio"`
	// OrdersToday carries the current month's order count, not today's; the
	// misnamed key is what the admin dashboard reads.
	OrdersToday int `json:"ordersToday"`
	OrdersRatio      float64 `json:"ordersRatio"`
	Growth           float64 `json:"growth"`
	NumberMenuItems  int     `json:"numberMenuItems"`
}

func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	now := h.now().UTC()

	currentStart, currentEnd := MonthBounds(now)
	previousStart, previousEnd := MonthBounds(currentStart.AddDate(0, 0, -1))

	current, err := h.repo.OrdersBetween(r.Context(), currentStart, currentEnd)
	if err != nil {
		h.logger.Error("failed to load current month orders", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to compute summary")
		return
	}

	previous, err := h.repo.OrdersBetween(r.Context(), previousStart, previousEnd)
	if err != nil {
		h.logger.Error("failed to load previous month orders", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to compute summary")
		return
	}

	menuItems, err := h.repo.MenuItemCount(r.Context())
	if err != nil {
		h.logger.Error("failed to count menu items", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to compute summary")
		return
	}

	report := MonthlyGrowth(current, previous)

	h.writeJSON(w, http.StatusOK, summaryResponse{
		RevenueThisMonth: report.CurrentRevenue,
		RevenueRatio:     report.RevenueGrowth,
		OrdersToday:      report.CurrentCount,
		OrdersRatio:      report.CountGrowth,
		Growth:           report.CompositeGrowth,
		NumberMenuItems:  menuItems,
	})
}

type dashboardResponse struct {
	OrderCount   int     `json:"orderCount"`
	TotalRevenue float64 `json:"totalRevenue"`
	AOV          float64 `json:"AOV"`
}

func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	count, revenue, err := h.repo.CompletedStats(r.Context())
	if err != nil {
		h.logger.Error("failed to load dashboard stats", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to load dashboard analytics")
		return
	}

	var aov float64
	if count > 0 {
		aov = revenue / float64(count)
	}

	h.writeJSON(w, http.StatusOK, dashboardResponse{
		OrderCount:   count,
		TotalRevenue: round2(revenue),
		AOV:          round2(aov),
	})
}

func (h *Handler) HandleTopItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.TopItems(r.Context(), 5)
	if err != nil {
		h.logger.Error("failed to load top items", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Could not fetch top items")
		return
	}

	h.writeJSON(w, http.StatusOK, items)
}

func (h *Handler) HandleRevenueTrend(w http.ResponseWriter, r *http.Request) {
	since := h.now().UTC().AddDate(0, 0, -30)

	trend, err := h.repo.RevenueTrend(r.Context(), since)
	if err != nil {
		h.logger.Error("failed to load revenue trend", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Could not compute revenue trend")
		return
	}

	h.writeJSON(w, http.StatusOK, trend)
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

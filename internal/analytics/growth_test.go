package analytics

import (
	"testing"
	"time"

	"github.com/el-asil/restaurant-api/internal/domain"
)

func TestGrowth(t *testing.T) {
	tests := []struct {
		current  float64
		previous float64
		want     float64
	}{
		{150, 100, 50},
		{0, 100, -100},
		{100, 0, 100},
		{0, 0, 0},
		{50, 100, -50},
		{300, 100, 200},
	}

	for _, tt := range tests {
		if got := Growth(tt.current, tt.previous); got != tt.want {
			t.Errorf("Growth(%v, %v) = %v, want %v", tt.current, tt.previous, got, tt.want)
		}
	}
}

func ordersWithTotals(totals ...float64) []domain.Order {
	orders := make([]domain.Order, 0, len(totals))
	for _, total := range totals {
		orders = append(orders, domain.Order{
			Items: []domain.OrderItem{{Price: total, Quantity: 1}},
		})
	}
	return orders
}

func TestRevenue(t *testing.T) {
	orders := []domain.Order{
		{Items: []domain.OrderItem{
			{Price: 1000, Quantity: 2},
			{Price: 500, Quantity: 1},
		}},
		{Items: []domain.OrderItem{
			{Price: 250, Quantity: 4},
		}},
	}

	if got := Revenue(orders); got != 3500 {
		t.Errorf("Revenue() = %v, want 3500", got)
	}

	if got := Revenue(nil); got != 0 {
		t.Errorf("Revenue(nil) = %v, want 0", got)
	}
}

func TestMonthlyGrowth(t *testing.T) {
	// Current month: revenue 300 across 2 orders, AOV 150.
	// Previous month: revenue 200 across 2 orders, AOV 100.
	current := ordersWithTotals(100, 200)
	previous := ordersWithTotals(150, 50)

	report := MonthlyGrowth(current, previous)

	if report.CurrentRevenue != 300 {
		t.Errorf("CurrentRevenue = %v, want 300", report.CurrentRevenue)
	}
	if report.CurrentCount != 2 {
		t.Errorf("CurrentCount = %v, want 2", report.CurrentCount)
	}
	if report.CurrentAOV != 150 {
		t.Errorf("CurrentAOV = %v, want 150", report.CurrentAOV)
	}
	if report.RevenueGrowth != 50 {
		t.Errorf("RevenueGrowth = %v, want 50", report.RevenueGrowth)
	}
	if report.CountGrowth != 0 {
		t.Errorf("CountGrowth = %v, want 0", report.CountGrowth)
	}
	if report.AOVGrowth != 50 {
		t.Errorf("AOVGrowth = %v, want 50", report.AOVGrowth)
	}
	// Composite is the plain mean: (50 + 0 + 50) / 3.
	if report.CompositeGrowth != 33.33 {
		t.Errorf("CompositeGrowth = %v, want 33.33", report.CompositeGrowth)
	}
}

func TestMonthlyGrowthCompositeIsMean(t *testing.T) {
	// Growth inputs (50, -10, 20) must blend to exactly 20.
	composite := round2((50.0 + -10.0 + 20.0) / 3)
	if composite != 20 {
		t.Errorf("mean(50, -10, 20) = %v, want 20", composite)
	}
}

func TestMonthlyGrowthEmptyMonths(t *testing.T) {
	report := MonthlyGrowth(nil, nil)

	if report.CurrentRevenue != 0 || report.CurrentCount != 0 || report.CurrentAOV != 0 {
		t.Errorf("expected zero current figures, got %+v", report)
	}
	if report.RevenueGrowth != 0 || report.CountGrowth != 0 || report.AOVGrowth != 0 || report.CompositeGrowth != 0 {
		t.Errorf("expected zero growth for two empty months, got %+v", report)
	}
}

func TestMonthlyGrowthFromNothing(t *testing.T) {
	report := MonthlyGrowth(ordersWithTotals(500), nil)

	if report.RevenueGrowth != 100 || report.CountGrowth != 100 || report.AOVGrowth != 100 {
		t.Errorf("expected 100%% growth from an empty previous month, got %+v", report)
	}
	if report.CompositeGrowth != 100 {
		t.Errorf("CompositeGrowth = %v, want 100", report.CompositeGrowth)
	}
}

func TestMonthBounds(t *testing.T) {
	now := time.Date(2025, time.March, 17, 14, 30, 0, 0, time.UTC)

	start, end := MonthBounds(now)
	if !start.Equal(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v", end)
	}

	// December rolls into the next year.
	start, end = MonthBounds(time.Date(2025, time.December, 31, 23, 59, 59, 0, time.UTC))
	if !start.Equal(time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v", end)
	}
}

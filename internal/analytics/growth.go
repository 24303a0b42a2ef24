package analytics

import (
	"math"
	"time"

	"github.com/el-asil/restaurant-api/internal/domain"
)

// Growth is the month-over-month growth percentage. A zero previous value
// yields 100 when anything was earned and 0 when both months are empty.
func Growth(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return (current - previous) / previous * 100
}

// Revenue sums quantity times live menu price over every order.
func Revenue(orders []domain.Order) float64 {
	var sum float64
	for _, order := range orders {
		sum += order.Total()
	}
	return sum
}

type GrowthReport struct {
	CurrentRevenue float64 `json:"currentRevenue"`
	CurrentCount   int     `json:"currentCount"`
	CurrentAOV     float64 `json:"currentAOV"`

	RevenueGrowth float64 `json:"revenueGrowth"`
	CountGrowth   float64 `json:"countGrowth"`
	AOVGrowth     float64 `json:"aovGrowth"`

	// CompositeGrowth is the unweighted mean of the three growth figures, a
	// single health indicator rather than a principled index.
	CompositeGrowth float64 `json:"compositeGrowth"`
}

// MonthlyGrowth compares two order sets (current and previous calendar month).
// Figures are rounded to 2 decimals only in the returned report.
func MonthlyGrowth(current, previous []domain.Order) GrowthReport {
	currentRevenue := Revenue(current)
	previousRevenue := Revenue(previous)

	currentCount := len(current)
	previousCount := len(previous)

	var currentAOV, previousAOV float64
	if currentCount > 0 {
		currentAOV = currentRevenue / float64(currentCount)
	}
	if previousCount > 0 {
		previousAOV = previousRevenue / float64(previousCount)
	}

	revenueGrowth := Growth(currentRevenue, previousRevenue)
	countGrowth := Growth(float64(currentCount), float64(previousCount))
	aovGrowth := Growth(currentAOV, previousAOV)

	composite := (revenueGrowth + countGrowth + aovGrowth) / 3

	return GrowthReport{
		CurrentRevenue:  round2(currentRevenue),
		CurrentCount:    currentCount,
		CurrentAOV:      round2(currentAOV),
		RevenueGrowth:   round2(revenueGrowth),
		CountGrowth:     round2(countGrowth),
		AOVGrowth:       round2(aovGrowth),
		CompositeGrowth: round2(composite),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// MonthBounds returns the first instant of t's calendar month and the first
// instant of the next month.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}

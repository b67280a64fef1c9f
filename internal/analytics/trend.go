// Package analytics computes spending trends, category breakdowns, budget health
// and price comparisons from stored receipts. Every function is pure: it reads the
// slices it is given and never errors, returning neutral results for empty input.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/enoch85/receiptor/internal/category"
	"github.com/enoch85/receiptor/internal/household"
)

// Period is the bucket size of a spending trend
type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
)

// ParsePeriod returns the period named s
func ParsePeriod(s string) (Period, bool) {
	switch p := Period(s); p {
	case Daily, Weekly, Monthly:
		return p, true
	}
	return "", false
}

// Trend is the direction of a series
type Trend string

const (
	Increasing Trend = "increasing"
	Decreasing Trend = "decreasing"
	Stable     Trend = "stable"
)

// stableThreshold is the change in percent below which a series counts as stable
const stableThreshold = 5

// TrendDataPoint is the spend of one bucket
type TrendDataPoint struct {
	Date     time.Time          `json:"date"`
	Amount   float64            `json:"amount"`
	Category *category.Category `json:"category,omitempty"`
}

// TrendAnalysis summarizes spend over time
type TrendAnalysis struct {
	Period           Period           `json:"period"`
	DataPoints       []TrendDataPoint `json:"data_points"`
	Average          float64          `json:"average"`
	Trend            Trend            `json:"trend"`
	ChangePercentage float64          `json:"change_percentage"`
}

// SpendingTrend buckets receipt totals by period and classifies the direction.
// Buckets are dated at their first day: the day itself, the Monday of the ISO week,
// or the first of the month. All dates are taken in UTC.
func SpendingTrend(receipts []*household.Receipt, period Period) TrendAnalysis {
	result := TrendAnalysis{
		Period:     period,
		DataPoints: make([]TrendDataPoint, 0),
		Trend:      Stable,
	}
	if len(receipts) == 0 {
		return result
	}

	sums := make(map[time.Time]float64)
	for _, r := range receipts {
		sums[bucketStart(r.PurchaseDate, period)] += r.TotalAmount
	}
	for d, amount := range sums {
		result.DataPoints = append(result.DataPoints, TrendDataPoint{Date: d, Amount: amount})
	}
	sort.Slice(result.DataPoints, func(i, j int) bool {
		return result.DataPoints[i].Date.Before(result.DataPoints[j].Date)
	})

	var total float64
	for _, dp := range result.DataPoints {
		total += dp.Amount
	}
	result.Average = total / float64(len(result.DataPoints))
	result.Trend, result.ChangePercentage = direction(result.DataPoints)
	return result
}

func bucketStart(t time.Time, period Period) time.Time {
	t = t.UTC()
	y, m, d := t.Date()
	switch period {
	case Weekly:
		// ISO weeks start on Monday
		offset := (int(t.Weekday()) + 6) % 7
		return time.Date(y, m, d-offset, 0, 0, 0, 0, time.UTC)
	case Monthly:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
}

// direction fits a least-squares line over the bucket index and measures the first
// to last change.
func direction(points []TrendDataPoint) (Trend, float64) {
	n := float64(len(points))
	if len(points) < 2 {
		return Stable, 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, p := range points {
		x := float64(i)
		sumX += x
		sumY += p.Amount
		sumXY += x * p.Amount
		sumXX += x * x
	}
	slope := (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)

	first, last := points[0].Amount, points[len(points)-1].Amount
	var change float64
	if first != 0 {
		change = (last - first) / first * 100
	}
	if math.Abs(change) < stableThreshold {
		return Stable, 0
	}

	rounded := math.Floor(change*10+0.5) / 10
	if slope > 0 {
		return Increasing, rounded
	}
	return Decreasing, rounded
}

package analytics

import (
	"time"

	"github.com/enoch85/receiptor/internal/category"
	"github.com/enoch85/receiptor/internal/household"
)

// ReceiptTotal sums the item totals
func ReceiptTotal(items []household.ReceiptItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.TotalPrice
	}
	return sum
}

func spent(receipts []*household.Receipt) float64 {
	var sum float64
	for _, r := range receipts {
		sum += r.TotalAmount
	}
	return sum
}

// BudgetProgress is spend against a budget amount
type BudgetProgress struct {
	Spent      float64 `json:"spent"`
	Budget     float64 `json:"budget"`
	Percentage float64 `json:"percentage"`
	Remaining  float64 `json:"remaining"`
	IsExceeded bool    `json:"is_exceeded"`
}

// Progress measures receipts against amount. Percentage is capped at 100.
func Progress(receipts []*household.Receipt, amount float64) BudgetProgress {
	s := spent(receipts)
	p := BudgetProgress{
		Spent:      s,
		Budget:     amount,
		Remaining:  max(amount-s, 0),
		IsExceeded: s > amount,
	}
	if amount > 0 {
		p.Percentage = min(s/amount*100, 100)
	}
	return p
}

// SpentByCategory sums item totals per category
func SpentByCategory(items []household.ReceiptItem) map[category.Category]float64 {
	out := make(map[category.Category]float64)
	for _, it := range items {
		out[it.Category] += it.TotalPrice
	}
	return out
}

// SpentByStore sums receipt totals per store name
func SpentByStore(receipts []*household.Receipt) map[string]float64 {
	out := make(map[string]float64)
	for _, r := range receipts {
		out[r.StoreName] += r.TotalAmount
	}
	return out
}

func organicSpent(items []household.ReceiptItem) float64 {
	var sum float64
	for _, it := range items {
		if it.IsOrganic {
			sum += it.TotalPrice
		}
	}
	return sum
}

// OrganicPercentage is the share of item spend on organic products
func OrganicPercentage(items []household.ReceiptItem) float64 {
	total := ReceiptTotal(items)
	if total <= 0 {
		return 0
	}
	return organicSpent(items) / total * 100
}

// AverageBasket is the mean receipt total
func AverageBasket(receipts []*household.Receipt) float64 {
	if len(receipts) == 0 {
		return 0
	}
	return spent(receipts) / float64(len(receipts))
}

// CarbonFootprint sums item carbon scores in grams of CO2e. Unscored items count as 0.
func CarbonFootprint(items []household.ReceiptItem) float64 {
	var sum float64
	for _, it := range items {
		if it.CarbonScore != nil {
			sum += *it.CarbonScore
		}
	}
	return sum
}

// GroupByDate sums receipt totals per UTC calendar date (YYYY-MM-DD)
func GroupByDate(receipts []*household.Receipt) map[string]float64 {
	out := make(map[string]float64)
	for _, r := range receipts {
		out[r.PurchaseDate.UTC().Format(time.DateOnly)] += r.TotalAmount
	}
	return out
}

// FilterByDateRange keeps receipts purchased within [start, end]
func FilterByDateRange(receipts []*household.Receipt, start, end time.Time) []*household.Receipt {
	out := make([]*household.Receipt, 0)
	for _, r := range receipts {
		if !r.PurchaseDate.Before(start) && !r.PurchaseDate.After(end) {
			out = append(out, r)
		}
	}
	return out
}

// PeriodWindow returns the first and last instant of the budget period containing anchor.
// Weeks run Sunday to Saturday. Windows are computed in UTC.
func PeriodWindow(period household.BudgetPeriod, anchor time.Time) (start, end time.Time) {
	anchor = anchor.UTC()
	y, m, d := anchor.Date()

	var next time.Time
	switch period {
	case household.Weekly:
		start = time.Date(y, m, d-int(anchor.Weekday()), 0, 0, 0, 0, time.UTC)
		next = start.AddDate(0, 0, 7)
	case household.Yearly:
		start = time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
		next = start.AddDate(1, 0, 0)
	default:
		start = time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
		next = start.AddDate(0, 1, 0)
	}
	return start, next.Add(-time.Nanosecond)
}

// MonthReceipts keeps the receipts of the calendar month containing now
func MonthReceipts(receipts []*household.Receipt, now time.Time) []*household.Receipt {
	start, end := PeriodWindow(household.Monthly, now)
	return FilterByDateRange(receipts, start, end)
}

// AnalyticsData is the spend summary of a period
type AnalyticsData struct {
	Period            string                        `json:"period"`
	TotalSpent        float64                       `json:"total_spent"`
	ReceiptCount      int                           `json:"receipt_count"`
	ByCategory        map[category.Category]float64 `json:"by_category"`
	ByStore           map[string]float64            `json:"by_store"`
	OrganicSpent      float64                       `json:"organic_spent"`
	OrganicPercentage float64                       `json:"organic_percentage"`
	AverageBasket     float64                       `json:"average_basket"`
	CarbonFootprint   *float64                      `json:"carbon_footprint,omitempty"`
}

// Summarize builds the summary of receipts for the period starting at start.
// CarbonFootprint is only set when at least one item carries a score.
func Summarize(start time.Time, receipts []*household.Receipt) AnalyticsData {
	items := household.Items(receipts)
	data := AnalyticsData{
		Period:            start.UTC().Format(time.RFC3339),
		TotalSpent:        spent(receipts),
		ReceiptCount:      len(receipts),
		ByCategory:        SpentByCategory(items),
		ByStore:           SpentByStore(receipts),
		OrganicSpent:      organicSpent(items),
		OrganicPercentage: OrganicPercentage(items),
		AverageBasket:     AverageBasket(receipts),
	}
	for _, it := range items {
		if it.CarbonScore != nil {
			c := CarbonFootprint(items)
			data.CarbonFootprint = &c
			break
		}
	}
	return data
}

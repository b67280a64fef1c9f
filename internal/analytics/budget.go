package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/enoch85/receiptor/internal/household"
)

// Status grades a budget's spend against elapsed time
type Status string

const (
	Excellent Status = "excellent"
	Good      Status = "good"
	Warning   Status = "warning"
	Critical  Status = "critical"
)

// statusMargin is how far, in percentage points, spend may run from elapsed time
const statusMargin = 10

const day = 24 * time.Hour

// BudgetHealth is the state of a budget at a point in time
type BudgetHealth struct {
	Status               Status   `json:"status"`
	DaysRemaining        int      `json:"days_remaining"`
	DailyBudgetRemaining float64  `json:"daily_budget_remaining"`
	ProjectedOverspend   float64  `json:"projected_overspend"`
	Recommendations      []string `json:"recommendations"`
}

// AssessBudgetHealth grades the spend of receipts against budget at now.
// The period window is the one containing budget.StartDate. Receipts are
// taken as given; the caller picks the ones that belong to the window.
func AssessBudgetHealth(budget household.Budget, receipts []*household.Receipt, now time.Time) BudgetHealth {
	totalSpent := spent(receipts)
	remaining := budget.Amount - totalSpent

	start, end := PeriodWindow(budget.Period, budget.StartDate)
	totalDays := int(math.Ceil(float64(end.Sub(start)) / float64(day)))
	daysElapsed := max(0, int(math.Ceil(float64(now.Sub(start))/float64(day))))
	daysRemaining := max(0, totalDays-daysElapsed)

	h := BudgetHealth{
		DaysRemaining:   daysRemaining,
		Recommendations: make([]string, 0),
	}
	if daysRemaining > 0 {
		h.DailyBudgetRemaining = remaining / float64(daysRemaining)
	}
	if daysElapsed > 0 {
		projected := totalSpent / float64(daysElapsed) * float64(totalDays)
		h.ProjectedOverspend = max(0, projected-budget.Amount)
	}

	// A budget with nothing to spend is always over it
	spentPct := math.Inf(1)
	if budget.Amount > 0 {
		spentPct = totalSpent / budget.Amount * 100
	}
	progressPct := float64(daysElapsed) / float64(totalDays) * 100

	switch {
	case spentPct <= progressPct-statusMargin:
		h.Status = Excellent
	case spentPct <= progressPct+statusMargin:
		h.Status = Good
	case spentPct <= 100:
		h.Status = Warning
	default:
		h.Status = Critical
	}

	if h.Status == Warning || h.Status == Critical {
		h.Recommendations = append(h.Recommendations,
			fmt.Sprintf("Reduce daily spending to %.2f or less", h.DailyBudgetRemaining))
	}
	if h.ProjectedOverspend > 0 {
		h.Recommendations = append(h.Recommendations,
			fmt.Sprintf("On track to exceed budget by %.2f", h.ProjectedOverspend))
	}
	if h.Status == Excellent {
		h.Recommendations = append(h.Recommendations, "Great job staying under budget!")
	}
	return h
}

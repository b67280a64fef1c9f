package ingest

import (
	"fmt"
	"time"

	"github.com/enoch85/receiptor/internal/analytics"
	"github.com/enoch85/receiptor/internal/category"
	"github.com/enoch85/receiptor/internal/household"
)

// SetBudget creates a budget for the household
func (s *Service) SetBudget(name string, amount float64, period household.BudgetPeriod, start time.Time, cat *category.Category) (*household.Budget, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("budget amount must be positive")
	}
	if cat != nil && !cat.Valid() {
		return nil, fmt.Errorf("unknown category %q", *cat)
	}
	if start.IsZero() {
		start = s.timeSource.Now()
	}

	now := s.timeSource.Now()
	budget := &household.Budget{
		ID:          s.idGenerator.Generate(),
		HouseholdID: s.householdID,
		Name:        name,
		Amount:      amount,
		Period:      period,
		StartDate:   start,
		Category:    cat,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.SaveBudget(budget); err != nil {
		return nil, fmt.Errorf("saving budget: %w", err)
	}
	return budget, nil
}

// ListBudgets returns the household's budgets
func (s *Service) ListBudgets() ([]*household.Budget, error) {
	budgets, err := s.db.ListBudgets(s.householdID)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}
	return budgets, nil
}

// currentWindow returns the budget re-anchored to the period containing now,
// or to its start when that is still ahead, with the receipts of that period.
// A category budget only counts the items of its category.
func (s *Service) currentWindow(id string) (household.Budget, []*household.Receipt, error) {
	b, err := s.db.GetBudget(id)
	if err != nil {
		return household.Budget{}, nil, fmt.Errorf("getting budget: %w", err)
	}
	budget := *b

	now := s.timeSource.Now()
	if now.After(budget.StartDate) {
		budget.StartDate = now
	}

	receipts, err := s.ListReceipts()
	if err != nil {
		return household.Budget{}, nil, err
	}
	start, end := analytics.PeriodWindow(budget.Period, budget.StartDate)
	receipts = analytics.FilterByDateRange(receipts, start, end)

	if budget.Category != nil {
		receipts = onlyCategory(receipts, *budget.Category)
	}
	return budget, receipts, nil
}

func onlyCategory(receipts []*household.Receipt, c category.Category) []*household.Receipt {
	out := make([]*household.Receipt, 0, len(receipts))
	for _, r := range receipts {
		cp := *r
		cp.Items = nil
		for _, it := range r.Items {
			if it.Category == c {
				cp.Items = append(cp.Items, it)
			}
		}
		cp.TotalAmount = analytics.ReceiptTotal(cp.Items)
		out = append(out, &cp)
	}
	return out
}

// Health assesses a budget over its current period
func (s *Service) Health(budgetID string) (analytics.BudgetHealth, error) {
	budget, receipts, err := s.currentWindow(budgetID)
	if err != nil {
		return analytics.BudgetHealth{}, err
	}
	return analytics.AssessBudgetHealth(budget, receipts, s.timeSource.Now()), nil
}

// Insights returns the spending insights for a budget's current period
func (s *Service) Insights(budgetID string) ([]analytics.SpendingInsight, error) {
	budget, receipts, err := s.currentWindow(budgetID)
	if err != nil {
		return nil, err
	}
	return analytics.SpendingInsights(receipts, household.Items(receipts), budget), nil
}

// Trend returns the household's spending trend over every stored receipt
func (s *Service) Trend(period analytics.Period) (analytics.TrendAnalysis, error) {
	receipts, err := s.ListReceipts()
	if err != nil {
		return analytics.TrendAnalysis{}, err
	}
	return analytics.SpendingTrend(receipts, period), nil
}

// Categories breaks the household's spend down by category.
// Zero from and to mean no bound.
func (s *Service) Categories(from, to time.Time) ([]analytics.CategoryInsights, error) {
	receipts, err := s.ListReceipts()
	if err != nil {
		return nil, err
	}
	if !from.IsZero() || !to.IsZero() {
		if to.IsZero() {
			to = s.timeSource.Now()
		}
		receipts = analytics.FilterByDateRange(receipts, from, to)
	}
	return analytics.CategorySpending(household.Items(receipts)), nil
}

// Prices compares what the household paid for an item
func (s *Service) Prices(name string) (*analytics.PriceComparison, error) {
	receipts, err := s.ListReceipts()
	if err != nil {
		return nil, err
	}
	return analytics.ComparePricesAt(name, household.Items(receipts), receipts, s.timeSource.Now()), nil
}

// Summary summarizes the period of the given kind containing now
func (s *Service) Summary(period household.BudgetPeriod) (analytics.AnalyticsData, error) {
	receipts, err := s.ListReceipts()
	if err != nil {
		return analytics.AnalyticsData{}, err
	}
	start, end := analytics.PeriodWindow(period, s.timeSource.Now())
	return analytics.Summarize(start, analytics.FilterByDateRange(receipts, start, end)), nil
}

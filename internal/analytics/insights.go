package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/enoch85/receiptor/internal/household"
)

// InsightType classifies a spending insight
type InsightType string

const (
	Savings     InsightType = "savings"
	Caution     InsightType = "warning"
	Tip         InsightType = "tip"
	Achievement InsightType = "achievement"
)

const (
	highValuePrice    = 50
	highValueListed   = 3
	achievementUsage  = 50
	frequentPurchases = 5
	frequentListed    = 3
)

// SpendingInsight is a piece of advice derived from spend
type SpendingInsight struct {
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Amount      *float64    `json:"amount,omitempty"`
}

// SpendingInsights applies independent heuristics and returns every one that fires,
// in a fixed order: expensive items, budget achievement, frequent purchases.
func SpendingInsights(receipts []*household.Receipt, items []household.ReceiptItem, budget household.Budget) []SpendingInsight {
	insights := make([]SpendingInsight, 0)

	var expensive []household.ReceiptItem
	for _, it := range items {
		if it.UnitPrice > highValuePrice {
			expensive = append(expensive, it)
		}
	}
	if len(expensive) > 0 {
		sort.SliceStable(expensive, func(i, j int) bool {
			return expensive[i].UnitPrice > expensive[j].UnitPrice
		})
		if len(expensive) > highValueListed {
			expensive = expensive[:highValueListed]
		}
		names := make([]string, len(expensive))
		for i, it := range expensive {
			names[i] = it.Name
		}
		insights = append(insights, SpendingInsight{
			Type:        Tip,
			Title:       "High-value items detected",
			Description: "Consider price comparing: " + strings.Join(names, ", "),
		})
	}

	if budget.Amount > 0 {
		usage := spent(receipts) / budget.Amount * 100
		if usage < achievementUsage {
			insights = append(insights, SpendingInsight{
				Type:        Achievement,
				Title:       "Great budgeting!",
				Description: fmt.Sprintf("You've only used %.0f%% of your budget", math.Round(usage)),
			})
		}
	}

	var (
		names  []string
		counts = make(map[string]int)
	)
	for _, it := range items {
		name := strings.ToLower(it.Name)
		if counts[name] == 0 {
			names = append(names, name)
		}
		counts[name]++
	}
	var frequent []string
	for _, name := range names {
		if counts[name] >= frequentPurchases {
			frequent = append(frequent, name)
		}
	}
	if len(frequent) > 0 {
		if len(frequent) > frequentListed {
			frequent = frequent[:frequentListed]
		}
		insights = append(insights, SpendingInsight{
			Type:        Tip,
			Title:       "Frequent purchases",
			Description: "Consider buying in bulk: " + strings.Join(frequent, ", "),
		})
	}

	return insights
}

package analytics

import (
	"sort"
	"strings"

	"github.com/enoch85/receiptor/internal/category"
	"github.com/enoch85/receiptor/internal/household"
)

const topItemCount = 5

// TopItem is a frequently bought item within a category
type TopItem struct {
	Name       string  `json:"name"`
	Frequency  int     `json:"frequency"`
	TotalSpent float64 `json:"total_spent"`
}

// CategoryInsights is the spend breakdown of one category
type CategoryInsights struct {
	Category           category.Category `json:"category"`
	TotalSpent         float64           `json:"total_spent"`
	PercentageOfBudget float64           `json:"percentage_of_budget"` // share of spend over all categories
	ItemCount          int               `json:"item_count"`
	AverageItemPrice   float64           `json:"average_item_price"`
	Trend              Trend             `json:"trend"`
	TopItems           []TopItem         `json:"top_items"`
}

// CategorySpending groups items by category, most spent first.
// Trend is always Stable: no history is compared.
func CategorySpending(items []household.ReceiptItem) []CategoryInsights {
	var (
		order   []category.Category
		byCat   = make(map[category.Category][]household.ReceiptItem)
		overall float64
	)
	for _, it := range items {
		if _, ok := byCat[it.Category]; !ok {
			order = append(order, it.Category)
		}
		byCat[it.Category] = append(byCat[it.Category], it)
		overall += it.TotalPrice
	}

	insights := make([]CategoryInsights, 0, len(order))
	for _, c := range order {
		catItems := byCat[c]
		var total float64
		for _, it := range catItems {
			total += it.TotalPrice
		}

		ci := CategoryInsights{
			Category:   c,
			TotalSpent: total,
			ItemCount:  len(catItems),
			Trend:      Stable,
			TopItems:   topItems(catItems),
		}
		if overall > 0 {
			ci.PercentageOfBudget = total / overall * 100
		}
		if len(catItems) > 0 {
			ci.AverageItemPrice = total / float64(len(catItems))
		}
		insights = append(insights, ci)
	}

	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].TotalSpent > insights[j].TotalSpent
	})
	return insights
}

func topItems(items []household.ReceiptItem) []TopItem {
	var (
		out   []TopItem
		index = make(map[string]int)
	)
	for _, it := range items {
		name := strings.ToLower(it.Name)
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, TopItem{Name: name})
		}
		out[i].Frequency++
		out[i].TotalSpent += it.TotalPrice
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalSpent > out[j].TotalSpent
	})
	if len(out) > topItemCount {
		out = out[:topItemCount]
	}
	return out
}

package analytics

import (
	"strings"
	"time"

	"github.com/enoch85/receiptor/internal/household"
)

const unknownStore = "Unknown"

// StorePrice is one observed price of an item
type StorePrice struct {
	StoreName string    `json:"store_name"`
	Price     float64   `json:"price"`
	Date      time.Time `json:"date"`
}

// PriceComparison summarizes the prices paid for an item
type PriceComparison struct {
	ItemName     string       `json:"item_name"`
	CurrentPrice float64      `json:"current_price"` // last match in input order
	AveragePrice float64      `json:"average_price"`
	LowestPrice  float64      `json:"lowest_price"`
	HighestPrice float64      `json:"highest_price"`
	Stores       []StorePrice `json:"stores"`
}

// ComparePrices is ComparePricesAt with the current time
func ComparePrices(name string, items []household.ReceiptItem, receipts []*household.Receipt) *PriceComparison {
	return ComparePricesAt(name, items, receipts, time.Now())
}

// ComparePricesAt collects the unit prices of items whose name contains the query
// or is contained by it, case-insensitively. It returns nil when nothing matches.
// Items whose receipt is not in receipts are reported at store "Unknown" on now.
func ComparePricesAt(name string, items []household.ReceiptItem, receipts []*household.Receipt, now time.Time) *PriceComparison {
	query := strings.ToLower(strings.TrimSpace(name))

	byID := make(map[string]*household.Receipt, len(receipts))
	for _, r := range receipts {
		if _, ok := byID[r.ID]; !ok {
			byID[r.ID] = r
		}
	}

	var (
		cmp   *PriceComparison
		total float64
	)
	for _, it := range items {
		itemName := strings.ToLower(it.Name)
		if !strings.Contains(itemName, query) && !strings.Contains(query, itemName) {
			continue
		}

		sp := StorePrice{StoreName: unknownStore, Price: it.UnitPrice, Date: now}
		if r, ok := byID[it.ReceiptID]; ok {
			if r.StoreName != "" {
				sp.StoreName = r.StoreName
			}
			if !r.PurchaseDate.IsZero() {
				sp.Date = r.PurchaseDate
			}
		}

		if cmp == nil {
			cmp = &PriceComparison{
				ItemName:     it.Name,
				LowestPrice:  it.UnitPrice,
				HighestPrice: it.UnitPrice,
			}
		}
		cmp.Stores = append(cmp.Stores, sp)
		cmp.CurrentPrice = it.UnitPrice
		cmp.LowestPrice = min(cmp.LowestPrice, it.UnitPrice)
		cmp.HighestPrice = max(cmp.HighestPrice, it.UnitPrice)
		total += it.UnitPrice
	}

	if cmp != nil {
		cmp.AveragePrice = total / float64(len(cmp.Stores))
	}
	return cmp
}

// Package household holds the stored entities of a household's grocery history
// and the embedded database and image archive that keep them.
package household

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/enoch85/receiptor/internal/category"
)

// Source records how a receipt entered the system
type Source string

const (
	SourceAutomatic Source = "automatic"
	SourceManual    Source = "manual"
)

// Receipt is a persisted purchase
type Receipt struct {
	ID            string          `json:"id"`
	HouseholdID   string          `json:"household_id"`
	StoreID       string          `json:"store_id,omitempty"`
	StoreName     string          `json:"store_name"`
	StoreLocation string          `json:"store_location,omitempty"`
	PurchaseDate  time.Time       `json:"purchase_date"`
	TotalAmount   float64         `json:"total_amount"`
	Currency      Currency        `json:"currency"`
	ReceiptNumber string          `json:"receipt_number,omitempty"`
	RawData       json.RawMessage `json:"raw_data,omitempty"`
	ImagePath     string          `json:"image_path,omitempty"`
	Source        Source          `json:"source"`
	Items         []ReceiptItem   `json:"items"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ReceiptItem is one line of a persisted receipt
type ReceiptItem struct {
	ID          string            `json:"id"`
	ReceiptID   string            `json:"receipt_id"`
	Name        string            `json:"name"`
	Quantity    float64           `json:"quantity"`
	Unit        string            `json:"unit,omitempty"`
	UnitPrice   float64           `json:"unit_price"`
	TotalPrice  float64           `json:"total_price"`
	Category    category.Category `json:"category"`
	Confidence  float64           `json:"category_confidence"`
	Subcategory string            `json:"subcategory,omitempty"`
	IsOrganic   bool              `json:"is_organic"`
	CarbonScore *float64          `json:"carbon_score,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// BudgetPeriod is the window a budget amount applies to
type BudgetPeriod string

const (
	Weekly  BudgetPeriod = "weekly"
	Monthly BudgetPeriod = "monthly"
	Yearly  BudgetPeriod = "yearly"
)

// ParseBudgetPeriod returns the period named s
func ParseBudgetPeriod(s string) (BudgetPeriod, error) {
	switch p := BudgetPeriod(s); p {
	case Weekly, Monthly, Yearly:
		return p, nil
	}
	return "", fmt.Errorf("unknown budget period %q", s)
}

// Budget is a spending limit for a household, optionally for a single category
type Budget struct {
	ID          string             `json:"id"`
	HouseholdID string             `json:"household_id"`
	Name        string             `json:"name"`
	Amount      float64            `json:"amount"`
	Period      BudgetPeriod       `json:"period"`
	StartDate   time.Time          `json:"start_date"`
	Category    *category.Category `json:"category,omitempty"`
	IsActive    bool               `json:"is_active"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// Items flattens the items of receipts, keeping receipt order
func Items(receipts []*Receipt) []ReceiptItem {
	var out []ReceiptItem
	for _, r := range receipts {
		out = append(out, r.Items...)
	}
	return out
}

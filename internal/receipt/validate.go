package receipt

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// totalTolerance is the allowed gap between the item sum and the receipt total
var totalTolerance = decimal.RequireFromString("0.01")

// Validation is the advisory result of Validate
type Validation struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// Validate checks a parsed receipt against the current time
func Validate(r *ParsedReceipt) Validation {
	return ValidateAt(r, time.Now())
}

// ValidateAt checks a parsed receipt and collects every violated rule
func ValidateAt(r *ParsedReceipt, now time.Time) Validation {
	errs := make([]string, 0)

	if r.StoreName == "" || r.StoreName == UnknownStore {
		errs = append(errs, "Store name is missing or could not be parsed")
	}

	if !finite(r.TotalAmount) || r.TotalAmount <= 0 {
		errs = append(errs, "Total amount must be positive")
	}

	if r.PurchaseDate.IsZero() {
		errs = append(errs, "Invalid purchase date")
	} else {
		if r.PurchaseDate.After(now) {
			errs = append(errs, "Purchase date cannot be in the future")
		}
		if r.PurchaseDate.Before(now.AddDate(-5, 0, 0)) {
			errs = append(errs, "Purchase date seems too old (more than 5 years ago)")
		}
	}

	if len(r.Items) == 0 {
		errs = append(errs, "Receipt must have at least one item")
	} else {
		itemsTotal := decimal.Zero
		summable := finite(r.TotalAmount)
		for i, item := range r.Items {
			n := i + 1
			if item.Name == "" || item.Name == UnknownItem {
				errs = append(errs, fmt.Sprintf("Item %d: Missing item name", n))
			}
			if !finite(item.Quantity) || item.Quantity <= 0 {
				errs = append(errs, fmt.Sprintf("Item %d: Quantity must be positive", n))
			}
			switch {
			case !finite(item.UnitPrice):
				errs = append(errs, fmt.Sprintf("Item %d: Unit price must be a number", n))
			case item.UnitPrice < 0:
				errs = append(errs, fmt.Sprintf("Item %d: Unit price cannot be negative", n))
			}
			switch {
			case !finite(item.TotalPrice):
				errs = append(errs, fmt.Sprintf("Item %d: Total price must be a number", n))
				summable = false
			case item.TotalPrice < 0:
				errs = append(errs, fmt.Sprintf("Item %d: Total price cannot be negative", n))
			}
			if summable {
				itemsTotal = itemsTotal.Add(decimal.NewFromFloat(item.TotalPrice))
			}
		}

		// The sum is only compared when every amount is a number
		if summable {
			total := decimal.NewFromFloat(r.TotalAmount)
			if itemsTotal.Sub(total).Abs().GreaterThan(totalTolerance) {
				errs = append(errs, fmt.Sprintf("Items total (%s) does not match receipt total (%s)",
					itemsTotal.String(), total.String()))
			}
		}
	}

	if r.ConfidenceScore != nil {
		if c := *r.ConfidenceScore; !finite(c) || c < 0 || c > 1 {
			errs = append(errs, "Confidence score must be between 0 and 1")
		}
	}

	return Validation{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

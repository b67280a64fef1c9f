package receipt

import (
	"encoding/json"
	"time"
)

// Sentinels written by the normalizer when a field could not be read.
// Validate detects missing data by comparing against them.
const (
	UnknownStore = "Unknown Store"
	UnknownItem  = "Unknown Item"

	DefaultCurrency = "SEK"
)

// ParsedReceipt is the canonical receipt produced from an OCR payload or manual entry
type ParsedReceipt struct {
	StoreName       string          `json:"store_name"`
	TotalAmount     float64         `json:"total_amount"`
	PurchaseDate    time.Time       `json:"purchase_date"`
	PurchaseTime    string          `json:"purchase_time,omitempty"`
	Currency        string          `json:"currency"`
	PaymentMethod   string          `json:"payment_method,omitempty"`
	TaxAmount       *float64        `json:"tax_amount,omitempty"`
	Items           []ParsedItem    `json:"items"`
	ConfidenceScore *float64        `json:"confidence_score,omitempty"`
	RawData         json.RawMessage `json:"raw_data,omitempty"` // Original payload, untouched
}

// ParsedItem is a single line of a ParsedReceipt
type ParsedItem struct {
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
	SKU        string  `json:"sku,omitempty"`
}

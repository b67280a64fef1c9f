package receipt

import (
	"encoding/json"
	"fmt"
)

// LineItem is a line item as reported by an OCR provider. Every field is optional.
type LineItem struct {
	Description *string  `json:"description,omitempty"`
	Quantity    *float64 `json:"quantity,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Total       *float64 `json:"total,omitempty"`
	SKU         *string  `json:"sku,omitempty"`
}

// Vendor holds the merchant block of an OCR payload
type Vendor struct {
	Name        *string `json:"name,omitempty"`
	Address     *string `json:"address,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

// Payment holds the payment block of a Veryfi payload
type Payment struct {
	Type       *string `json:"type,omitempty"`
	CardNumber *string `json:"card_number,omitempty"`
}

// OCRPayload is the generic OCR provider response shape
type OCRPayload struct {
	Vendor        *Vendor    `json:"vendor,omitempty"`
	Total         *float64   `json:"total,omitempty"`
	Subtotal      *float64   `json:"subtotal,omitempty"`
	Tax           *float64   `json:"tax,omitempty"`
	Date          *string    `json:"date,omitempty"`
	Time          *string    `json:"time,omitempty"`
	PaymentMethod *string    `json:"payment_method,omitempty"`
	LineItems     []LineItem `json:"line_items,omitempty"`
	CurrencyCode  *string    `json:"currency_code,omitempty"`
	Confidence    *float64   `json:"confidence,omitempty"`

	// Raw is the document the payload was decoded from
	Raw json.RawMessage `json:"-"`
}

// VeryfiPayload is the Veryfi document response shape
type VeryfiPayload struct {
	ID           *int64     `json:"id,omitempty"`
	Vendor       *Vendor    `json:"vendor,omitempty"`
	Total        *float64   `json:"total,omitempty"`
	Subtotal     *float64   `json:"subtotal,omitempty"`
	Tax          *float64   `json:"tax,omitempty"`
	Date         *string    `json:"date,omitempty"`
	Time         *string    `json:"time,omitempty"`
	Payment      *Payment   `json:"payment,omitempty"`
	LineItems    []LineItem `json:"line_items,omitempty"`
	CurrencyCode *string    `json:"currency_code,omitempty"`
	Confidence   *float64   `json:"confidence,omitempty"`
	Category     *string    `json:"category,omitempty"`
	Tags         []string   `json:"tags,omitempty"`

	// Raw is the document the payload was decoded from
	Raw json.RawMessage `json:"-"`
}

// DecodeOCR decodes a generic OCR payload
func DecodeOCR(data []byte) (*OCRPayload, error) {
	var p OCRPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding ocr payload: %w", err)
	}
	p.Raw = append(json.RawMessage(nil), data...)
	return &p, nil
}

// DecodeVeryfi decodes a Veryfi payload
func DecodeVeryfi(data []byte) (*VeryfiPayload, error) {
	var p VeryfiPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding veryfi payload: %w", err)
	}
	p.Raw = append(json.RawMessage(nil), data...)
	return &p, nil
}

// Float returns a pointer to v, for building payloads by hand
func Float(v float64) *float64 { return &v }

// String returns a pointer to v, for building payloads by hand
func String(v string) *string { return &v }

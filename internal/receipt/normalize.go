package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrMissingFields is returned when a payload lacks a total or a date
	ErrMissingFields = errors.New("missing required fields: total and date are required")

	// ErrInvalidDate is returned when the payload date cannot be parsed
	ErrInvalidDate = errors.New("invalid date format")
)

// ParseVeryfi maps a Veryfi response onto a ParsedReceipt
func ParseVeryfi(p *VeryfiPayload) (*ParsedReceipt, error) {
	if p == nil {
		return nil, ErrMissingFields
	}
	var payment *string
	if p.Payment != nil {
		payment = p.Payment.Type
	}
	return normalize(rawPayload(p.Raw, p), fields{
		vendor:   p.Vendor,
		total:    p.Total,
		tax:      p.Tax,
		date:     p.Date,
		time:     p.Time,
		payment:  payment,
		items:    p.LineItems,
		currency: p.CurrencyCode,
		conf:     p.Confidence,
	})
}

// ParseOCR maps a generic OCR response onto a ParsedReceipt
func ParseOCR(p *OCRPayload) (*ParsedReceipt, error) {
	if p == nil {
		return nil, ErrMissingFields
	}
	return normalize(rawPayload(p.Raw, p), fields{
		vendor:   p.Vendor,
		total:    p.Total,
		tax:      p.Tax,
		date:     p.Date,
		time:     p.Time,
		payment:  p.PaymentMethod,
		items:    p.LineItems,
		currency: p.CurrencyCode,
		conf:     p.Confidence,
	})
}

// fields is the provider-independent view both payload shapes reduce to
type fields struct {
	vendor   *Vendor
	total    *float64
	tax      *float64
	date     *string
	time     *string
	payment  *string
	items    []LineItem
	currency *string
	conf     *float64
}

// rawPayload returns the decoded document, or the payload re-encoded when it
// was built in code. A payload that cannot be encoded has no raw form.
func rawPayload(raw json.RawMessage, p any) json.RawMessage {
	if len(raw) > 0 {
		return raw
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil
	}
	return data
}

func normalize(raw json.RawMessage, f fields) (*ParsedReceipt, error) {
	// A zero total or an empty date is treated the same as an absent one
	if f.total == nil || *f.total == 0 || f.date == nil || *f.date == "" {
		return nil, ErrMissingFields
	}

	purchaseDate, ok := ParseDate(*f.date)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDate, *f.date)
	}

	items := make([]ParsedItem, 0, len(f.items))
	for _, li := range f.items {
		items = append(items, ParsedItem{
			Name:       stringOr(li.Description, UnknownItem),
			Quantity:   floatOr(li.Quantity, 1),
			UnitPrice:  floatOr(li.Price, 0),
			TotalPrice: floatOr(li.Total, floatOr(li.Price, 0)),
			SKU:        stringOr(li.SKU, ""),
		})
	}

	var vendorName *string
	if f.vendor != nil {
		vendorName = f.vendor.Name
	}

	return &ParsedReceipt{
		StoreName:       stringOr(vendorName, UnknownStore),
		TotalAmount:     *f.total,
		PurchaseDate:    purchaseDate,
		PurchaseTime:    stringOr(f.time, ""),
		Currency:        stringOr(f.currency, DefaultCurrency),
		PaymentMethod:   stringOr(f.payment, ""),
		TaxAmount:       f.tax,
		Items:           items,
		ConfidenceScore: f.conf,
		RawData:         raw,
	}, nil
}

// stringOr returns def when s is absent or empty
func stringOr(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}

// floatOr returns def when v is absent or zero
func floatOr(v *float64, def float64) float64 {
	if v == nil || *v == 0 {
		return def
	}
	return *v
}

// ManualEntry builds a ParsedReceipt from user-entered values.
// It goes through the same defaults as the OCR path.
func ManualEntry(store string, total float64, date time.Time, items []ParsedItem) *ParsedReceipt {
	if store == "" {
		store = UnknownStore
	}
	normalized := make([]ParsedItem, len(items))
	for i, it := range items {
		if it.Name == "" {
			it.Name = UnknownItem
		}
		if it.Quantity == 0 {
			it.Quantity = 1
		}
		if it.TotalPrice == 0 {
			it.TotalPrice = it.UnitPrice
		}
		normalized[i] = it
	}
	return &ParsedReceipt{
		StoreName:    store,
		TotalAmount:  total,
		PurchaseDate: date,
		Currency:     DefaultCurrency,
		Items:        normalized,
	}
}

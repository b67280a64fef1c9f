// Package ingest runs receipts through normalization, validation and
// categorization into the household database, and answers analytics queries
// over what has been stored.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/enoch85/receiptor/internal/category"
	"github.com/enoch85/receiptor/internal/household"
	"github.com/enoch85/receiptor/internal/receipt"
	"github.com/enoch85/receiptor/internal/scanning"
)

// IDGenerator generates unique IDs for receipts, items and budgets
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// Classifier assigns a category to every item of a receipt
type Classifier interface {
	Classify(ctx context.Context, storeName string, items []category.Item) []category.Prediction
}

type uuidGenerator struct{}

func (uuidGenerator) Generate() string {
	return uuid.NewString()
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Format names the shape of an OCR payload
type Format string

const (
	FormatVeryfi Format = "veryfi"
	FormatOCR    Format = "ocr"
)

// Config holds the parts of a Service
type Config struct {
	DB          household.DB
	Storage     household.Storage
	Scanner     scanning.Scanner
	Classifier  Classifier
	HouseholdID string
	// Workers bounds concurrent receipts in IngestBatch; zero means 4
	Workers int
}

// Service handles receipt ingestion and queries
type Service struct {
	db          household.DB
	storage     household.Storage
	scanner     scanning.Scanner
	classifier  Classifier
	householdID string
	workers     int
	stores      receipt.StoreRules
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with UUIDs and the system clock
func NewService(cfg Config) *Service {
	return NewServiceWithDeps(cfg, uuidGenerator{}, systemClock{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(cfg Config, idGen IDGenerator, timeSrc TimeSource) *Service {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	classifier := cfg.Classifier
	if classifier == nil {
		classifier = category.NewClassifier(nil, "")
	}
	return &Service{
		db:          cfg.DB,
		storage:     cfg.Storage,
		scanner:     cfg.Scanner,
		classifier:  classifier,
		householdID: cfg.HouseholdID,
		workers:     workers,
		stores:      receipt.DefaultStoreRules,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// Result is a stored receipt with the advisory validation of its parsed form
type Result struct {
	Receipt    *household.Receipt `json:"receipt"`
	Validation receipt.Validation `json:"validation"`
}

// Decode parses a raw payload of the given format into a ParsedReceipt
func Decode(format Format, data []byte) (*receipt.ParsedReceipt, error) {
	switch format {
	case FormatOCR:
		p, err := receipt.DecodeOCR(data)
		if err != nil {
			return nil, err
		}
		return receipt.ParseOCR(p)
	case FormatVeryfi, "":
		p, err := receipt.DecodeVeryfi(data)
		if err != nil {
			return nil, err
		}
		return receipt.ParseVeryfi(p)
	}
	return nil, fmt.Errorf("unknown payload format %q", format)
}

// IngestPayload decodes, normalizes and stores a raw OCR payload
func (s *Service) IngestPayload(ctx context.Context, format Format, data []byte) (*Result, error) {
	parsed, err := Decode(format, data)
	if err != nil {
		return nil, fmt.Errorf("parsing payload: %w", err)
	}
	return s.Ingest(ctx, parsed, household.SourceAutomatic, "")
}

// Ingest stores a parsed receipt. Validation failures are logged and returned
// with the result; they do not stop the receipt from being stored.
func (s *Service) Ingest(ctx context.Context, parsed *receipt.ParsedReceipt, source household.Source, imagePath string) (*Result, error) {
	parsed = s.stores.Apply(parsed)

	validation := receipt.ValidateAt(parsed, s.timeSource.Now())
	if !validation.IsValid {
		slog.Warn("Receipt failed validation",
			"store", parsed.StoreName,
			"total", parsed.TotalAmount,
			"errors", validation.Errors,
		)
	}

	items := make([]category.Item, len(parsed.Items))
	for i, it := range parsed.Items {
		items[i] = category.Item{Name: it.Name, SKU: it.SKU}
		// A zero price is the normalizer's default for an unknown one
		if it.UnitPrice > 0 {
			price := it.UnitPrice
			items[i].UnitPrice = &price
		}
	}
	predictions := s.classifier.Classify(ctx, parsed.StoreName, items)

	rec, err := s.newReceipt(parsed, predictions, source, imagePath)
	if err != nil {
		return nil, err
	}
	if err := s.db.SaveReceipt(rec); err != nil {
		return nil, fmt.Errorf("saving receipt to database: %w", err)
	}

	slog.Info("Receipt stored",
		"id", rec.ID,
		"store", rec.StoreName,
		"items", len(rec.Items),
		"valid", validation.IsValid,
	)
	return &Result{Receipt: rec, Validation: validation}, nil
}

func (s *Service) newReceipt(parsed *receipt.ParsedReceipt, predictions []category.Prediction, source household.Source, imagePath string) (*household.Receipt, error) {
	now := s.timeSource.Now()
	id := s.idGenerator.Generate()

	currency, err := household.ParseCurrency(parsed.Currency)
	if err != nil {
		return nil, fmt.Errorf("receipt currency: %w", err)
	}

	rec := &household.Receipt{
		ID:           id,
		HouseholdID:  s.householdID,
		StoreName:    parsed.StoreName,
		PurchaseDate: parsed.PurchaseDate,
		TotalAmount:  parsed.TotalAmount,
		Currency:     currency,
		RawData:      parsed.RawData,
		ImagePath:    imagePath,
		Source:       source,
		Items:        make([]household.ReceiptItem, len(parsed.Items)),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for i, it := range parsed.Items {
		pred := category.Prediction{Category: category.Other}
		if i < len(predictions) {
			pred = predictions[i]
		}
		rec.Items[i] = household.ReceiptItem{
			ID:         s.idGenerator.Generate(),
			ReceiptID:  id,
			Name:       it.Name,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
			Category:   pred.Category,
			Confidence: pred.Confidence,
			IsOrganic:  category.IsOrganic(it.Name),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}
	return rec, nil
}

// sanitizeFilename cleans up a filename by removing special characters and truncating length
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filepath.Base(filename), ext)

	base = unsafeChars.ReplaceAllString(base, "")
	base = strings.Join(strings.Fields(base), " ")

	const maxLen = 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}
	if base == "" {
		base = "receipt"
	}
	return base + ext
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)

// Scan archives a receipt image, scans it and stores the result.
// The image is removed again if the receipt cannot be stored.
func (s *Service) Scan(ctx context.Context, filename string, data []byte, contentType string) (*Result, error) {
	if s.scanner == nil {
		return nil, fmt.Errorf("no scanner configured")
	}

	var saved string
	if s.storage != nil {
		var err error
		saved, err = s.storage.Save(fmt.Sprintf("%d_%s", s.timeSource.Now().UnixNano(), sanitizeFilename(filename)), data)
		if err != nil {
			return nil, fmt.Errorf("saving file: %w", err)
		}
	}
	cleanup := func() {
		if saved == "" {
			return
		}
		if err := s.storage.Delete(saved); err != nil {
			slog.Warn("Failed to delete file", "filename", saved, "error", err)
		}
	}

	payload, err := s.scanner.Scan(ctx, data, contentType)
	if err != nil {
		slog.Error("Failed to scan receipt",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		cleanup()
		return nil, fmt.Errorf("scanning receipt: %w", err)
	}

	parsed, err := receipt.ParseVeryfi(payload)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("parsing scanned receipt: %w", err)
	}

	result, err := s.Ingest(ctx, parsed, household.SourceAutomatic, saved)
	if err != nil {
		cleanup()
		return nil, err
	}
	return result, nil
}

// GetReceipt retrieves a receipt by ID
func (s *Service) GetReceipt(id string) (*household.Receipt, error) {
	rec, err := s.db.GetReceipt(id)
	if err != nil {
		return nil, fmt.Errorf("getting receipt: %w", err)
	}
	return rec, nil
}

// ListReceipts returns the household's receipts, oldest first
func (s *Service) ListReceipts() ([]*household.Receipt, error) {
	receipts, err := s.db.ListReceipts(s.householdID)
	if err != nil {
		return nil, fmt.Errorf("listing receipts: %w", err)
	}
	return receipts, nil
}

// DeleteReceipt removes a receipt and its image
func (s *Service) DeleteReceipt(id string) error {
	rec, err := s.db.GetReceipt(id)
	if err != nil {
		return fmt.Errorf("getting receipt for deletion: %w", err)
	}

	if rec.ImagePath != "" && s.storage != nil {
		if err := s.storage.Delete(rec.ImagePath); err != nil {
			// Log error but continue with database deletion
			slog.Warn("Failed to delete file", "filename", rec.ImagePath, "error", err)
		}
	}

	if err := s.db.DeleteReceipt(id); err != nil {
		return fmt.Errorf("deleting receipt from database: %w", err)
	}
	return nil
}

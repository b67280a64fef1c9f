package ingest

import (
	"context"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/enoch85/receiptor/internal/analytics"
	"github.com/enoch85/receiptor/internal/household"
	"github.com/enoch85/receiptor/internal/scanning"
)

var _ = Describe("Integration", func() {
	var (
		db      *household.BoltDB
		store   *household.LocalStorage
		service *Service
	)

	BeforeEach(func() {
		tempDir := GinkgoT().TempDir()

		var err error
		db, err = household.NewBoltDB(filepath.Join(tempDir, "test.db"))
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(db.Close)

		store, err = household.NewLocalStorage(filepath.Join(tempDir, "receipts"))
		Expect(err).NotTo(HaveOccurred())

		service = NewService(Config{
			DB:          db,
			Storage:     store,
			Scanner:     scanning.WithFallback(nil),
			HouseholdID: "home",
		})
	})

	It("scans a receipt, stores it and deletes it again", func() {
		result, err := service.Scan(context.Background(), "receipt.pdf", []byte("%PDF-1.4 fake"), "application/pdf")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Validation.IsValid).To(BeTrue())

		rec := result.Receipt
		Expect(rec.StoreName).To(Equal("ICA Supermarket"))
		Expect(rec.TotalAmount).To(Equal(245.5))
		Expect(rec.Source).To(Equal(household.SourceAutomatic))
		Expect(rec.Items).To(HaveLen(7))
		Expect(rec.Items[0].IsOrganic).To(BeTrue())

		data, err := store.Get(rec.ImagePath)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("%PDF-1.4 fake"))

		stored, err := service.GetReceipt(rec.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(stored.Items).To(HaveLen(7))
		Expect(stored.HouseholdID).To(Equal("home"))

		Expect(service.DeleteReceipt(rec.ID)).To(Succeed())
		_, err = service.GetReceipt(rec.ID)
		Expect(err).To(MatchError(household.ErrNotFound))
		_, err = store.Get(rec.ImagePath)
		Expect(err).To(HaveOccurred())
	})

	It("ingests a batch and reads it back in date order", func() {
		older := []byte(`{"vendor": {"name": "Coop"}, "date": "2025-09-01", "total": 20, "line_items": [{"description": "Mjölk", "total": 20}]}`)
		results, err := service.IngestBatch(context.Background(), FormatVeryfi, [][]byte{[]byte(samplePayload), older})
		Expect(err).NotTo(HaveOccurred())
		Expect(results[0].Err).NotTo(HaveOccurred())
		Expect(results[1].Err).NotTo(HaveOccurred())

		receipts, err := service.ListReceipts()
		Expect(err).NotTo(HaveOccurred())
		Expect(receipts).To(HaveLen(2))
		Expect(receipts[0].StoreName).To(Equal("Coop"))
		Expect(receipts[1].StoreName).To(Equal("ICA Maxi"))
	})

	It("keeps provider fields it does not model", func() {
		payload := `{"total": 10, "date": "2025-10-08", "ocr_text": "ICA MAXI ...",
			"line_items": [{"description": "Milk", "total": 10, "type": "food"}]}`
		result, err := service.IngestPayload(context.Background(), FormatVeryfi, []byte(payload))
		Expect(err).NotTo(HaveOccurred())

		stored, err := service.GetReceipt(result.Receipt.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(stored.RawData)).To(MatchJSON(payload))
	})

	It("keeps budgets", func() {
		b, err := service.SetBudget("Groceries", 4000, household.Monthly, time.Time{}, nil)
		Expect(err).NotTo(HaveOccurred())

		budgets, err := service.ListBudgets()
		Expect(err).NotTo(HaveOccurred())
		Expect(budgets).To(HaveLen(1))
		Expect(budgets[0].ID).To(Equal(b.ID))
		Expect(budgets[0].Amount).To(Equal(4000.0))

		h, err := service.Health(b.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(h.Status).To(BeElementOf(analytics.Excellent, analytics.Good))
		Expect(h.ProjectedOverspend).To(BeZero())
	})
})

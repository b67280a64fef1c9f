package ingest

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/enoch85/receiptor/internal/category"
	"github.com/enoch85/receiptor/internal/receipt"
)

var _ = Describe("IngestBatch", func() {
	var (
		db      *mockDB
		service *Service
	)

	BeforeEach(func() {
		db = newMockDB()
		service = NewServiceWithDeps(Config{
			DB:         db,
			Classifier: category.NewClassifier(nil, ""),
			Workers:    2,
		}, &sequenceIDGenerator{}, &mockTimeSource{})
	})

	It("ingests every good payload and reports the bad ones in order", func() {
		payloads := [][]byte{
			[]byte(samplePayload),
			[]byte(`{"date": "2025-10-08"}`),
			[]byte(samplePayload),
			[]byte(`not json`),
		}
		results, err := service.IngestBatch(context.Background(), FormatVeryfi, payloads)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(4))

		Expect(results[0].Result).NotTo(BeNil())
		Expect(results[1].Err).To(MatchError(receipt.ErrMissingFields))
		Expect(results[1].Error).To(ContainSubstring("missing required fields"))
		Expect(results[2].Result).NotTo(BeNil())
		Expect(results[3].Err).To(MatchError(ContainSubstring("decoding veryfi payload")))
		Expect(db.receipts).To(HaveLen(2))
	})

	It("stops when the context is done", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := service.IngestBatch(ctx, FormatVeryfi, [][]byte{[]byte(samplePayload)})
		Expect(err).To(MatchError(context.Canceled))
		Expect(db.receipts).To(BeEmpty())
	})
})

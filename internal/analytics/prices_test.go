package analytics

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/enoch85/receiptor/internal/household"
)

var _ = Describe("ComparePricesAt", func() {
	var (
		query    string
		items    []household.ReceiptItem
		receipts []*household.Receipt
		now      = date(2025, 10, 20)
		result   *PriceComparison
	)

	BeforeEach(func() {
		receipts = receiptsFixture()
		items = []household.ReceiptItem{
			{ReceiptID: "3", Name: "Banana", UnitPrice: 12},
			{ReceiptID: "1", Name: "Banana", UnitPrice: 10},
			{ReceiptID: "2", Name: "Milk", UnitPrice: 15},
		}
	})

	JustBeforeEach(func() {
		result = ComparePricesAt(query, items, receipts, now)
	})

	When("the item was bought at two stores", func() {
		BeforeEach(func() {
			query = "Banana"
		})

		It("reports the price range", func() {
			Expect(result).NotTo(BeNil())
			Expect(result.ItemName).To(Equal("Banana"))
			Expect(result.LowestPrice).To(Equal(10.0))
			Expect(result.HighestPrice).To(Equal(12.0))
			Expect(result.AveragePrice).To(Equal(11.0))
			Expect(result.Stores).To(HaveLen(2))
		})

		It("takes the current price from the last match positionally", func() {
			Expect(result.CurrentPrice).To(Equal(10.0))
		})

		It("joins each price to its receipt", func() {
			Expect(result.Stores).To(Equal([]StorePrice{
				{StoreName: "ICA", Price: 12, Date: date(2025, 10, 10)},
				{StoreName: "ICA", Price: 10, Date: date(2025, 10, 1)},
			}))
		})
	})

	When("the query is padded and upper case", func() {
		BeforeEach(func() {
			query = "  BANAN "
		})

		It("matches partial names", func() {
			Expect(result).NotTo(BeNil())
			Expect(result.Stores).To(HaveLen(2))
		})
	})

	When("the query is longer than the item name", func() {
		BeforeEach(func() {
			query = "organic milk 1l"
		})

		It("matches names the query contains", func() {
			Expect(result).NotTo(BeNil())
			Expect(result.ItemName).To(Equal("Milk"))
			Expect(result.Stores[0].StoreName).To(Equal("Coop"))
		})
	})

	When("the receipt is missing", func() {
		BeforeEach(func() {
			query = "Coffee"
			items = []household.ReceiptItem{{ReceiptID: "gone", Name: "Coffee", UnitPrice: 45}}
		})

		It("uses an unknown store dated now", func() {
			Expect(result.Stores).To(Equal([]StorePrice{{StoreName: "Unknown", Price: 45, Date: now}}))
		})
	})

	When("nothing matches", func() {
		BeforeEach(func() {
			query = "NonExistent"
		})

		It("returns nil", func() {
			Expect(result).To(BeNil())
		})
	})
})

var _ = Describe("ComparePrices", func() {
	It("returns nil without items", func() {
		Expect(ComparePrices("Banana", nil, nil)).To(BeNil())
	})
})

package analytics

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/enoch85/receiptor/internal/household"
)

var _ = Describe("SpendingTrend", func() {
	var (
		receipts []*household.Receipt
		period   Period
		result   TrendAnalysis
	)

	series := func(amounts ...float64) []*household.Receipt {
		out := make([]*household.Receipt, len(amounts))
		for i, a := range amounts {
			out[i] = &household.Receipt{TotalAmount: a, PurchaseDate: date(2025, 10, 1+i)}
		}
		return out
	}

	BeforeEach(func() {
		period = Daily
	})

	JustBeforeEach(func() {
		result = SpendingTrend(receipts, period)
	})

	When("there are no receipts", func() {
		BeforeEach(func() {
			receipts = nil
		})

		It("returns a zeroed stable result", func() {
			Expect(result.Period).To(Equal(Daily))
			Expect(result.DataPoints).NotTo(BeNil())
			Expect(result.DataPoints).To(BeEmpty())
			Expect(result.Average).To(BeZero())
			Expect(result.Trend).To(Equal(Stable))
			Expect(result.ChangePercentage).To(BeZero())
		})
	})

	When("daily totals increase", func() {
		BeforeEach(func() {
			receipts = series(100, 150, 200)
		})

		It("is increasing", func() {
			Expect(result.Trend).To(Equal(Increasing))
			Expect(result.ChangePercentage).To(Equal(100.0))
			Expect(result.Average).To(Equal(150.0))
			Expect(result.DataPoints).To(HaveLen(3))
			Expect(result.DataPoints[0].Date).To(Equal(date(2025, 10, 1)))
		})
	})

	When("daily totals decrease", func() {
		BeforeEach(func() {
			receipts = series(200, 100)
		})

		It("is decreasing", func() {
			Expect(result.Trend).To(Equal(Decreasing))
			Expect(result.ChangePercentage).To(Equal(-50.0))
		})
	})

	When("the change is under five percent", func() {
		BeforeEach(func() {
			receipts = series(100, 500, 104)
		})

		It("is stable regardless of slope", func() {
			Expect(result.Trend).To(Equal(Stable))
			Expect(result.ChangePercentage).To(BeZero())
		})
	})

	When("the first bucket is zero", func() {
		BeforeEach(func() {
			receipts = series(0, 100)
		})

		It("reports no change", func() {
			Expect(result.Trend).To(Equal(Stable))
			Expect(result.ChangePercentage).To(BeZero())
		})
	})

	When("the change has many decimals", func() {
		BeforeEach(func() {
			receipts = series(30, 40)
		})

		It("rounds to one decimal", func() {
			Expect(result.ChangePercentage).To(Equal(33.3))
		})
	})

	When("receipts arrive out of order", func() {
		BeforeEach(func() {
			receipts = []*household.Receipt{
				{TotalAmount: 200, PurchaseDate: date(2025, 10, 3)},
				{TotalAmount: 100, PurchaseDate: date(2025, 10, 1)},
			}
		})

		It("sorts buckets chronologically", func() {
			Expect(result.DataPoints[0].Amount).To(Equal(100.0))
			Expect(result.Trend).To(Equal(Increasing))
		})
	})

	When("a receipt has a non-UTC timestamp", func() {
		BeforeEach(func() {
			zone := time.FixedZone("UTC-2", -2*60*60)
			receipts = []*household.Receipt{
				{TotalAmount: 10, PurchaseDate: time.Date(2025, 10, 1, 23, 30, 0, 0, zone)},
			}
		})

		It("buckets by the UTC date", func() {
			Expect(result.DataPoints).To(HaveLen(1))
			Expect(result.DataPoints[0].Date).To(Equal(date(2025, 10, 2)))
		})
	})

	When("bucketing by week", func() {
		BeforeEach(func() {
			period = Weekly
			receipts = receiptsFixture()
		})

		It("groups by ISO week dated on Monday", func() {
			Expect(result.DataPoints).To(Equal([]TrendDataPoint{
				{Date: date(2025, 9, 29), Amount: 250},
				{Date: date(2025, 10, 6), Amount: 200},
			}))
			Expect(result.Trend).To(Equal(Decreasing))
			Expect(result.ChangePercentage).To(Equal(-20.0))
		})
	})

	When("a week spans new year", func() {
		BeforeEach(func() {
			period = Weekly
			receipts = []*household.Receipt{
				{TotalAmount: 10, PurchaseDate: date(2025, 12, 28)},
				{TotalAmount: 20, PurchaseDate: date(2025, 12, 29)},
				{TotalAmount: 30, PurchaseDate: date(2026, 1, 1)},
			}
		})

		It("keeps the ISO week together", func() {
			Expect(result.DataPoints).To(Equal([]TrendDataPoint{
				{Date: date(2025, 12, 22), Amount: 10},
				{Date: date(2025, 12, 29), Amount: 50},
			}))
		})
	})

	When("bucketing by month", func() {
		BeforeEach(func() {
			period = Monthly
			receipts = append(receiptsFixture(), &household.Receipt{TotalAmount: 90, PurchaseDate: date(2025, 11, 2)})
		})

		It("dates buckets on the first of the month", func() {
			Expect(result.DataPoints).To(Equal([]TrendDataPoint{
				{Date: date(2025, 10, 1), Amount: 450},
				{Date: date(2025, 11, 1), Amount: 90},
			}))
			Expect(result.Average).To(Equal(270.0))
			Expect(result.Trend).To(Equal(Decreasing))
			Expect(result.ChangePercentage).To(Equal(-80.0))
		})
	})
})

var _ = Describe("ParsePeriod", func() {
	It("accepts known periods", func() {
		p, ok := ParsePeriod("weekly")
		Expect(ok).To(BeTrue())
		Expect(p).To(Equal(Weekly))
	})

	It("rejects unknown periods", func() {
		_, ok := ParsePeriod("hourly")
		Expect(ok).To(BeFalse())
	})
})

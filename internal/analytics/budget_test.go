package analytics

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/enoch85/receiptor/internal/household"
)

var _ = Describe("AssessBudgetHealth", func() {
	var (
		budget   household.Budget
		receipts []*household.Receipt
		health   BudgetHealth
		now      time.Time
	)

	spend := func(amount float64) []*household.Receipt {
		return []*household.Receipt{{ID: "1", TotalAmount: amount, PurchaseDate: date(2025, 10, 1)}}
	}

	BeforeEach(func() {
		now = date(2025, 10, 15)
		budget = household.Budget{
			ID:        "b1",
			Name:      "Monthly Budget",
			Amount:    1000,
			Period:    household.Monthly,
			StartDate: date(2025, 10, 1),
			IsActive:  true,
		}
	})

	JustBeforeEach(func() {
		health = AssessBudgetHealth(budget, receipts, now)
	})

	When("spend is low mid-period", func() {
		BeforeEach(func() {
			receipts = spend(50)
		})

		It("is excellent", func() {
			Expect(health.Status).To(Equal(Excellent))
			Expect(health.DaysRemaining).To(Equal(17))
			Expect(health.DailyBudgetRemaining).To(BeNumerically("~", 950.0/17, 1e-9))
			Expect(health.ProjectedOverspend).To(BeZero())
			Expect(health.Recommendations).To(Equal([]string{"Great job staying under budget!"}))
		})
	})

	When("spend tracks elapsed time", func() {
		BeforeEach(func() {
			receipts = spend(450)
		})

		It("is good with no recommendations", func() {
			Expect(health.Status).To(Equal(Good))
			Expect(health.Recommendations).NotTo(BeNil())
			Expect(health.Recommendations).To(BeEmpty())
		})
	})

	When("spend runs ahead of time", func() {
		BeforeEach(func() {
			receipts = spend(600)
		})

		It("is a warning", func() {
			Expect(health.Status).To(Equal(Warning))
			Expect(health.ProjectedOverspend).To(BeNumerically("~", 600.0/14*31-1000, 1e-9))
			Expect(health.Recommendations).To(Equal([]string{
				"Reduce daily spending to 23.53 or less",
				"On track to exceed budget by 328.57",
			}))
		})
	})

	When("spend exceeds the budget", func() {
		BeforeEach(func() {
			receipts = spend(1200)
		})

		It("is critical", func() {
			Expect(health.Status).To(Equal(Critical))
			Expect(health.DailyBudgetRemaining).To(BeNumerically("<", 0))
			Expect(health.Recommendations).To(HaveLen(2))
		})
	})

	When("the period is over", func() {
		BeforeEach(func() {
			receipts = spend(500)
			now = date(2025, 11, 15)
		})

		It("has no days or daily budget left", func() {
			Expect(health.DaysRemaining).To(BeZero())
			Expect(health.DailyBudgetRemaining).To(BeZero())
		})
	})

	When("the period has not started", func() {
		BeforeEach(func() {
			receipts = spend(50)
			now = date(2025, 9, 20)
		})

		It("counts no elapsed days", func() {
			Expect(health.DaysRemaining).To(Equal(31))
			Expect(health.ProjectedOverspend).To(BeZero())
			Expect(health.Status).To(Equal(Good))
		})
	})

	When("the budget is weekly", func() {
		BeforeEach(func() {
			budget.Period = household.Weekly
			budget.StartDate = date(2025, 10, 8)
			receipts = spend(10)
			now = date(2025, 10, 9)
		})

		It("runs Sunday to Saturday", func() {
			Expect(health.DaysRemaining).To(Equal(3))
		})
	})

	When("the budget is yearly in a leap year", func() {
		BeforeEach(func() {
			budget.Period = household.Yearly
			budget.StartDate = date(2024, 3, 1)
			receipts = nil
			now = date(2024, 1, 1)
		})

		It("spans 366 days", func() {
			Expect(health.DaysRemaining).To(Equal(366))
		})
	})

	When("the budget amount is zero", func() {
		BeforeEach(func() {
			budget.Amount = 0
			receipts = spend(1)
		})

		It("is critical once anything is spent", func() {
			Expect(health.Status).To(Equal(Critical))
		})
	})

	When("the budget amount is zero and nothing is spent", func() {
		BeforeEach(func() {
			budget.Amount = 0
			receipts = nil
		})

		It("is still critical", func() {
			Expect(health.Status).To(Equal(Critical))
			Expect(health.ProjectedOverspend).To(BeZero())
		})
	})
})

package category

import (
	"golang.org/x/text/unicode/norm"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ClassifyByRules", func() {
	var (
		item Item
		pred Prediction
	)

	JustBeforeEach(func() {
		pred = ClassifyByRules(item)
	})

	When("the name contains a fruit", func() {
		BeforeEach(func() {
			item = Item{Name: "Fresh Banana"}
		})

		It("picks fruits and vegetables", func() {
			Expect(pred.Category).To(Equal(FruitsVegetables))
			Expect(pred.Confidence).To(BeNumerically(">", 0))
		})

		It("caps the confidence", func() {
			// "banana" and "banan" both hit, nothing else does
			Expect(pred.Confidence).To(Equal(0.95))
			Expect(pred.Reasoning).To(Equal("Matched 2 keyword(s)"))
		})
	})

	When("nothing matches", func() {
		BeforeEach(func() {
			item = Item{Name: "xyz-unknown-product-123"}
		})

		It("returns other with the fixed confidence", func() {
			Expect(pred.Category).To(Equal(Other))
			Expect(pred.Confidence).To(Equal(0.3))
		})
	})

	When("two categories tie", func() {
		BeforeEach(func() {
			// "butter" for dairy, the "te" inside it for beverages
			item = Item{Name: "Butter"}
		})

		It("keeps the earlier category in the table", func() {
			Expect(pred.Category).To(Equal(DairyEggs))
			Expect(pred.Confidence).To(Equal(0.5))
		})
	})

	When("the name is in Swedish", func() {
		BeforeEach(func() {
			item = Item{Name: "KYCKLINGFILÉ"}
		})

		It("matches case-insensitively", func() {
			Expect(pred.Category).To(Equal(MeatFish))
		})
	})

	When("the name uses decomposed characters", func() {
		BeforeEach(func() {
			item = Item{Name: norm.NFD.String("Mjölk 3%")}
		})

		It("still matches the composed keyword", func() {
			Expect(pred.Category).To(Equal(DairyEggs))
		})
	})
})

var _ = Describe("ClassifyAllByRules", func() {
	It("keeps item order", func() {
		preds := ClassifyAllByRules([]Item{{Name: "Salmon"}, {Name: "Red wine"}, {Name: "???"}})
		Expect(preds).To(HaveLen(3))
		Expect(preds[0].Category).To(Equal(MeatFish))
		Expect(preds[1].Category).To(Equal(Alcohol))
		Expect(preds[2].Category).To(Equal(Other))
	})
})

var _ = Describe("Category", func() {
	It("knows all fourteen categories", func() {
		Expect(All).To(HaveLen(14))
		for _, c := range All {
			Expect(c.Valid()).To(BeTrue())
		}
	})

	It("rejects unknown names", func() {
		_, err := Parse("FRUIT")
		Expect(err).To(HaveOccurred())
	})

	It("parses known names", func() {
		c, err := Parse("pet_supplies")
		Expect(err).NotTo(HaveOccurred())
		Expect(c).To(Equal(PetSupplies))
	})

	It("has a display name for every category", func() {
		for _, c := range All {
			Expect(DisplayName(c, "en")).NotTo(Equal(string(c)))
			Expect(DisplayName(c, "sv")).NotTo(BeEmpty())
		}
		Expect(DisplayName(DairyEggs, "sv")).To(Equal("Mejeri & Ägg"))
		Expect(DisplayName(DairyEggs, "de")).To(Equal("Dairy & Eggs"))
	})
})

var _ = Describe("IsOrganic", func() {
	DescribeTable("labels",
		func(name string, expected bool) {
			Expect(IsOrganic(name)).To(Equal(expected))
		},
		Entry("english", "Organic Bananas", true),
		Entry("swedish", "Mjölk Ekologisk 1,5%", true),
		Entry("short label at the end", "Havregryn EKO", true),
		Entry("KRAV", "KRAV Ägg 12p", true),
		Entry("plain", "Milk 3%", false),
		Entry("eko inside a word", "Ekonomipack Kaffe", false),
	)
})

package category

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseResponse", func() {
	var (
		text string
		cats []Categorization
		err  error
	)

	JustBeforeEach(func() {
		cats, err = ParseResponse(text)
	})

	When("the response is raw JSON", func() {
		BeforeEach(func() {
			text = `{"categorizations": [
				{"item_name": "Banana", "category": "fruits_vegetables", "confidence": 0.9, "reasoning": "fruit"},
				{"item_name": "Lager", "category": "alcohol", "confidence": 0}
			]}`
		})

		It("returns every entry", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(cats).To(Equal([]Categorization{
				{ItemName: "Banana", Category: FruitsVegetables, Confidence: 0.9, Reasoning: "fruit"},
				{ItemName: "Lager", Category: Alcohol, Confidence: 0},
			}))
		})
	})

	When("the response is wrapped in a code fence", func() {
		BeforeEach(func() {
			text = "Here you go:\n```json\n{\"categorizations\": [{\"item_name\": \"Milk\", \"category\": \"dairy_eggs\", \"confidence\": 0.8}]}\n```"
		})

		It("extracts the JSON", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(cats).To(HaveLen(1))
			Expect(cats[0].Category).To(Equal(DairyEggs))
		})
	})

	When("the fence has no language tag", func() {
		BeforeEach(func() {
			text = "```\n{\"categorizations\": []}\n```"
		})

		It("extracts the JSON", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(cats).To(BeEmpty())
		})
	})

	DescribeTable("invalid responses",
		func(input string, message string) {
			_, err := ParseResponse(input)
			Expect(err).To(MatchError(ErrParse))
			Expect(err.Error()).To(ContainSubstring(message))
		},
		Entry("not JSON", `not json`, "failed to parse"),
		Entry("no categorizations", `{"items": []}`, "missing categorizations array"),
		Entry("categorizations not a list", `{"categorizations": {"a": 1}}`, "missing categorizations array"),
		Entry("categorizations null", `{"categorizations": null}`, "missing categorizations array"),
		Entry("missing item name",
			`{"categorizations": [{"item_name": "A", "category": "other", "confidence": 1}, {"category": "other", "confidence": 1}]}`,
			"invalid categorization at index 1"),
		Entry("unknown category",
			`{"categorizations": [{"item_name": "A", "category": "FRUIT", "confidence": 1}]}`,
			"invalid category at index 0: FRUIT"),
		Entry("confidence above one",
			`{"categorizations": [{"item_name": "A", "category": "other", "confidence": 1.5}]}`,
			"invalid confidence score at index 0"),
		Entry("confidence missing",
			`{"categorizations": [{"item_name": "A", "category": "other"}]}`,
			"invalid confidence score at index 0"),
		Entry("confidence not a number",
			`{"categorizations": [{"item_name": "A", "category": "other", "confidence": "high"}]}`,
			"invalid categorization at index 0"),
	)
})

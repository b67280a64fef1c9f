// Package category assigns product categories to receipt items.
//
// Two predictors feed it: a keyword rule engine that needs nothing external, and an
// LLM-backed predictor reached through a Predictor. Merge decides between them.
package category

import "fmt"

// Category is a product category
type Category string

const (
	FruitsVegetables Category = "fruits_vegetables"
	MeatFish         Category = "meat_fish"
	DairyEggs        Category = "dairy_eggs"
	BreadBakery      Category = "bread_bakery"
	Pantry           Category = "pantry"
	Frozen           Category = "frozen"
	Beverages        Category = "beverages"
	SnacksCandy      Category = "snacks_candy"
	Alcohol          Category = "alcohol"
	Household        Category = "household"
	PersonalCare     Category = "personal_care"
	BabyKids         Category = "baby_kids"
	PetSupplies      Category = "pet_supplies"
	Other            Category = "other"
)

// All lists every category in prompt order
var All = []Category{
	FruitsVegetables,
	MeatFish,
	DairyEggs,
	BreadBakery,
	Pantry,
	Frozen,
	Beverages,
	SnacksCandy,
	Alcohol,
	Household,
	PersonalCare,
	BabyKids,
	PetSupplies,
	Other,
}

// Parse returns the category named s
func Parse(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	switch c {
	case FruitsVegetables, MeatFish, DairyEggs, BreadBakery, Pantry, Frozen, Beverages,
		SnacksCandy, Alcohol, Household, PersonalCare, BabyKids, PetSupplies, Other:
		return true
	}
	return false
}

// DisplayName returns a human readable name in the given locale.
// Locales other than "sv" get English.
func DisplayName(c Category, locale string) string {
	en, sv := names(c)
	if locale == "sv" {
		return sv
	}
	return en
}

func names(c Category) (en, sv string) {
	switch c {
	case FruitsVegetables:
		return "Fruits & Vegetables", "Frukt & Grönt"
	case MeatFish:
		return "Meat & Fish", "Kött & Fisk"
	case DairyEggs:
		return "Dairy & Eggs", "Mejeri & Ägg"
	case BreadBakery:
		return "Bread & Bakery", "Bröd & Bageri"
	case Frozen:
		return "Frozen Foods", "Fryst"
	case Beverages:
		return "Beverages", "Drycker"
	case SnacksCandy:
		return "Snacks & Candy", "Snacks & Godis"
	case Pantry:
		return "Pantry Staples", "Skafferi"
	case Household:
		return "Household", "Hushåll"
	case PersonalCare:
		return "Personal Care", "Personvård"
	case BabyKids:
		return "Baby & Kids", "Barn & Baby"
	case PetSupplies:
		return "Pet Supplies", "Djurmat"
	case Alcohol:
		return "Alcohol", "Alkohol"
	case Other:
		return "Other", "Övrigt"
	}
	return string(c), string(c)
}

// Prediction is a category guess with its confidence in [0,1]
type Prediction struct {
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
	Reasoning  string   `json:"reasoning,omitempty"`
}

// Item is the part of a receipt line the classifiers look at
type Item struct {
	Name      string   `json:"name"`
	SKU       string   `json:"sku,omitempty"`
	UnitPrice *float64 `json:"unit_price,omitempty"`
}

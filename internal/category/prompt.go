package category

import (
	"fmt"
	"strconv"
	"strings"
)

// Request describes one receipt's worth of items for the external predictor
type Request struct {
	Items     []Item `json:"items"`
	StoreName string `json:"store_name,omitempty"`
	Country   string `json:"country,omitempty"`
}

// BuildPrompt renders the categorization prompt for a request
func BuildPrompt(req Request) string {
	cats := make([]string, len(All))
	for i, c := range All {
		cats[i] = string(c)
	}

	var items strings.Builder
	for i, it := range req.Items {
		if i > 0 {
			items.WriteByte('\n')
		}
		fmt.Fprintf(&items, "%d. %s", i+1, it.Name)
		if it.SKU != "" {
			fmt.Fprintf(&items, " (SKU: %s)", it.SKU)
		}
		if it.UnitPrice != nil {
			fmt.Fprintf(&items, " [price: %s]", strconv.FormatFloat(*it.UnitPrice, 'f', 2, 64))
		}
	}

	store := req.StoreName
	if store == "" {
		store = "Unknown"
	}
	country := req.Country
	if country == "" {
		country = "Sweden"
	}

	return fmt.Sprintf(`You are a grocery item categorization expert. Categorize the following items from a grocery receipt into one of these categories: %s.

Store: %s
Country: %s

Items to categorize:
%s

For each item, provide:
1. The item name (exactly as given)
2. The most appropriate category
3. A confidence score (0.0 to 1.0)
4. Brief reasoning

Respond ONLY with a JSON object in this format:
{
  "categorizations": [
    {
      "item_name": "Item name",
      "category": "CATEGORY_NAME",
      "confidence": 0.95,
      "reasoning": "Brief explanation"
    }
  ]
}`, strings.Join(cats, ", "), store, country, items.String())
}

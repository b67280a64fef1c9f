package scanning

import (
	"fmt"
	"strings"

	"github.com/enoch85/receiptor/internal/receipt"
)

// scanPrompt asks for the payload shape receipt.ParseVeryfi reads
const scanPrompt = `You are analyzing a grocery receipt. Carefully read all text in the image and extract the following information:

1. **Store**: The merchant or store name, usually the largest text at the top. Examples: "ICA Maxi", "Coop", "Willys". Include the address and phone number if printed.

2. **Date and time**: The purchase date in ISO 8601 format (YYYY-MM-DD) and the time (HH:MM) if printed.

3. **Totals**: The final total ("TOTALT", "ATT BETALA", "TOTAL"), the subtotal and the VAT ("MOMS") as numbers.

4. **Line items**: Every purchased product with its description as printed, quantity, unit price, line total and article number (SKU) if printed. Do not include deposit refunds, discounts or totals as items.

5. **Payment and currency**: The payment type (for example "card" or "cash") and the ISO 4217 currency code.

Return ONLY valid JSON in this exact format:
{
  "vendor": {"name": "Store Name", "address": "Street 1, City", "phone_number": "+46 ..."},
  "date": "YYYY-MM-DD",
  "time": "HH:MM",
  "total": 0.00,
  "subtotal": 0.00,
  "tax": 0.00,
  "currency_code": "SEK",
  "payment": {"type": "card"},
  "line_items": [
    {"description": "Item", "quantity": 1, "price": 0.00, "total": 0.00, "sku": "123"}
  ]
}

Important:
- Amounts must be numbers (not strings)
- If you cannot find a field, use null for that field
- Do not include any text before or after the JSON
- Do not use markdown code blocks`

// parsePayload extracts the JSON object from a model answer
func parsePayload(text string) (*receipt.VeryfiPayload, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")

	start := strings.Index(text, "{")
	if start == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}
	end := strings.LastIndex(text, "}")
	if end < start {
		return nil, fmt.Errorf("invalid JSON object in response")
	}

	return receipt.DecodeVeryfi([]byte(text[start : end+1]))
}

package receipt

import "strings"

// StoreRule rewrites a receipt for a particular chain
type StoreRule func(*ParsedReceipt) *ParsedReceipt

// StoreRules maps a lower-case store name fragment to its rule.
// Matching is by substring; the first match in slice order applies.
type StoreRules []struct {
	Match string
	Rule  StoreRule
}

// DefaultStoreRules are applied by the ingestion pipeline
var DefaultStoreRules = StoreRules{
	{Match: "ica", Rule: tidyItemNames},
	{Match: "coop", Rule: tidyItemNames},
	{Match: "willys", Rule: tidyItemNames},
}

// Apply runs the first rule whose fragment appears in the store name.
// Receipts from unknown stores are returned unchanged.
func (rules StoreRules) Apply(r *ParsedReceipt) *ParsedReceipt {
	name := strings.ToLower(r.StoreName)
	for _, sr := range rules {
		if strings.Contains(name, strings.ToLower(sr.Match)) {
			return sr.Rule(r)
		}
	}
	return r
}

// tidyItemNames collapses the padding Swedish chains print between words
func tidyItemNames(r *ParsedReceipt) *ParsedReceipt {
	out := *r
	out.Items = make([]ParsedItem, len(r.Items))
	for i, it := range r.Items {
		if it.Name != UnknownItem {
			it.Name = strings.Join(strings.Fields(it.Name), " ")
			if it.Name == "" {
				it.Name = UnknownItem
			}
		}
		out.Items[i] = it
	}
	return &out
}

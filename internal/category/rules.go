package category

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	noMatchConfidence = 0.3
	maxRuleConfidence = 0.95
)

// ClassifyByRules scores an item name against the keyword table
func ClassifyByRules(item Item) Prediction {
	name := fold(item.Name)

	var (
		best      Category
		bestScore int
		total     int
	)
	for _, entry := range keywords {
		score := 0
		for _, w := range entry.words {
			if strings.Contains(name, fold(w)) {
				score++
			}
		}
		total += score
		if score > bestScore {
			best, bestScore = entry.category, score
		}
	}

	if bestScore == 0 {
		return Prediction{
			Category:   Other,
			Confidence: noMatchConfidence,
			Reasoning:  "No keyword matches found",
		}
	}

	return Prediction{
		Category:   best,
		Confidence: min(float64(bestScore)/float64(total), maxRuleConfidence),
		Reasoning:  fmt.Sprintf("Matched %d keyword(s)", bestScore),
	}
}

// ClassifyAllByRules runs ClassifyByRules over items, keeping order
func ClassifyAllByRules(items []Item) []Prediction {
	out := make([]Prediction, len(items))
	for i, it := range items {
		out[i] = ClassifyByRules(it)
	}
	return out
}

// fold puts s in composed form and lower case so "ä" matches "ä"
func fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

var organicMarkers = []string{"organic", "ekologisk", "eko ", "krav", "bio "}

// IsOrganic reports whether an item name carries an organic label
func IsOrganic(name string) bool {
	n := fold(name) + " "
	for _, m := range organicMarkers {
		if strings.Contains(n, m) {
			return true
		}
	}
	return false
}

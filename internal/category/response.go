package category

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParse is returned for a predictor response that is malformed or invalid
var ErrParse = errors.New("failed to parse categorization response")

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*\\})\\s*```")

// Categorization is one validated entry of the predictor response
type Categorization struct {
	ItemName   string   `json:"item_name"`
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
}

// Prediction converts the entry into a Prediction
func (c Categorization) Prediction() Prediction {
	return Prediction{Category: c.Category, Confidence: c.Confidence, Reasoning: c.Reasoning}
}

type rawCategorization struct {
	ItemName   string   `json:"item_name"`
	Category   string   `json:"category"`
	Confidence *float64 `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
}

// ParseResponse validates predictor output, raw or wrapped in a markdown code fence.
// Every entry is checked before anything is returned.
func ParseResponse(text string) ([]Categorization, error) {
	text = strings.TrimSpace(text)
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	rawList, ok := top["categorizations"]
	if !ok {
		return nil, fmt.Errorf("%w: missing categorizations array", ErrParse)
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(rawList, &entries); err != nil || entries == nil {
		return nil, fmt.Errorf("%w: missing categorizations array", ErrParse)
	}

	out := make([]Categorization, 0, len(entries))
	for i, e := range entries {
		var rc rawCategorization
		if err := json.Unmarshal(e, &rc); err != nil {
			return nil, fmt.Errorf("%w: invalid categorization at index %d: %v", ErrParse, i, err)
		}
		if rc.ItemName == "" || rc.Category == "" {
			return nil, fmt.Errorf("%w: invalid categorization at index %d: missing required fields", ErrParse, i)
		}
		cat := Category(rc.Category)
		if !cat.Valid() {
			return nil, fmt.Errorf("%w: invalid category at index %d: %s", ErrParse, i, rc.Category)
		}
		if rc.Confidence == nil || *rc.Confidence < 0 || *rc.Confidence > 1 {
			return nil, fmt.Errorf("%w: invalid confidence score at index %d", ErrParse, i)
		}
		out = append(out, Categorization{
			ItemName:   rc.ItemName,
			Category:   cat,
			Confidence: *rc.Confidence,
			Reasoning:  rc.Reasoning,
		})
	}
	return out, nil
}

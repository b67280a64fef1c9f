package category

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/enoch85/receiptor/internal/llm"
)

// Predictor is an external categorization oracle
type Predictor interface {
	Predict(ctx context.Context, req Request) ([]Categorization, error)
}

// Completer is the part of llm.Client the predictor needs
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// LLMPredictor asks a language model to categorize items
type LLMPredictor struct {
	model  Completer
	policy llm.RetryPolicy
}

// NewLLMPredictor creates a predictor backed by model
func NewLLMPredictor(model Completer, policy llm.RetryPolicy) *LLMPredictor {
	return &LLMPredictor{model: model, policy: policy}
}

// Predict sends the prompt, retrying transport failures. A malformed answer is not retried.
func (p *LLMPredictor) Predict(ctx context.Context, req Request) ([]Categorization, error) {
	prompt := BuildPrompt(req)
	return llm.Retry(ctx, p.policy, func() ([]Categorization, error) {
		text, err := p.model.Complete(ctx, prompt)
		if err != nil {
			return nil, err
		}
		cats, err := ParseResponse(text)
		if err != nil {
			return nil, llm.Permanent(err)
		}
		return cats, nil
	})
}

// Classifier combines the rule engine with an optional external predictor
type Classifier struct {
	predictor Predictor
	country   string
}

// NewClassifier creates a classifier. A nil predictor means rules only.
func NewClassifier(predictor Predictor, country string) *Classifier {
	return &Classifier{predictor: predictor, country: country}
}

// Classify returns one merged prediction per item, in item order.
// If the external predictor fails the rule predictions are returned.
func (c *Classifier) Classify(ctx context.Context, storeName string, items []Item) []Prediction {
	rules := ClassifyAllByRules(items)
	if c.predictor == nil || len(items) == 0 {
		return rules
	}

	cats, err := c.predictor.Predict(ctx, Request{Items: items, StoreName: storeName, Country: c.country})
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, ErrParse) {
			level = slog.LevelError
		}
		slog.Log(ctx, level, "External categorization failed, using rules",
			"store", storeName,
			"items", len(items),
			"error", err,
		)
		return rules
	}

	external := matchExternal(items, cats)
	out := make([]Prediction, len(items))
	for i := range items {
		out[i] = Merge(rules[i], external[i])
	}
	return out
}

// matchExternal lines predictor entries up with items by name.
// Exact names are matched first, then case-insensitive ones; each entry is used once.
func matchExternal(items []Item, cats []Categorization) []*Prediction {
	out := make([]*Prediction, len(items))
	used := make([]bool, len(cats))

	claim := func(i int, eq func(a, b string) bool) {
		for j, c := range cats {
			if !used[j] && eq(c.ItemName, items[i].Name) {
				used[j] = true
				p := c.Prediction()
				out[i] = &p
				return
			}
		}
	}

	for i := range items {
		claim(i, func(a, b string) bool { return a == b })
	}
	for i := range items {
		if out[i] == nil {
			claim(i, func(a, b string) bool { return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) })
		}
	}
	return out
}

// String renders a prediction for logs
func (p Prediction) String() string {
	return fmt.Sprintf("%s (%.2f)", p.Category, p.Confidence)
}

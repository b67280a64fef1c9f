package category

// externalOverride is the confidence at which the external prediction is taken as is
const externalOverride = 0.8

// Merge picks the final prediction for an item. The branch order matters on ties:
//  1. no external prediction: rule
//  2. external confidence >= 0.8: external
//  3. same category: external, with the higher of both confidences
//  4. otherwise the strictly more confident one, rule on a tie
func Merge(rule Prediction, external *Prediction) Prediction {
	if external == nil {
		return rule
	}
	if external.Confidence >= externalOverride {
		return *external
	}
	if external.Category == rule.Category {
		merged := *external
		merged.Confidence = max(external.Confidence, rule.Confidence)
		return merged
	}
	if external.Confidence > rule.Confidence {
		return *external
	}
	return rule
}

package classify

import "strings"

// Category is the coarse disposition reported to API clients.
type Category string

const (
	CategoryConfirmed     Category = "Confirmed Planet"
	CategoryCandidate     Category = "Candidate Planet"
	CategoryFalsePositive Category = "False Positive (Not a Planet)"
)

// Keyword tables checked by Categorize. Order matters: confirmed beats
// candidate beats false positive.
var (
	candidateKeywords     = []string{"CANDIDATE", "APC", "CP", "KP"}
	falsePositiveKeywords = []string{"FALSE", "FA", "REFUTED", "NOT"}
)

// Categorize maps a raw catalog label onto one of the three coarse
// dispositions. Matching is case-insensitive on the trimmed label; a label
// that matches no keyword passes through unchanged.
func Categorize(raw string) Category {
	label := strings.ToUpper(strings.TrimSpace(raw))

	if strings.Contains(label, "CONFIRMED") {
		return CategoryConfirmed
	}
	for _, keyword := range candidateKeywords {
		if strings.Contains(label, keyword) {
			return CategoryCandidate
		}
	}
	for _, keyword := range falsePositiveKeywords {
		if strings.Contains(label, keyword) {
			return CategoryFalsePositive
		}
	}
	return Category(raw)
}

// GroupConfidence folds a fine-grained probability distribution into the
// three coarse buckets. Mass belonging to labels that categorize outside
// the buckets is dropped.
func GroupConfidence(detailed map[string]float64) map[Category]float64 {
	grouped := map[Category]float64{
		CategoryConfirmed:     0,
		CategoryCandidate:     0,
		CategoryFalsePositive: 0,
	}
	for label, prob := range detailed {
		category := Categorize(label)
		if _, ok := grouped[category]; ok {
			grouped[category] += prob
		}
	}
	return grouped
}

package normalize

import "strings"

// Risk levels in ascending order of severity.
const (
	RiskNone   = "none"
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Synonym table ordered from most to least severe so that mixed wording
// ("slightly dangerous") resolves to the stronger reading.
var riskSynonyms = []struct {
	level string
	words []string
}{
	{RiskHigh, []string{"high", "severe", "extreme", "critical", "dangerous", "deadly", "grave"}},
	{RiskMedium, []string{"medium", "moderate", "mid", "average", "elevated"}},
	{RiskLow, []string{"low", "minor", "slight", "minimal", "mild"}},
	{RiskNone, []string{"none", "safe", "zero", "negligible"}},
}

// RiskLevel collapses free-text risk wording to exactly one of none, low,
// medium or high. Unrecognized input is none.
func RiskLevel(s string) string {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return RiskNone
	}
	for _, group := range riskSynonyms {
		for _, w := range group.words {
			if key == w {
				return group.level
			}
		}
	}
	for _, group := range riskSynonyms {
		for _, w := range group.words {
			if strings.Contains(key, w) {
				return group.level
			}
		}
	}
	return RiskNone
}

package valuation

import "strings"

// NoOpinionScore sorts after every real rank, signaling "no opinion"
// rather than "worst opinion".
const NoOpinionScore = 99

// analystRanks maps recommendation labels to ordinal scores for
// sorting and display.
var analystRanks = map[string]int{
	"strong_buy":   1,
	"buy":          2,
	"hold":         3,
	"underperform": 4,
	"sell":         5,
}

// AnalystScore maps an analyst recommendation label to its ordinal
// score. Absent or unrecognized labels map to NoOpinionScore.
func AnalystScore(label string) int {
	if score, ok := analystRanks[strings.ToLower(strings.TrimSpace(label))]; ok {
		return score
	}
	return NoOpinionScore
}

package whitepaper

import (
	"regexp"
	"strings"
)

// Keyword weights sum to 100 per category so a document touching every
// theme scores full marks.

var useCaseKeywords = map[string]int{
	"payment":        15,
	"store of value": 15,
	"smart contract": 10,
	"privacy":        10,
	"remittance":     10,
	"decentralized":  10,
	"identity":       5,
	"governance":     5,
	"settlement":     5,
	"micropayment":   5,
	"adoption":       5,
	"real-world":     5,
}

var technologyKeywords = map[string]int{
	"proof of work":  10,
	"proof of stake": 10,
	"zero-knowledge": 15,
	"zk-snark":       10,
	"sharding":       10,
	"consensus":      10,
	"cryptograph":    10,
	"scalab":         10,
	"byzantine":      5,
	"merkle":         5,
	"light client":   5,
}

var totalSupplyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:total|maximum|max)\s+supply\s+(?:of\s+|is\s+|capped\s+at\s+)?([\d,.]+\s*(?:million|billion)?)`),
	regexp.MustCompile(`(?i)capped\s+at\s+([\d,.]+\s*(?:million|billion)?)\s+(?:coins|tokens|units)`),
	regexp.MustCompile(`(?i)([\d,.]+\s*(?:million|billion)?)\s+(?:coins|tokens)\s+(?:will\s+ever|in\s+total)`),
}

var blockTimePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)block\s+time\s+(?:of\s+|is\s+)?(?:roughly\s+|about\s+|~\s*)?([\d.]+\s*(?:seconds?|minutes?))`),
	regexp.MustCompile(`(?i)(?:a\s+new\s+block\s+)?every\s+([\d.]+\s*(?:seconds?|minutes?))`),
	regexp.MustCompile(`(?i)([\d.]+\s*(?:second|minute))\s+block\s+(?:times?|intervals?)`),
}

var consensusPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(proof[\s-]of[\s-](?:work|stake|authority|history|space))`),
	regexp.MustCompile(`(?i)(delegated\s+proof[\s-]of[\s-]stake)`),
	regexp.MustCompile(`(?i)(nakamoto\s+consensus)`),
	regexp.MustCompile(`(?i)(practical\s+byzantine\s+fault\s+tolerance|pbft)`),
}

// scoreKeywords sums the weights of the keywords present in the text,
// capped at 100. The text is expected lowercased.
func scoreKeywords(text string, keywords map[string]int) int {
	score := 0
	for keyword, weight := range keywords {
		if strings.Contains(text, keyword) {
			score += weight
		}
	}
	if score > 100 {
		score = 100
	}
	return score
}

// extractMetric returns the first capture of the first matching pattern,
// or an empty string when nothing matches.
func extractMetric(text string, patterns []*regexp.Regexp) string {
	for _, pattern := range patterns {
		match := pattern.FindStringSubmatch(text)
		if match != nil {
			return strings.TrimSpace(match[1])
		}
	}
	return ""
}

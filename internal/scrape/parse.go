package scrape

import (
	"regexp"
	"strconv"
	"strings"
)

// number extraction from scraped text, tolerant of thousands
// separators, stray spaces and unicode minus signs

var numberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`([\d,]+(?:\.\d+)?)`), // standard number with commas
	regexp.MustCompile(`([\d.]+)`),           // number with dots
	regexp.MustCompile(`(\d+)`),              // just digits
}

// ParseNumberFromText extracts the first number found in free-form
// dashboard text.
func ParseNumberFromText(text string) (float64, bool) {
	if text == "" {
		return 0, false
	}

	text = strings.ReplaceAll(text, " ", "")
	text = strings.ReplaceAll(text, "−", "-")

	for _, pattern := range numberPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		cleaned := strings.ReplaceAll(match[1], ",", "")
		value, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			continue
		}
		return value, true
	}

	return 0, false
}

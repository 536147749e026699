package lessons

import (
	"strings"
)

// PriceBand maps a price to one of three fixed bands. Prices below 80
// are "low", prices from 80 up to but not including 140 are "medium",
// and 140 and above are "high".
func PriceBand(price float64) string {
	switch {
	case price < 80:
		return "low"
	case price < 140:
		return "medium"
	default:
		return "high"
	}
}

// FormatPredictions joins labels with ", " and wraps the result so no
// line exceeds width characters. A width below 1 disables wrapping.
func FormatPredictions(labels []string, width int) string {
	if len(labels) == 0 {
		return ""
	}

	var b strings.Builder
	lineLen := 0
	for i, label := range labels {
		chunk := label
		if i < len(labels)-1 {
			chunk += ","
		}
		switch {
		case lineLen == 0:
			b.WriteString(chunk)
			lineLen = len(chunk)
		case width > 0 && lineLen+1+len(chunk) > width:
			b.WriteString("\n")
			b.WriteString(chunk)
			lineLen = len(chunk)
		default:
			b.WriteString(" ")
			b.WriteString(chunk)
			lineLen += 1 + len(chunk)
		}
	}
	return b.String()
}

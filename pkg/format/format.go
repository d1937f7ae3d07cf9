// Package format holds small text helpers shared by handlers and services.
package format

import (
	"fmt"
	"regexp"
	"strings"
)

// TitleName capitalizes each word of a full name.
func TitleName(fullname string) string {
	names := strings.Fields(strings.TrimSpace(fullname))
	for i, n := range names {
		r := []rune(strings.ToLower(n))
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		names[i] = string(r)
	}
	return strings.Join(names, " ")
}

// FormatNumber renders counts as 1.2K / 3.4M for profile stats.
func FormatNumber(n int64) string {
	const (
		k = 1_000
		m = 1_000_000
	)
	switch {
	case n >= m:
		return fmt.Sprintf("%.1fM", float64(n)/m)
	case n >= k:
		return fmt.Sprintf("%.1fK", float64(n)/k)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// Truncate cuts s at max runes and appends an ellipsis when longer.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

var base64ImagePattern = regexp.MustCompile(`data:image/[^'"\s]*base64[^'"\s]*`)

// ReadingTime estimates reading time at 200 words per minute, with
// inline base64 images stripped so they do not count as words.
func ReadingTime(content string) string {
	cleaned := base64ImagePattern.ReplaceAllString(content, "")
	words := strings.Fields(cleaned)

	minutes := (len(words) + 199) / 200
	switch {
	case minutes <= 1:
		return "1 Min Read"
	case minutes >= 60:
		return fmt.Sprintf("%d Hr Read", (minutes+29)/60)
	default:
		return fmt.Sprintf("%d Mins Read", minutes)
	}
}

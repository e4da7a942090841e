package engine

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// generateCustomPath builds "custom:<slug>-<unix millis>" for a custom item
// added without a path.
func generateCustomPath(name string, now time.Time) string {
	return fmt.Sprintf("custom:%s-%d", slug(name), now.UnixMilli())
}

// slug lowercases name, drops everything but letters, digits, whitespace
// and hyphens, and joins the remaining words with single hyphens.
func slug(name string) string {
	kept := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '-' {
			return unicode.ToLower(r)
		}
		return -1
	}, name)
	return strings.Join(strings.Fields(kept), "-")
}

package util

import (
	"regexp"
	"strings"
)

var nonAlphaNum = regexp.MustCompile(`[^a-z0-9_-]`)

// SanitizeID turns a service or category name into an XML id fragment:
// lowercase letters, digits, hyphens and underscores only.
func SanitizeID(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "-", ".", "-", "/", "-", "+", "p", "#", "sharp").Replace(s)
	s = nonAlphaNum.ReplaceAllString(s, "")
	if s == "" {
		return "unknown"
	}
	return s
}

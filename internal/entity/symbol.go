package entity

import (
	"regexp"
	"strings"

	"golang.org/x/text/width"
)

const symbolDelimiters = "/\\,;|'\""

var symbolPattern = regexp.MustCompile(`^[A-Za-z0-9^=&._-]+$`)

// CleanSymbol strips surrounding whitespace and stray delimiter characters and
// folds full-width characters (as typed by CJK input methods) to ASCII.
func CleanSymbol(raw string) string {
	s := width.Fold.String(raw)
	s = strings.TrimSpace(s)
	s = strings.Trim(s, symbolDelimiters)
	return strings.TrimSpace(s)
}

// ValidSymbol reports whether s looks like an exchange qualified identifier.
func ValidSymbol(s string) bool {
	return symbolPattern.MatchString(s)
}

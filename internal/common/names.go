package common

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeName trims a task or person name and collapses inner whitespace.
func NormalizeName(name string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(name), " ")
}

// NameKey folds a name for loose comparison: normalized and lower-cased.
func NameKey(name string) string {
	return strings.ToLower(NormalizeName(name))
}

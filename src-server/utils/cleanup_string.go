package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CleanupString normalizes a free-form phrase into something usable as a
// display title: strips spaces, title-cases, removes a trailing period.
func CleanupString(s string) string {
	s = strings.TrimSpace(s)
	s = cases.Title(language.English).String(s)
	s = strings.TrimSuffix(s, ".")
	return strings.TrimSpace(s)
}

package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Matches the prepositions/verbs the assistant uses to introduce a date:
// "on June 15th", "by the 20th", "posting this Friday 12/05", etc.
const verbPrefix = `(?:on|by|for|at|post(?:ing)?\s+(?:this|on))`

var monthsByName = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

func parseMonth(token string) (time.Month, bool) {
	m, ok := monthsByName[strings.ToLower(strings.TrimSuffix(token, "."))]
	return m, ok
}

// A dateRule pairs a matcher with a resolver. Rules are evaluated in order
// and the first candidate that resolves wins; a resolver returning false
// lets evaluation fall through to the next candidate or rule.
type dateRule struct {
	name    string
	re      *regexp.Regexp
	resolve func(groups []string, now time.Time) (time.Time, bool)
}

// Ordered waterfall. The order is load-bearing: a structured "Date:" label
// always beats relative phrases, which beat verb-qualified forms.
var dateRules = []dateRule{
	{
		name: "labeled-date",
		re:   regexp.MustCompile(`(?im)^[ \t]*\*{0,2}date(?::\*{0,2}|\*{0,2}:)[ \t]*([a-z]+)\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b(?:,?\s*(\d{4}))?`),
		resolve: func(g []string, now time.Time) (time.Time, bool) {
			month, ok := parseMonth(g[1])
			if !ok {
				return time.Time{}, false
			}
			day, err := strconv.Atoi(g[2])
			if err != nil {
				return time.Time{}, false
			}
			year := now.Year()
			if g[3] != "" {
				if year, err = strconv.Atoi(g[3]); err != nil {
					return time.Time{}, false
				}
			}
			return time.Date(year, month, day, 0, 0, 0, 0, now.Location()), true
		},
	},
	{
		name: "tomorrow",
		re:   regexp.MustCompile(`(?i)\btomorrow\b`),
		resolve: func(_ []string, now time.Time) (time.Time, bool) {
			return midnight(now.AddDate(0, 0, 1)), true
		},
	},
	{
		name: "in-n-days",
		re:   regexp.MustCompile(`(?i)\bin\s+(\d+)\s+days?\b`),
		resolve: func(g []string, now time.Time) (time.Time, bool) {
			n, err := strconv.Atoi(g[1])
			if err != nil {
				return time.Time{}, false
			}
			return midnight(now.AddDate(0, 0, n)), true
		},
	},
	{
		name: "next-week",
		re:   regexp.MustCompile(`(?i)\bnext\s+week\b`),
		resolve: func(_ []string, now time.Time) (time.Time, bool) {
			return midnight(now.AddDate(0, 0, 7)), true
		},
	},
	{
		name: "verb-month-day",
		re:   regexp.MustCompile(`(?i)\b` + verbPrefix + `\s+([a-z]+)\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b(?:,?\s*(\d{4}))?`),
		resolve: func(g []string, now time.Time) (time.Time, bool) {
			month, ok := parseMonth(g[1])
			if !ok {
				return time.Time{}, false
			}
			day, err := strconv.Atoi(g[2])
			if err != nil {
				return time.Time{}, false
			}
			year := now.Year()
			if g[3] != "" {
				if year, err = strconv.Atoi(g[3]); err != nil {
					return time.Time{}, false
				}
			}
			return validDate(year, month, day, now.Location())
		},
	},
	{
		name: "verb-day-month",
		re:   regexp.MustCompile(`(?i)\b` + verbPrefix + `\s+(?:the\s+)?(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?([a-z]+)\b(?:,?\s*(\d{4}))?`),
		resolve: func(g []string, now time.Time) (time.Time, bool) {
			day, err := strconv.Atoi(g[1])
			if err != nil {
				return time.Time{}, false
			}
			month, ok := parseMonth(g[2])
			if !ok {
				return time.Time{}, false
			}
			year := now.Year()
			if g[3] != "" {
				if year, err = strconv.Atoi(g[3]); err != nil {
					return time.Time{}, false
				}
			}
			return validDate(year, month, day, now.Location())
		},
	},
	{
		name: "verb-numeric",
		re:   regexp.MustCompile(`(?i)\b` + verbPrefix + `\s+(\d{1,2})[/-](\d{1,2})(?:[/-](\d{2,4}))?\b`),
		resolve: func(g []string, now time.Time) (time.Time, bool) {
			num1, err1 := strconv.Atoi(g[1])
			num2, err2 := strconv.Atoi(g[2])
			if err1 != nil || err2 != nil {
				return time.Time{}, false
			}
			// Lossy disambiguation inherited from the assistant's output
			// format: a first number above 12 must be the day.
			month, day := num1, num2
			if num1 > 12 {
				month, day = num2, num1
			}
			year := now.Year()
			if g[3] != "" {
				if year, err1 = strconv.Atoi(g[3]); err1 != nil {
					return time.Time{}, false
				}
				if year < 100 {
					year += 2000
				}
			}
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location()), true
		},
	},
	{
		name: "verb-bare-day",
		re:   regexp.MustCompile(`(?i)\b` + verbPrefix + `\s+(?:the\s+)?(\d{1,2})(?:st|nd|rd|th)?\b`),
		resolve: func(g []string, now time.Time) (time.Time, bool) {
			day, err := strconv.Atoi(g[1])
			if err != nil {
				return time.Time{}, false
			}
			// Deliberately unvalidated: "the 31st" in February rolls over
			// into March, same as the upstream date construction.
			return time.Date(now.Year(), now.Month(), day, 0, 0, 0, 0, now.Location()), true
		},
	},
}

// ResolveDate runs the message through the rule waterfall and returns the
// first date a rule resolves, normalized to midnight. The boolean is false
// when no rule matched.
func ResolveDate(msg string, now time.Time) (time.Time, bool) {
	for _, rule := range dateRules {
		for _, groups := range rule.re.FindAllStringSubmatch(msg, -1) {
			if date, ok := rule.resolve(groups, now); ok {
				return date, true
			}
		}
	}
	return time.Time{}, false
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// validDate rejects day/month combinations that don't exist instead of
// letting time.Date wrap them around.
func validDate(year int, month time.Month, day int, loc *time.Location) (time.Time, bool) {
	date := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if date.Month() != month || date.Day() != day {
		return time.Time{}, false
	}
	return date, true
}

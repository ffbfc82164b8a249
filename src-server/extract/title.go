package extract

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"postpilot/src-server/utils"
)

// labeledLine matches a "<Label>: value" line, tolerating bold markup
// around the label ("**Title:** value", "**Title**: value").
func labeledLine(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)^[ \t]*\*{0,2}` + label + `(?::\*{0,2}|\*{0,2}:)[ \t]*(.+)`)
}

var (
	titleLabelRes = []*regexp.Regexp{
		labeledLine("event name"),
		labeledLine("title"),
		labeledLine("video title"),
		labeledLine("content title"),
	}
	titleSuggestionsRe = regexp.MustCompile(`(?im)^[ \t]*\*{0,2}title suggestions(?::\*{0,2}|\*{0,2}:)[ \t]*\n?[ \t]*(?:\d+[.)][ \t]*|[-*][ \t]*)?"?([^"\n]+)"?`)

	titledQuotedRe   = regexp.MustCompile(`(?i)\btitled\s+"([^"]+)"`)
	titledUnquotedRe = regexp.MustCompile(`(?i)\btitled\s+([^".,!?\n]+)`)
	aboutQuotedRe    = regexp.MustCompile(`(?i)\babout\s+"([^"]+)"`)

	topicRe = regexp.MustCompile(`(?i)\b(?:video|content)\s+(?:about|on|for)\s+(?:the\s+)?([a-z0-9][^.,!?\n"]*)`)

	boilerplateRe = regexp.MustCompile(`(?i)^(?:i've added|i have added|here's|here is|created)\b[:,]?\s*`)
)

// ResolveTitle picks a display title for the event, trying explicit labels,
// then natural "titled ..." phrases, then a topic phrase, then the first
// line of the message. The "Content for <date>" fallback guarantees a
// non-empty result.
func ResolveTitle(msg string, date time.Time) string {
	for _, re := range titleLabelRes {
		if g := re.FindStringSubmatch(msg); g != nil {
			if title := cleanTitleValue(g[1]); title != "" {
				return title
			}
		}
	}
	if g := titleSuggestionsRe.FindStringSubmatch(msg); g != nil {
		if title := cleanTitleValue(g[1]); title != "" {
			return title
		}
	}

	for _, re := range []*regexp.Regexp{titledQuotedRe, titledUnquotedRe, aboutQuotedRe} {
		if g := re.FindStringSubmatch(msg); g != nil {
			if title := cleanTitleValue(g[1]); title != "" {
				return title
			}
		}
	}

	if g := topicRe.FindStringSubmatch(msg); g != nil {
		if topic := utils.CleanupString(g[1]); topic != "" {
			return topic + " - " + formatDate(date)
		}
	}

	if title := firstLineTitle(msg); title != "" {
		return title
	}

	return "Content for " + formatDate(date)
}

func cleanTitleValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "**")
	s = strings.TrimPrefix(s, "**")
	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}

func firstLineTitle(msg string) string {
	for _, line := range strings.Split(msg, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = boilerplateRe.ReplaceAllString(line, "")
		line = strings.TrimSpace(strings.TrimLeft(line, "#*- \t"))
		if line == "" || utf8.RuneCountInString(line) >= 80 {
			return ""
		}
		return line
	}
	return ""
}

func formatDate(date time.Time) string {
	return date.Format("Jan 2, 2006")
}

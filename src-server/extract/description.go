package extract

import (
	"regexp"
	"strings"
)

var (
	descLabelRes = []*regexp.Regexp{
		labeledBlock("description"),
		labeledBlock("content"),
		labeledBlock("video outline"),
	}

	// Ends a labeled block: a blank line followed by another bold label, a
	// markdown heading, or a list marker.
	blockBoundaryRe = regexp.MustCompile(`\n[ \t]*\n[ \t]*(?:\*\*|#{1,6}[ \t]|[-*][ \t]|\d+[.)][ \t])`)

	paragraphSplitRe = regexp.MustCompile(`\n[ \t]*\n`)
)

func labeledBlock(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)^[ \t]*\*{0,2}` + label + `(?::\*{0,2}|\*{0,2}:)[ \t]*\n?`)
}

// ResolveDescription extracts a description: a labeled block if one exists,
// otherwise the leading paragraphs of the message (minus the one holding
// the title), otherwise the first 300 characters of the raw message.
func ResolveDescription(msg, title string) string {
	for _, re := range descLabelRes {
		loc := re.FindStringIndex(msg)
		if loc == nil {
			continue
		}
		block := msg[loc[1]:]
		if cut := blockBoundaryRe.FindStringIndex(block); cut != nil {
			block = block[:cut[0]]
		}
		if block = strings.TrimSpace(block); block != "" {
			return block
		}
	}

	if desc := leadingParagraphs(msg, title); desc != "" {
		return desc
	}

	return truncateRunes(msg, 300)
}

func leadingParagraphs(msg, title string) string {
	var paragraphs []string
	for _, p := range paragraphSplitRe.Split(msg, -1) {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	// a single block of text has no paragraph structure to pull from
	if len(paragraphs) < 2 {
		return ""
	}
	if title != "" && strings.Contains(paragraphs[0], title) {
		paragraphs = paragraphs[1:]
	}
	if len(paragraphs) > 3 {
		paragraphs = paragraphs[:3]
	}
	return strings.Join(paragraphs, "\n\n")
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

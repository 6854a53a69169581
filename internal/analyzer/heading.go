package analyzer

import (
	"fmt"
	"regexp"
	"strings"
)

var headingRe = regexp.MustCompile(`(?m)^(?:#{1,6}\s+(.+)|(\d+(?:\.\d+)*)[.\s]+([A-Z][^\n]{2,80}))$`)

// Headings extracts the heading outline from competitor page text, covering
// markdown headings and numbered section titles.
func Headings(text string) []string {
	var headings []string
	for _, m := range headingRe.FindAllStringSubmatch(text, -1) {
		if m[1] != "" {
			headings = append(headings, strings.TrimSpace(m[1]))
		} else {
			headings = append(headings, strings.TrimSpace(m[2]+" "+m[3]))
		}
	}
	return headings
}

// Summarize builds the competitive-analysis block the generator consumes:
// one section per competitor document with its keyword-density table and
// heading outline.
func Summarize(keyword string, competitorTexts []string) string {
	if len(competitorTexts) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Competitive landscape for %q across %d observed pages:\n", keyword, len(competitorTexts))
	for i, text := range competitorTexts {
		fmt.Fprintf(&b, "\nCompetitor %d\n", i+1)
		fmt.Fprintf(&b, "Top keywords: %s\n", formatDensityTable(KeywordDensity(text, 8)))
		if headings := Headings(text); len(headings) > 0 {
			fmt.Fprintf(&b, "Heading outline: %s\n", strings.Join(headings, " > "))
		}
	}
	return strings.TrimSpace(b.String())
}

// Package repair recovers valid structured values from malformed model
// output. The chain tries progressively more aggressive strategies and, for
// reports, ends in a synthesized fallback so callers always receive a usable
// value and never an error.
package repair

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/clearsight-ai/reportforge/internal/domain"
)

const fallbackExcerptChars = 400

var (
	fenceRe         = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
	flatObjectRe    = regexp.MustCompile(`\{[^{}]*\}`)
)

// strategy produces a candidate JSON text from the raw blob, or "" when it
// does not apply.
type strategy struct {
	name  string
	apply func(string) string
}

// chain is the ordered recovery sequence. Each entry is attempted only when
// the prior ones fail to yield a valid JSON object.
var chain = []strategy{
	{"fenced-block", extractFencedBlock},
	{"brace-window", extractBraceWindow},
	{"normalize", normalizeCandidate},
	{"truncation-repair", repairTruncation},
}

// parseObject runs the chain and returns the first successfully parsed JSON
// object, plus the name of the strategy that produced it.
func parseObject(raw string) (map[string]any, string, bool) {
	for _, s := range chain {
		candidate := s.apply(raw)
		if candidate == "" {
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(candidate), &obj); err == nil {
			return obj, s.name, true
		}
	}
	return nil, "", false
}

// extractFencedBlock returns the contents of the first fenced code block.
func extractFencedBlock(raw string) string {
	m := fenceRe.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// extractBraceWindow returns the substring between the first '{' and the
// last '}'.
func extractBraceWindow(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}

// normalizeCandidate strips raw newlines and tabs (the usual corruption
// inside string values), collapses whitespace runs and removes trailing
// commas, then retries the brace window.
func normalizeCandidate(raw string) string {
	candidate := extractBraceWindow(raw)
	if candidate == "" {
		candidate = raw
	}
	candidate = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ").Replace(candidate)
	candidate = whitespaceRe.ReplaceAllString(candidate, " ")
	candidate = trailingCommaRe.ReplaceAllString(candidate, "$1")
	return strings.TrimSpace(candidate)
}

// repairTruncation treats the text as cut off mid-structure: it keeps the
// window up to the last complete '}', drops a dangling comma and force-closes
// any unterminated arrays and objects.
func repairTruncation(raw string) string {
	candidate := normalizeCandidate(raw)
	if candidate == "" {
		return ""
	}
	end := strings.LastIndex(candidate, "}")
	if end < 0 {
		return ""
	}
	candidate = candidate[:end+1]
	candidate = strings.TrimRight(candidate, " ,")

	opens, closes := bracketBalance(candidate)
	candidate += strings.Repeat("]", opens)
	candidate += strings.Repeat("}", closes)
	return candidate
}

// bracketBalance counts unclosed '[' and '{' outside string literals.
func bracketBalance(s string) (arrays, objects int) {
	inString := false
	escaped := false
	for _, r := range s {
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '[':
			if !inString {
				arrays++
			}
		case ']':
			if !inString {
				arrays--
			}
		case '{':
			if !inString {
				objects++
			}
		case '}':
			if !inString {
				objects--
			}
		}
	}
	if arrays < 0 {
		arrays = 0
	}
	if objects < 0 {
		objects = 0
	}
	return arrays, objects
}

// scanListItems is the final recovery for list-shaped payloads: it collects
// every flat object literal in the raw text that unmarshals into the item
// shape, ignoring corruption between complete items.
func scanListItems[T any](raw string, valid func(T) bool) []T {
	var items []T
	for _, m := range flatObjectRe.FindAllString(raw, -1) {
		var item T
		if err := json.Unmarshal([]byte(m), &item); err != nil {
			continue
		}
		if valid(item) {
			items = append(items, item)
		}
	}
	return items
}

// fallbackReport synthesizes the terminal degraded report. The raw excerpt is
// preserved as the single outline entry so nothing the model said is lost.
func fallbackReport(raw, keyword string) domain.StructuredReport {
	excerpt := strings.TrimSpace(raw)
	if runes := []rune(excerpt); len(runes) > fallbackExcerptChars {
		excerpt = string(runes[:fallbackExcerptChars])
	}

	title := strings.TrimSpace(keyword)
	if title == "" {
		title = "Untitled report"
	} else {
		title += " (draft report)"
	}

	return domain.StructuredReport{
		Title: title,
		Outline: []domain.OutlineSection{{
			Heading:     "Unstructured model output",
			Description: excerpt,
			SourceTag:   "raw",
		}},
		ComplianceNotes: []string{"Automated structuring failed; review the raw output before use."},
		RiskWarnings:    []string{"Content has not been validated against compliance constraints."},
		Disclaimer:      defaultDisclaimer,
		IsFallback:      true,
	}
}

// Package analyzer derives competitive-analysis text from competitor page
// content with deterministic counting. No external calls are made here.
package analyzer

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// KeywordCount is one entry of a keyword-density table.
type KeywordCount struct {
	Word    string  `json:"word"`
	Count   int     `json:"count"`
	Density float64 `json:"density"`
}

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"with": {}, "you": {}, "your": {}, "this": {}, "that": {}, "from": {},
	"have": {}, "has": {}, "was": {}, "were": {}, "will": {}, "can": {},
	"our": {}, "all": {}, "more": {}, "their": {}, "they": {}, "its": {},
}

// KeywordDensity tokenizes the text and returns the top most frequent words
// with their share of the total token count. Stopwords and tokens under
// three characters are ignored.
func KeywordDensity(text string, top int) []KeywordCount {
	if top <= 0 {
		top = 10
	}

	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, tok := range tokens {
		counts[tok]++
	}

	table := make([]KeywordCount, 0, len(counts))
	for word, count := range counts {
		table = append(table, KeywordCount{
			Word:    word,
			Count:   count,
			Density: float64(count) / float64(len(tokens)),
		})
	}
	sort.Slice(table, func(i, j int) bool {
		if table[i].Count != table[j].Count {
			return table[i].Count > table[j].Count
		}
		return table[i].Word < table[j].Word
	})

	if top < len(table) {
		table = table[:top]
	}
	return table
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 3 {
			continue
		}
		if _, ok := stopwords[f]; ok {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func formatDensityTable(table []KeywordCount) string {
	if len(table) == 0 {
		return "no significant keywords"
	}
	parts := make([]string, 0, len(table))
	for _, kc := range table {
		parts = append(parts, fmt.Sprintf("%s (%d, %.1f%%)", kc.Word, kc.Count, kc.Density*100))
	}
	return strings.Join(parts, ", ")
}

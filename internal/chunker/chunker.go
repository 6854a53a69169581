// Package chunker splits raw corpus text into bounded semantic units for
// embedding. Structural markers are preferred; paragraph and whole-document
// fallbacks guarantee non-empty output for non-empty input.
package chunker

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/clearsight-ai/reportforge/internal/domain"
)

// Config controls chunking for corpus ingestion.
type Config struct {
	// MinChars is the minimum length of an emitted chunk. Shorter units are
	// discarded as noise.
	MinChars int
}

// DefaultConfig provides sane defaults for chunking.
func DefaultConfig() Config {
	return Config{MinChars: 10}
}

var (
	// chapterRe matches structural chapter markers: markdown headings and
	// "Chapter N" style lines.
	chapterRe = regexp.MustCompile(`(?m)^(?:#{1,3}\s+[^\n]+|Chapter\s+\d+[^\n]*)$`)
	// sectionRe matches sub-section numbering markers like "2.1" or "3.4.1"
	// at the start of a line.
	sectionRe = regexp.MustCompile(`(?m)^\d+(?:\.\d+)+[.\s]`)
	blankRe   = regexp.MustCompile(`\n\s*\n`)
)

// Split chunks the given corpus text. The returned slice is never empty when
// text contains anything beyond whitespace; each chunk records its zero-based
// position in final emission order.
func Split(text, source string, cfg Config) []domain.TextChunk {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return nil
	}
	if cfg.MinChars <= 0 {
		cfg = DefaultConfig()
	}

	chunks := structuralChunks(clean, source, cfg)
	if len(chunks) == 0 {
		chunks = paragraphChunks(clean, source, cfg)
	}
	if len(chunks) == 0 {
		chunks = []domain.TextChunk{{
			Content: clean,
			Source:  source,
			Chapter: "full document",
		}}
	}

	for i := range chunks {
		chunks[i].Index = i
		chunks[i].ID = chunkID(source, i)
	}
	return chunks
}

// structuralChunks splits on chapter markers, then on sub-section numbering
// within each chapter.
func structuralChunks(text, source string, cfg Config) []domain.TextChunk {
	headings := chapterRe.FindAllStringIndex(text, -1)
	if len(headings) == 0 {
		return nil
	}

	var chunks []domain.TextChunk
	for i, loc := range headings {
		chapter := strings.TrimSpace(strings.TrimLeft(text[loc[0]:loc[1]], "# "))
		end := len(text)
		if i+1 < len(headings) {
			end = headings[i+1][0]
		}
		body := text[loc[1]:end]

		for _, unit := range sectionUnits(body) {
			unit = strings.TrimSpace(unit)
			if len([]rune(unit)) < cfg.MinChars {
				continue
			}
			chunks = append(chunks, domain.TextChunk{
				Content: unit,
				Source:  source,
				Chapter: chapter,
			})
		}
	}
	return chunks
}

// sectionUnits splits a chapter body at sub-section numbering markers,
// keeping each marker with the text that follows it.
func sectionUnits(body string) []string {
	marks := sectionRe.FindAllStringIndex(body, -1)
	if len(marks) == 0 {
		return []string{body}
	}

	var units []string
	if lead := body[:marks[0][0]]; strings.TrimSpace(lead) != "" {
		units = append(units, lead)
	}
	for i, loc := range marks {
		end := len(body)
		if i+1 < len(marks) {
			end = marks[i+1][0]
		}
		units = append(units, body[loc[0]:end])
	}
	return units
}

// paragraphChunks splits on blank-line boundaries.
func paragraphChunks(text, source string, cfg Config) []domain.TextChunk {
	var chunks []domain.TextChunk
	for _, para := range blankRe.Split(text, -1) {
		para = strings.TrimSpace(para)
		if len([]rune(para)) < cfg.MinChars {
			continue
		}
		chunks = append(chunks, domain.TextChunk{
			Content: para,
			Source:  source,
			Chapter: fmt.Sprintf("paragraph %d", len(chunks)+1),
		})
	}
	return chunks
}

func chunkID(source string, index int) string {
	slug := strings.ToLower(strings.TrimSpace(source))
	slug = strings.ReplaceAll(slug, " ", "-")
	if slug == "" {
		slug = "corpus"
	}
	return fmt.Sprintf("%s:%d", slug, index)
}

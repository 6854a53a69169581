package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_EmptyInput(t *testing.T) {
	assert.Nil(t, Split("", "manual", DefaultConfig()))
	assert.Nil(t, Split("   \n\t  ", "manual", DefaultConfig()))
}

func TestSplit_Structural(t *testing.T) {
	text := `# Product Overview

The widget line covers industrial and consumer use cases in detail.

# Safety Guidance

2.1 Always disconnect power before opening the housing unit.
2.2 Replacement parts must match the original specification sheet.`

	chunks := Split(text, "handbook", DefaultConfig())
	require.Len(t, chunks, 3)

	assert.Equal(t, "Product Overview", chunks[0].Chapter)
	assert.Contains(t, chunks[0].Content, "widget line")

	assert.Equal(t, "Safety Guidance", chunks[1].Chapter)
	assert.True(t, strings.HasPrefix(chunks[1].Content, "2.1"))
	assert.Equal(t, "Safety Guidance", chunks[2].Chapter)
	assert.True(t, strings.HasPrefix(chunks[2].Content, "2.2"))
}

func TestSplit_ParagraphFallback(t *testing.T) {
	text := "First paragraph with enough content to keep.\n\nSecond paragraph, also long enough."

	chunks := Split(text, "notes", DefaultConfig())
	require.Len(t, chunks, 2)
	assert.Equal(t, "paragraph 1", chunks[0].Chapter)
	assert.Equal(t, "paragraph 2", chunks[1].Chapter)
}

func TestSplit_FullDocumentFallback(t *testing.T) {
	// Below the minimum length for both structural and paragraph passes, but
	// non-empty input must still yield one chunk.
	chunks := Split("short", "stub", DefaultConfig())
	require.Len(t, chunks, 1)
	assert.Equal(t, "full document", chunks[0].Chapter)
	assert.Equal(t, "short", chunks[0].Content)
}

func TestSplit_DiscardsNoise(t *testing.T) {
	text := "A real paragraph that clears the minimum length easily.\n\nok\n\nAnother paragraph that also clears the minimum length."

	chunks := Split(text, "notes", DefaultConfig())
	require.Len(t, chunks, 2)
	for _, c := range chunks {
		assert.GreaterOrEqual(t, len(c.Content), 10)
	}
}

func TestSplit_IndexAndID(t *testing.T) {
	text := "First paragraph with enough content to keep.\n\nSecond paragraph, also long enough.\n\nThird paragraph rounding out the corpus."

	chunks := Split(text, "Field Notes", DefaultConfig())
	require.Len(t, chunks, 3)
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, "Field Notes", c.Source)
	}
	assert.Equal(t, "field-notes:0", chunks[0].ID)
	assert.Equal(t, "field-notes:2", chunks[2].ID)
}

func TestSplit_NonEmptyForAnyInput(t *testing.T) {
	inputs := []string{
		"x y z w v u t s r q",
		"# Heading\n\ntiny",
		"no structure at all just one line of prose",
	}
	for _, in := range inputs {
		chunks := Split(in, "probe", DefaultConfig())
		assert.NotEmpty(t, chunks, "input %q", in)
	}
}

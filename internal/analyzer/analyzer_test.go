package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordDensity(t *testing.T) {
	text := "Thermostat pricing matters. Thermostat reviews cover pricing and installation. Installation guides help."

	table := KeywordDensity(text, 3)
	require.NotEmpty(t, table)
	assert.Equal(t, "installation", table[0].Word)
	assert.Equal(t, 2, table[0].Count)
	// Ties break alphabetically, so a deterministic order is guaranteed.
	assert.Equal(t, "pricing", table[1].Word)
	assert.Equal(t, "thermostat", table[2].Word)

	var total float64
	for _, kc := range table {
		assert.Greater(t, kc.Density, 0.0)
		total += kc.Density
	}
	assert.LessOrEqual(t, total, 1.0)
}

func TestKeywordDensity_SkipsStopwordsAndShortTokens(t *testing.T) {
	table := KeywordDensity("the and for a an it to of in on", 10)
	assert.Empty(t, table)
}

func TestHeadings(t *testing.T) {
	text := `# Smart Thermostat Guide

Intro paragraph.

## Pricing Overview

1.2 Installation Basics
body text continues here`

	headings := Headings(text)
	require.Len(t, headings, 3)
	assert.Equal(t, "Smart Thermostat Guide", headings[0])
	assert.Equal(t, "Pricing Overview", headings[1])
	assert.Equal(t, "1.2 Installation Basics", headings[2])
}

func TestSummarize(t *testing.T) {
	texts := []string{
		"# Pricing\n\nThermostat pricing pricing pricing explained.",
		"# Setup\n\nInstallation installation steps described.",
	}

	got := Summarize("thermostat", texts)
	assert.Contains(t, got, `"thermostat"`)
	assert.Contains(t, got, "Competitor 1")
	assert.Contains(t, got, "Competitor 2")
	assert.Contains(t, got, "pricing")
	assert.Contains(t, got, "Heading outline: Pricing")
	assert.Equal(t, 2, strings.Count(got, "Top keywords:"))
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, "", Summarize("kw", nil))
}

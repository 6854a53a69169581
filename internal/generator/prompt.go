package generator

import (
	"fmt"
	"strings"
	"time"

	"github.com/clearsight-ai/reportforge/internal/domain"
)

// NoGroundingMarker is inserted when retrieval produced no passages above
// the similarity threshold, so the model knows not to pretend otherwise.
const NoGroundingMarker = "No relevant grounding passages were found in the corpus."

// forbiddenPhrases are absolute claims the generated report must not make.
var forbiddenPhrases = []string{
	"guaranteed results",
	"100% effective",
	"best on the market",
	"completely risk-free",
	"clinically proven",
	"instant results",
}

// mandatoryDisclosures must appear in the report's compliance notes or
// disclaimer.
var mandatoryDisclosures = []string{
	"individual results may vary",
	"statements have not been independently verified",
}

// FormatGrounding renders retrieved documents into the prompt's grounding
// block. Empty input yields the explicit no-grounding marker.
func FormatGrounding(docs []domain.RetrievedDocument) string {
	if len(docs) == 0 {
		return NoGroundingMarker
	}
	var b strings.Builder
	for i, doc := range docs {
		fmt.Fprintf(&b, "[%d] (%s, %s, similarity %.3f)\n%s\n\n", i+1, doc.Source, doc.Chapter, doc.Score, doc.Content)
	}
	return strings.TrimSpace(b.String())
}

func buildReportPrompt(now time.Time, keyword, analysisText, groundingText string) string {
	if strings.TrimSpace(groundingText) == "" {
		groundingText = NoGroundingMarker
	}
	if strings.TrimSpace(analysisText) == "" {
		analysisText = "No competitive analysis was supplied."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Today's date is %s. Keep all temporal claims current as of this date.\n\n", now.Format("2006-01-02"))
	fmt.Fprintf(&b, "You are planning a content report for the keyword %q.\n\n", keyword)
	b.WriteString("## Competitive analysis\n")
	b.WriteString(analysisText)
	b.WriteString("\n\n## Grounding passages\n")
	b.WriteString("Base every factual claim on these passages. Tag each outline section's source_tag with \"corpus\" when grounded, \"analysis\" otherwise.\n")
	b.WriteString(groundingText)
	b.WriteString("\n\n## Hard constraints\n")
	b.WriteString("Never use any of these phrases or equivalent absolute claims: ")
	b.WriteString(strings.Join(forbiddenPhrases, "; "))
	b.WriteString(".\nThe compliance notes or disclaimer must state: ")
	b.WriteString(strings.Join(mandatoryDisclosures, "; "))
	b.WriteString(".\n\nRespond with a single JSON object, no surrounding prose, shaped as:\n")
	b.WriteString(`{"title": string, "outline": [{"heading": string, "description": string, "source_tag": string}], "compliance_notes": [string], "risk_warnings": [string], "disclaimer": string}`)
	return b.String()
}

func buildGapPrompt(now time.Time, keyword, analysisText, groundingText string) string {
	if strings.TrimSpace(groundingText) == "" {
		groundingText = NoGroundingMarker
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Today's date is %s.\n\n", now.Format("2006-01-02"))
	fmt.Fprintf(&b, "Compare what competitors publish about %q with what our corpus covers, and list the coverage gaps worth writing into.\n\n", keyword)
	b.WriteString("## Competitor coverage\n")
	b.WriteString(analysisText)
	b.WriteString("\n\n## Corpus coverage\n")
	b.WriteString(groundingText)
	b.WriteString("\n\nRespond with a single JSON object, no surrounding prose, shaped as:\n")
	b.WriteString(`{"gaps": [{"topic": string, "angle": string, "rationale": string}]}`)
	return b.String()
}

package domain

import "time"

// OutlineSection is one planned section of a generated report.
type OutlineSection struct {
	Heading     string `json:"heading"`
	Description string `json:"description"`
	SourceTag   string `json:"source_tag"`
}

// StructuredReport is the shape the generation layer must always produce,
// even when the raw model output was unparseable. IsFallback marks a report
// synthesized because no parse strategy succeeded.
type StructuredReport struct {
	Title           string           `json:"title"`
	Outline         []OutlineSection `json:"outline"`
	ComplianceNotes []string         `json:"compliance_notes"`
	RiskWarnings    []string         `json:"risk_warnings"`
	Disclaimer      string           `json:"disclaimer"`
	IsFallback      bool             `json:"is_fallback"`
}

// GapItem is one entry of a gap analysis: a topic competitors cover that the
// corpus does not, with the angle worth taking on it.
type GapItem struct {
	Topic     string `json:"topic"`
	Angle     string `json:"angle"`
	Rationale string `json:"rationale"`
}

// ArchivedReport wraps a generated report with its archive identity.
type ArchivedReport struct {
	ID        string           `json:"id"`
	Keyword   string           `json:"keyword"`
	Report    StructuredReport `json:"report"`
	CreatedAt time.Time        `json:"created_at"`
}

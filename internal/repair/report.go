package repair

import (
	"log"

	"github.com/clearsight-ai/reportforge/internal/domain"
)

const defaultDisclaimer = "This report was generated with machine assistance. Verify all claims against primary sources before publication."

// Report extracts a StructuredReport from raw model output. It never fails:
// when every strategy is exhausted it synthesizes a fallback report carrying
// the raw text, marked IsFallback.
func Report(raw, keyword string) domain.StructuredReport {
	obj, strategyName, ok := parseObject(raw)
	if !ok {
		log.Printf("report repair exhausted all strategies, returning fallback")
		return fallbackReport(raw, keyword)
	}
	if strategyName != "fenced-block" && strategyName != "brace-window" {
		log.Printf("report recovered via %s strategy", strategyName)
	}
	return coerceReport(obj)
}

// Gaps extracts gap-analysis items from raw model output. The terminal
// recovery scans the raw text for complete item literals, so leading
// well-formed entries survive a truncated tail. The result is never nil.
func Gaps(raw string) []domain.GapItem {
	if obj, _, ok := parseObject(raw); ok {
		if items := coerceGapItems(obj["gaps"]); len(items) > 0 {
			return items
		}
	}

	items := scanListItems(raw, func(g domain.GapItem) bool { return g.Topic != "" })
	if items == nil {
		items = []domain.GapItem{}
	}
	return items
}

// coerceReport maps a loosely-typed object onto the report shape. Absent or
// mis-shaped fields default instead of rejecting the whole parse.
func coerceReport(obj map[string]any) domain.StructuredReport {
	rep := domain.StructuredReport{
		Title:           asString(pick(obj, "title")),
		Outline:         coerceOutline(pick(obj, "outline")),
		ComplianceNotes: asStringSlice(pick(obj, "compliance_notes", "complianceNotes")),
		RiskWarnings:    asStringSlice(pick(obj, "risk_warnings", "riskWarnings")),
		Disclaimer:      asString(pick(obj, "disclaimer")),
	}
	if rep.Disclaimer == "" {
		rep.Disclaimer = defaultDisclaimer
	}
	return rep
}

func coerceOutline(v any) []domain.OutlineSection {
	items, ok := v.([]any)
	if !ok {
		return []domain.OutlineSection{}
	}
	outline := make([]domain.OutlineSection, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		outline = append(outline, domain.OutlineSection{
			Heading:     asString(pick(entry, "heading")),
			Description: asString(pick(entry, "description")),
			SourceTag:   asString(pick(entry, "source_tag", "sourceTag")),
		})
	}
	return outline
}

func coerceGapItems(v any) []domain.GapItem {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	gaps := make([]domain.GapItem, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		gap := domain.GapItem{
			Topic:     asString(pick(entry, "topic")),
			Angle:     asString(pick(entry, "angle")),
			Rationale: asString(pick(entry, "rationale")),
		}
		if gap.Topic != "" {
			gaps = append(gaps, gap)
		}
	}
	return gaps
}

// pick returns the first present key, tolerating alternate spellings the
// model tends to emit.
func pick(obj map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			return v
		}
	}
	return nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

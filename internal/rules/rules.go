// Package rules implements the response-rule engines: compatibility checking
// between a rule set and a response template, validation scoring of produced
// responses, and the generators for correction prompts and sample templates.
// Everything in this package is a pure function over its inputs.
package rules

import (
	"regexp"
	"strings"
)

// Known rule keys. Values other than these six are ignored by every checker.
const (
	KeyStepByStep              = "step_by_step"
	KeyUseBulletPoints         = "use_bullet_points"
	KeyIncludeConfidenceScores = "include_confidence_scores"
	KeyCiteIfPossible          = "cite_if_possible"
	KeySummarizeAtEnd          = "summarize_at_end"
	KeyRefuseIfUncertain       = "refuse_if_uncertain"
)

// Definition describes how one rule manifests in templates and responses.
// Detection lives here as data so adding a rule is additive; no checker
// branches on individual keys except the refuse_if_uncertain validation
// exemption.
type Definition struct {
	Key         string
	Label       string
	Placeholder string
	Patterns    []*regexp.Regexp
	// FixInstruction is the re-prompt sentence emitted when a response
	// fails this rule.
	FixInstruction string
	// TemplateBlock is the boilerplate appended by GenerateSampleTemplate.
	TemplateBlock string
	// Verifiable is false for rules that cannot be mechanically checked
	// against a response; they always pass validation.
	Verifiable bool
}

// Definitions lists the known rules in a fixed order. The order is also the
// sample template block order: steps, bullets, confidence, sources, summary,
// uncertainty note.
var Definitions = []Definition{
	{
		Key:         KeyStepByStep,
		Label:       "step-by-step structure",
		Placeholder: "{STEPS}",
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bstep \d+`),
		},
		FixInstruction: "Break the answer into numbered steps (Step 1, Step 2, ...).",
		TemplateBlock:  "**Steps**:\n{STEPS}\n\n",
		Verifiable:     true,
	},
	{
		Key:         KeyUseBulletPoints,
		Label:       "bullet points",
		Placeholder: "{BULLETS}",
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^\s*[-*\x{2022}]\s+`),
		},
		FixInstruction: "Format the key points as bullet points.",
		TemplateBlock:  "**Key Points**:\n{BULLETS}\n\n",
		Verifiable:     true,
	},
	{
		Key:         KeyIncludeConfidenceScores,
		Label:       "confidence scores",
		Placeholder: "{CONFIDENCE}",
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)confidence\s*[:=]?\s*\d+`),
		},
		FixInstruction: "State a confidence score between 0 and 100 for the answer.",
		TemplateBlock:  "**Confidence**:\n{CONFIDENCE}\n\n",
		Verifiable:     true,
	},
	{
		Key:         KeyCiteIfPossible,
		Label:       "source citations",
		Placeholder: "{SOURCES}",
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bsources?\s*:`),
			regexp.MustCompile(`\[\d+\]`),
		},
		FixInstruction: "Cite sources for factual claims under a \"Sources:\" heading.",
		TemplateBlock:  "**Sources**:\n{SOURCES}\n\n",
		Verifiable:     true,
	},
	{
		Key:         KeySummarizeAtEnd,
		Label:       "closing summary",
		Placeholder: "{SUMMARY}",
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bsummary\s*:`),
			regexp.MustCompile(`(?i)\bin summary\b`),
		},
		FixInstruction: "End the response with a short \"Summary:\" section.",
		TemplateBlock:  "**Summary**:\n{SUMMARY}\n\n",
		Verifiable:     true,
	},
	{
		Key:         KeyRefuseIfUncertain,
		Label:       "uncertainty note",
		Placeholder: "{UNCERTAINTY_NOTE}",
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)not (entirely )?certain`),
			regexp.MustCompile(`(?i)cannot verify`),
		},
		FixInstruction: "If you are not certain of the answer, say so explicitly instead of guessing.",
		TemplateBlock:  "**Note**:\n{UNCERTAINTY_NOTE}\n\n",
		Verifiable:     false,
	},
}

// definitionByKey returns the Definition for key, if known.
func definitionByKey(key string) (Definition, bool) {
	for _, def := range Definitions {
		if def.Key == key {
			return def, true
		}
	}
	return Definition{}, false
}

// templateHas reports whether the template carries this rule's placeholder
// token or matches one of its detection patterns.
func templateHas(template string, def Definition) bool {
	if strings.Contains(template, def.Placeholder) {
		return true
	}
	for _, p := range def.Patterns {
		if p.MatchString(template) {
			return true
		}
	}
	return false
}

// responseMatches reports whether a produced response satisfies this rule's
// detection patterns.
func responseMatches(response string, def Definition) bool {
	for _, p := range def.Patterns {
		if p.MatchString(response) {
			return true
		}
	}
	return false
}

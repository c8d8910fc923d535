package rules

import (
	"fmt"
	"strings"

	"agentflow/pkg/models"
)

// GenerateCorrectionPrompt renders a re-prompt instructing the LLM to fix a
// failing response. It lists every detected issue, adds the per-rule fix
// instruction for each failed rule, and quotes the template when one exists.
func GenerateCorrectionPrompt(result ValidationScore, template string) string {
	var b strings.Builder

	b.WriteString("Your previous response did not satisfy the required response rules. Issues found:\n")
	for i, issue := range result.Issues {
		fmt.Fprintf(&b, "%d. %s\n", i+1, issue.Message)
	}

	var instructions []string
	for _, issue := range result.Issues {
		if issue.RuleKey == "" {
			continue
		}
		if def, ok := definitionByKey(issue.RuleKey); ok {
			instructions = append(instructions, def.FixInstruction)
		}
	}
	if len(instructions) > 0 {
		b.WriteString("\nApply these fixes:\n")
		for _, instruction := range instructions {
			fmt.Fprintf(&b, "- %s\n", instruction)
		}
	}

	if template != "" {
		b.WriteString("\nFollow this response template:\n")
		b.WriteString(template)
		b.WriteString("\n")
	}

	b.WriteString("\nRewrite your response so that every issue above is addressed.")
	return b.String()
}

// GenerateSampleTemplate builds a template skeleton from the enabled rules
// by concatenating each rule's boilerplate block in the fixed Definitions
// order (steps, bullets, confidence, sources, summary, uncertainty note).
// Used by the UI's auto-fix action.
func GenerateSampleTemplate(ruleSet models.ResponseRules) string {
	var b strings.Builder
	for _, def := range Definitions {
		if ruleSet.Enabled(def.Key) {
			b.WriteString(def.TemplateBlock)
		}
	}
	return strings.TrimSpace(b.String())
}

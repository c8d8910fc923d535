package rules

import (
	"fmt"
	"math"

	"agentflow/pkg/models"
)

// Mismatch records one disagreement between a rule toggle and the template.
// A rule contributes at most one mismatch per check.
type Mismatch struct {
	RuleName               string `json:"rule_name"`
	RuleEnabled            bool   `json:"rule_enabled"`
	TemplateHasPlaceholder bool   `json:"template_has_placeholder"`
	Issue                  string `json:"issue"`
}

// CompatibilityCheck is the result of checking a rule set against a template.
type CompatibilityCheck struct {
	IsCompatible    bool       `json:"is_compatible"`
	Score           int        `json:"score"`
	Mismatches      []Mismatch `json:"mismatches"`
	Recommendations []string   `json:"recommendations"`
}

// Check compares the boolean rule toggles against the response template.
// An enabled rule expects its placeholder or pattern in a non-empty
// template; a disabled rule expects its absence. An empty template always
// counts as matched for enabled rules because auto-generation covers it.
// Keys that are absent or not boolean-typed are ignored entirely.
func Check(ruleSet models.ResponseRules, template string) CompatibilityCheck {
	check := CompatibilityCheck{
		Mismatches:      []Mismatch{},
		Recommendations: []string{},
	}

	total := 0
	matched := 0

	for _, def := range Definitions {
		if !ruleSet.HasBool(def.Key) {
			continue
		}
		total++

		enabled := ruleSet.Enabled(def.Key)
		has := templateHas(template, def)

		switch {
		case enabled && template != "" && !has:
			check.Mismatches = append(check.Mismatches, Mismatch{
				RuleName:               def.Key,
				RuleEnabled:            true,
				TemplateHasPlaceholder: false,
				Issue:                  fmt.Sprintf("Rule %q is enabled but the template has no %s placeholder", def.Key, def.Placeholder),
			})
			check.Recommendations = append(check.Recommendations,
				fmt.Sprintf("Add %s for %s", def.Placeholder, def.Label))
		case !enabled && has:
			check.Mismatches = append(check.Mismatches, Mismatch{
				RuleName:               def.Key,
				RuleEnabled:            false,
				TemplateHasPlaceholder: true,
				Issue:                  fmt.Sprintf("Rule %q is disabled but the template contains %s content", def.Key, def.Label),
			})
			check.Recommendations = append(check.Recommendations,
				fmt.Sprintf("Enable %s or remove %s", def.Label, def.Placeholder))
		default:
			matched++
		}
	}

	if total == 0 {
		check.Score = 100
	} else {
		check.Score = int(math.Round(float64(matched) / float64(total) * 100))
	}
	check.IsCompatible = len(check.Mismatches) == 0

	return check
}

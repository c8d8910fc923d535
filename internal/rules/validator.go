package rules

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"agentflow/pkg/models"
)

// Severity classifies a validation issue. The current rule set only
// produces warnings; error severity is reserved for future hard failures
// and makes Passed false regardless of score.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// IssueCategory names the scoring dimension an issue belongs to.
type IssueCategory string

const (
	CategoryStructure IssueCategory = "structure"
	CategoryRules     IssueCategory = "rules"
)

// ValidationIssue is one problem found in a response. RuleKey is set for
// rule-category issues and drives the correction prompt.
type ValidationIssue struct {
	Category IssueCategory `json:"category"`
	Severity Severity      `json:"severity"`
	Message  string        `json:"message"`
	RuleKey  string        `json:"rule_key,omitempty"`
}

// ValidationScore is the result of validating a response against its rules
// and template. All four scores are clamped to [0,100].
type ValidationScore struct {
	OverallScore   int               `json:"overall_score"`
	StructureScore int               `json:"structure_score"`
	RulesScore     int               `json:"rules_score"`
	QualityScore   int               `json:"quality_score"`
	Issues         []ValidationIssue `json:"issues"`
	Passed         bool              `json:"passed"`
}

const (
	structurePenalty = 15
	rulePenalty      = 15
	shortnessPenalty = 20
	minWordCount     = 20
	passThreshold    = 70
	structureWeight  = 0.3
	rulesWeight      = 0.4
	qualityWeight    = 0.3
)

// headingPattern matches **Section**: style headings in a template.
var headingPattern = regexp.MustCompile(`\*\*[^*]+\*\*\s*:`)

// Validate scores a produced response on three dimensions: structural
// conformance to the template's headings, detection of each enabled rule,
// and basic quality. refuse_if_uncertain cannot be mechanically verified
// and always passes.
func Validate(response string, ruleSet models.ResponseRules, template string) ValidationScore {
	score := ValidationScore{
		StructureScore: 100,
		RulesScore:     100,
		QualityScore:   100,
		Issues:         []ValidationIssue{},
	}

	if template != "" {
		lowerResponse := strings.ToLower(response)
		for _, heading := range headingPattern.FindAllString(template, -1) {
			name := strings.TrimSpace(strings.TrimSuffix(heading, ":"))
			if !strings.Contains(lowerResponse, strings.ToLower(name)) {
				score.StructureScore -= structurePenalty
				score.Issues = append(score.Issues, ValidationIssue{
					Category: CategoryStructure,
					Severity: SeverityWarning,
					Message:  fmt.Sprintf("Response is missing the %s section from the template", name),
				})
			}
		}
	}

	for _, def := range Definitions {
		if !def.Verifiable || !ruleSet.Enabled(def.Key) {
			continue
		}
		if !responseMatches(response, def) {
			score.RulesScore -= rulePenalty
			score.Issues = append(score.Issues, ValidationIssue{
				Category: CategoryRules,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("Response does not follow the %s rule", def.Label),
				RuleKey:  def.Key,
			})
		}
	}

	if len(strings.Fields(response)) < minWordCount {
		score.QualityScore -= shortnessPenalty
		score.Issues = append(score.Issues, ValidationIssue{
			Category: CategoryStructure,
			Severity: SeverityWarning,
			Message:  "Response is too short",
		})
	}

	score.StructureScore = clampScore(score.StructureScore)
	score.RulesScore = clampScore(score.RulesScore)
	score.QualityScore = clampScore(score.QualityScore)

	overall := float64(score.StructureScore)*structureWeight +
		float64(score.RulesScore)*rulesWeight +
		float64(score.QualityScore)*qualityWeight
	score.OverallScore = clampScore(int(math.Round(overall)))

	score.Passed = score.OverallScore >= passThreshold && !hasErrorIssue(score.Issues)

	return score
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func hasErrorIssue(issues []ValidationIssue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentflow/pkg/models"
)

func TestCheck_EnabledRuleMissingFromTemplate(t *testing.T) {
	rules := models.ResponseRules{KeyStepByStep: true}
	check := Check(rules, "Just answer directly.")

	assert.False(t, check.IsCompatible)
	assert.Equal(t, 0, check.Score)
	require.Len(t, check.Mismatches, 1)
	m := check.Mismatches[0]
	assert.Equal(t, KeyStepByStep, m.RuleName)
	assert.True(t, m.RuleEnabled)
	assert.False(t, m.TemplateHasPlaceholder)
	require.Len(t, check.Recommendations, 1)
	assert.Equal(t, "Add {STEPS} for step-by-step structure", check.Recommendations[0])
}

func TestCheck_EmptyTemplateAlwaysMatchesEnabled(t *testing.T) {
	rules := models.ResponseRules{
		KeyStepByStep:      true,
		KeyUseBulletPoints: true,
	}
	check := Check(rules, "")

	assert.True(t, check.IsCompatible)
	assert.Equal(t, 100, check.Score)
	assert.Empty(t, check.Mismatches)
}

func TestCheck_DisabledRulePresentInTemplate(t *testing.T) {
	rules := models.ResponseRules{KeySummarizeAtEnd: false}
	check := Check(rules, "Answer, then Summary: {SUMMARY}")

	assert.False(t, check.IsCompatible)
	require.Len(t, check.Mismatches, 1)
	m := check.Mismatches[0]
	assert.Equal(t, KeySummarizeAtEnd, m.RuleName)
	assert.False(t, m.RuleEnabled)
	assert.True(t, m.TemplateHasPlaceholder)
}

func TestCheck_PlaceholderAndPatternBothDetect(t *testing.T) {
	rules := models.ResponseRules{KeyCiteIfPossible: true}

	assert.True(t, Check(rules, "Cite here: {SOURCES}").IsCompatible)
	assert.True(t, Check(rules, "Sources:\n- example.com").IsCompatible)
	assert.True(t, Check(rules, "As shown in [1] and [2].").IsCompatible)
	assert.False(t, Check(rules, "No citations anywhere.").IsCompatible)
}

func TestCheck_NoBooleanRules(t *testing.T) {
	cases := []models.ResponseRules{
		nil,
		{},
		{models.CustomTemplateKey: "free text"},
		{KeyStepByStep: "yes", "unknown_rule": true},
	}
	for _, rules := range cases {
		check := Check(rules, "whatever")
		assert.True(t, check.IsCompatible)
		assert.Equal(t, 100, check.Score)
	}
}

func TestCheck_UnknownRuleIgnored(t *testing.T) {
	// "unknown_rule" is boolean but not a known key; only step_by_step counts.
	rules := models.ResponseRules{
		"unknown_rule": true,
		KeyStepByStep:  true,
	}
	check := Check(rules, "Step 1: do the thing")
	assert.True(t, check.IsCompatible)
	assert.Equal(t, 100, check.Score)
}

func TestCheck_PartialScore(t *testing.T) {
	rules := models.ResponseRules{
		KeyStepByStep:      true,
		KeyUseBulletPoints: true,
		KeySummarizeAtEnd:  true,
	}
	// Steps and bullets present, summary missing: 2 of 3 matched.
	check := Check(rules, "Step 1: read\n- a bullet\n")

	assert.False(t, check.IsCompatible)
	assert.Equal(t, 67, check.Score)
	require.Len(t, check.Mismatches, 1)
	assert.Equal(t, KeySummarizeAtEnd, check.Mismatches[0].RuleName)
}

func TestCheck_ScoreBoundsAndCompatibilityInvariant(t *testing.T) {
	templates := []string{"", "Step 1", "- bullet\nSummary: x", "{STEPS} {BULLETS} {CONFIDENCE} {SOURCES} {SUMMARY} {UNCERTAINTY_NOTE}"}
	ruleSets := []models.ResponseRules{
		{KeyStepByStep: true, KeyUseBulletPoints: false},
		{KeyStepByStep: false, KeySummarizeAtEnd: false, KeyRefuseIfUncertain: true},
		{KeyIncludeConfidenceScores: true, KeyCiteIfPossible: true},
	}
	for _, rules := range ruleSets {
		for _, template := range templates {
			check := Check(rules, template)
			assert.GreaterOrEqual(t, check.Score, 0)
			assert.LessOrEqual(t, check.Score, 100)
			assert.Equal(t, len(check.Mismatches) == 0, check.IsCompatible)
			if check.IsCompatible {
				assert.Equal(t, 100, check.Score)
			}
			assert.Len(t, check.Recommendations, len(check.Mismatches))
		}
	}
}

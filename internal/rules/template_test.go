package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentflow/pkg/models"
)

func TestGenerateSampleTemplate_BlockOrder(t *testing.T) {
	rules := models.ResponseRules{
		KeySummarizeAtEnd:    true,
		KeyStepByStep:        true,
		KeyRefuseIfUncertain: true,
	}
	template := GenerateSampleTemplate(rules)

	// Blocks come out in the fixed definition order regardless of map order.
	stepsIdx := strings.Index(template, "**Steps**:")
	summaryIdx := strings.Index(template, "**Summary**:")
	noteIdx := strings.Index(template, "**Note**:")
	require.NotEqual(t, -1, stepsIdx)
	require.NotEqual(t, -1, summaryIdx)
	require.NotEqual(t, -1, noteIdx)
	assert.Less(t, stepsIdx, summaryIdx)
	assert.Less(t, summaryIdx, noteIdx)

	assert.Contains(t, template, "{STEPS}")
	assert.Contains(t, template, "{SUMMARY}")
	assert.Contains(t, template, "{UNCERTAINTY_NOTE}")
	assert.NotContains(t, template, "{BULLETS}")

	// No dangling whitespace from block concatenation.
	assert.Equal(t, strings.TrimSpace(template), template)
}

func TestGenerateSampleTemplate_NoEnabledRules(t *testing.T) {
	assert.Equal(t, "", GenerateSampleTemplate(nil))
	assert.Equal(t, "", GenerateSampleTemplate(models.ResponseRules{KeyStepByStep: false}))
}

func TestGenerateSampleTemplate_CompatibleWithItsRules(t *testing.T) {
	rules := models.ResponseRules{
		KeyStepByStep:              true,
		KeyUseBulletPoints:         true,
		KeyIncludeConfidenceScores: true,
		KeyCiteIfPossible:          true,
		KeySummarizeAtEnd:          true,
		KeyRefuseIfUncertain:       true,
	}
	template := GenerateSampleTemplate(rules)
	check := Check(rules, template)
	assert.True(t, check.IsCompatible)
	assert.Equal(t, 100, check.Score)
}

func TestGenerateCorrectionPrompt(t *testing.T) {
	rules := models.ResponseRules{
		KeyStepByStep:              true,
		KeyUseBulletPoints:         true,
		KeyIncludeConfidenceScores: true,
		KeyCiteIfPossible:          true,
		KeySummarizeAtEnd:          true,
	}
	template := "**Steps**:\n{STEPS}\n"
	result := Validate("A short answer with nothing asked for.", rules, template)
	require.False(t, result.Passed)

	prompt := GenerateCorrectionPrompt(result, template)

	assert.Contains(t, prompt, "did not satisfy the required response rules")
	// Issues are listed numbered in order.
	assert.Contains(t, prompt, "1. ")
	for _, issue := range result.Issues {
		assert.Contains(t, prompt, issue.Message)
	}
	// Fix instructions only for the failed rules.
	assert.Contains(t, prompt, "Apply these fixes:")
	assert.Contains(t, prompt, "Break the answer into numbered steps")
	assert.Contains(t, prompt, "Cite sources for factual claims")
	assert.Contains(t, prompt, "Follow this response template:")
	assert.Contains(t, prompt, template)
	assert.Contains(t, prompt, "Rewrite your response")
}

func TestGenerateCorrectionPrompt_NoTemplateNoRuleIssues(t *testing.T) {
	result := Validate("Too short.", nil, "")
	prompt := GenerateCorrectionPrompt(result, "")

	assert.Contains(t, prompt, "Response is too short")
	assert.NotContains(t, prompt, "Apply these fixes:")
	assert.NotContains(t, prompt, "Follow this response template:")
}

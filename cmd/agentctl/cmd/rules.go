package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"agentflow/pkg/models"
)

var (
	rulesJSON    string
	templateFile string
	responseFile string
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Check and validate response rules",
}

var rulesCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a rule set against a response template",
	RunE: func(cmd *cobra.Command, args []string) error {
		ruleSet, err := parseRules()
		if err != nil {
			return err
		}
		template, err := readOptionalFile(templateFile)
		if err != nil {
			return err
		}

		var result map[string]any
		if err := postJSON("/api/v1/rules/check", map[string]any{
			"rules":    ruleSet,
			"template": template,
		}, &result); err != nil {
			return err
		}
		return printJSON(result)
	},
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Score a produced response against rules and template",
	RunE: func(cmd *cobra.Command, args []string) error {
		ruleSet, err := parseRules()
		if err != nil {
			return err
		}
		if responseFile == "" {
			return fmt.Errorf("--response-file is required")
		}
		response, err := os.ReadFile(responseFile)
		if err != nil {
			return fmt.Errorf("failed to read response file: %w", err)
		}
		template, err := readOptionalFile(templateFile)
		if err != nil {
			return err
		}

		var result map[string]any
		if err := postJSON("/api/v1/rules/validate", map[string]any{
			"response": string(response),
			"rules":    ruleSet,
			"template": template,
		}, &result); err != nil {
			return err
		}
		return printJSON(result)
	},
}

var rulesTemplateCmd = &cobra.Command{
	Use:   "sample-template",
	Short: "Generate a template skeleton from enabled rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		ruleSet, err := parseRules()
		if err != nil {
			return err
		}

		var result map[string]string
		if err := postJSON("/api/v1/rules/sample-template", map[string]any{
			"rules": ruleSet,
		}, &result); err != nil {
			return err
		}
		fmt.Println(result["template"])
		return nil
	},
}

func parseRules() (models.ResponseRules, error) {
	if rulesJSON == "" {
		return models.ResponseRules{}, nil
	}
	var ruleSet models.ResponseRules
	if err := json.Unmarshal([]byte(rulesJSON), &ruleSet); err != nil {
		return nil, fmt.Errorf("invalid --rules JSON: %w", err)
	}
	return ruleSet, nil
}

func readOptionalFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func init() {
	rulesCmd.PersistentFlags().StringVar(&rulesJSON, "rules", "", `Response rules as JSON, e.g. '{"step_by_step":true}'`)
	rulesCmd.PersistentFlags().StringVar(&templateFile, "template-file", "", "Path to a response template file")
	rulesValidateCmd.Flags().StringVar(&responseFile, "response-file", "", "Path to the response text to validate")

	rulesCmd.AddCommand(rulesCheckCmd)
	rulesCmd.AddCommand(rulesValidateCmd)
	rulesCmd.AddCommand(rulesTemplateCmd)
	rootCmd.AddCommand(rulesCmd)
}

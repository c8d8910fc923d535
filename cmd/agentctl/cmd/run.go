package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"agentflow/pkg/models"
)

var runPrompt string

var runCmd = &cobra.Command{
	Use:   "run <workflow-id>",
	Short: "Trigger a workflow run and print its result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{
			"trigger_type": models.TriggerTypeManual,
		}
		if runPrompt != "" {
			body["input_data"] = map[string]any{"prompt": runPrompt}
		}

		var result models.RunResult
		if err := postJSON("/api/v1/workflows/"+args[0]+"/run", body, &result); err != nil {
			return err
		}

		fmt.Printf("Run %s finished with status %s\n\n", result.RunID, result.Status)
		for _, entry := range result.ExecutionLogs {
			line := fmt.Sprintf("[%s] %s", entry.Type, entry.Message)
			if entry.Agent != "" {
				line = fmt.Sprintf("[%s] %s: %s", entry.Type, entry.Agent, entry.Message)
			}
			fmt.Println(line)
			if entry.Preview != "" {
				fmt.Println("    " + entry.Preview)
			}
		}
		if len(result.OutputData) > 0 {
			fmt.Println()
			return printJSON(result.OutputData)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runPrompt, "prompt", "", "Prompt passed to every agent in the workflow")
	rootCmd.AddCommand(runCmd)
}

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zipari/business-rules/rules"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the operator tables as JSON",
	Long:  `Prints the operators available for each variable type, in the shape rule-building UIs consume.`,
	RunE:  runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, args []string) error {
	data := rules.ExportRuleData(nil, nil)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}
	return nil
}

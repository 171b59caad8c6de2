package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zipari/business-rules/internal/core/db"
)

var evaluationsCmd = &cobra.Command{
	Use:   "evaluations",
	Short: "List recent evaluation audit records",
	RunE:  runEvaluations,
}

func init() {
	rootCmd.AddCommand(evaluationsCmd)
	evaluationsCmd.Flags().Int("limit", 20, "maximum records to list")
}

func runEvaluations(cmd *cobra.Command, args []string) error {
	if dbURL == "" {
		return fmt.Errorf("--db-url required")
	}
	limit, _ := cmd.Flags().GetInt("limit")

	database, err := db.Open(dbURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	queries, err := db.LoadQueries(database)
	if err != nil {
		return fmt.Errorf("failed to load queries: %w", err)
	}

	var total int
	if err := queries.Get("count-evaluations", &total); err != nil {
		return fmt.Errorf("failed to count evaluations: %w", err)
	}

	var records []struct {
		EvaluationID   string `db:"evaluation_id"`
		CreatedAt      string `db:"created_at"`
		RuleCount      int    `db:"rule_count"`
		TriggeredCount int    `db:"triggered_count"`
		ActionsFired   int    `db:"actions_fired"`
		StopOnFirst    bool   `db:"stop_on_first"`
	}
	if err := queries.Select("recent-evaluations", &records, limit); err != nil {
		return fmt.Errorf("failed to list evaluations: %w", err)
	}

	fmt.Printf("%d evaluations recorded, showing %d\n", total, len(records))
	for _, r := range records {
		fmt.Printf("%s  %s  rules=%d triggered=%d actions=%d stop_on_first=%t\n",
			r.EvaluationID, r.CreatedAt, r.RuleCount, r.TriggeredCount, r.ActionsFired, r.StopOnFirst)
	}
	return nil
}

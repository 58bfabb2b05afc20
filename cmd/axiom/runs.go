package main

import (
	"fmt"

	"github.com/metalagman/axiom/internal/db"
	"github.com/spf13/cobra"
)

func runsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:          "runs",
		Short:        "List recent evaluation runs",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			storeDB, closeFn, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			store := db.NewStore(storeDB)
			runs, err := store.ListRecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				cmd.Println("No runs recorded yet.")
				return nil
			}

			header := fmt.Sprintf("  %-14s %-20s %-12s %-15s %-20s %s", "RUN", "TASK", "VERDICT", "FAILED_GATE", "TOP_FIX", "CREATED")
			cmd.Println(headerStyle.Render(header))
			for _, run := range runs {
				gate := run.FailedGate
				if gate == "" {
					gate = "-"
				}
				topFix := run.TopFix
				if topFix == "" {
					topFix = "-"
				}
				cmd.Printf("  %-14s %-20s %s %-15s %-20s %s\n",
					run.RunID, run.TaskID, padVerdict(run.Verdict, 12), gate, topFix, subtleStyle.Render(run.CreatedAt))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of runs to list")
	return cmd
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/metalagman/axiom/internal/db"
	"github.com/metalagman/axiom/internal/gates"
	"github.com/metalagman/axiom/internal/model"
	"github.com/metalagman/axiom/internal/spec"
	"github.com/spf13/cobra"
)

func runCmd() *cobra.Command {
	var out string
	var noStore bool
	cmd := &cobra.Command{
		Use:          "run <task-yaml>",
		Short:        "Run the feasibility gates on a task spec and emit an evidence record",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			taskSpec, err := spec.Load(args[0])
			if err != nil {
				return err
			}

			record := gates.Evaluate(taskSpec)
			path, err := writeEvidence(record, out)
			if err != nil {
				return err
			}

			if !noStore {
				if err := storeRun(cmd, record); err != nil {
					return err
				}
			}

			if record.Verdict == model.VerdictCan {
				cmd.Println("CAN: all gates passed")
			} else {
				cmd.Printf("HARD_CANT: %s - %s\n", firstReason(record), topFixInstruction(record))
			}
			cmd.Printf("Evidence: %s\n", path)

			if record.Verdict != model.VerdictCan {
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "out", "output directory for evidence records")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "skip persisting the run to the local database")
	return cmd
}

func storeRun(cmd *cobra.Command, record model.EvidenceRecord) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	storeDB, closeFn, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	evidenceJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode evidence: %w", err)
	}
	topFix := ""
	if len(record.CounterfactualFixes) > 0 {
		topFix = string(record.CounterfactualFixes[0].Type)
	}
	store := db.NewStore(storeDB)
	return store.InsertRun(cmd.Context(), db.RunRecord{
		RunID:        spec.NewID(),
		TaskID:       record.TaskID,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		Verdict:      string(record.Verdict),
		FailedGate:   record.FailedGate,
		TopFix:       topFix,
		EvidenceJSON: string(evidenceJSON),
	})
}

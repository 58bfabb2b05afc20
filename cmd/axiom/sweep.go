package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/metalagman/axiom/internal/config"
	"github.com/metalagman/axiom/internal/db"
	"github.com/metalagman/axiom/internal/spec"
	"github.com/metalagman/axiom/internal/sweep"
	"github.com/spf13/cobra"
)

func sweepCmd() *cobra.Command {
	var (
		n         int
		seed      int64
		massFlag  string
		xFlag     string
		yFlag     string
		zFlag     string
		jsonOut   string
		noStore   bool
	)
	cmd := &cobra.Command{
		Use:          "sweep <task-yaml>",
		Short:        "Sweep a task's parameter space and summarize feasibility",
		Long:         "Generate deterministic variants of the base task within the given ranges, run each through the gate pipeline, and print the aggregate summary. Ranges are min:max pairs.",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := spec.Load(args[0])
			if err != nil {
				return err
			}

			variation, err := buildVariation(massFlag, xFlag, yFlag, zFlag)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("n") {
				n = cfg.Sweep.N
			}
			if !cmd.Flags().Changed("seed") {
				seed = cfg.Sweep.Seed
			}

			req := sweep.Request{Base: base, Variation: variation, N: n, Seed: seed}
			variants, _, summary, err := sweep.Sweep(req)
			if err != nil {
				return err
			}

			printSummary(cmd, summary, len(variants), seed)

			if jsonOut != "" {
				data, err := json.MarshalIndent(summary, "", "  ")
				if err != nil {
					return fmt.Errorf("encode summary: %w", err)
				}
				if err := os.WriteFile(jsonOut, append(data, '\n'), 0o644); err != nil {
					return fmt.Errorf("write summary: %w", err)
				}
				cmd.Printf("Summary written to %s\n", jsonOut)
			}

			if noStore {
				return nil
			}
			return storeSweep(cmd, cfg, base.TaskID, n, seed, summary)
		},
	}
	cmd.Flags().IntVar(&n, "n", 50, "number of variants to generate")
	cmd.Flags().Int64Var(&seed, "seed", 1337, "random seed for variant generation")
	cmd.Flags().StringVar(&massFlag, "mass", "", "substrate mass range, min:max kg")
	cmd.Flags().StringVar(&xFlag, "target-x", "", "target x range, min:max m")
	cmd.Flags().StringVar(&yFlag, "target-y", "", "target y range, min:max m")
	cmd.Flags().StringVar(&zFlag, "target-z", "", "target z range, min:max m")
	cmd.Flags().StringVar(&jsonOut, "json", "", "also write the summary as JSON to this path")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "skip persisting the sweep to the local database")
	return cmd
}

// parseRange parses a "min:max" flag value.
func parseRange(raw string) (*sweep.Range, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("range %q must be min:max", raw)
	}
	minV, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("range %q: bad min: %w", raw, err)
	}
	maxV, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("range %q: bad max: %w", raw, err)
	}
	if maxV < minV {
		return nil, fmt.Errorf("range %q: max is below min", raw)
	}
	return &sweep.Range{Min: minV, Max: maxV}, nil
}

func buildVariation(massFlag, xFlag, yFlag, zFlag string) (sweep.Variation, error) {
	var v sweep.Variation
	var err error
	if v.MassKg, err = parseRange(massFlag); err != nil {
		return v, err
	}
	x, err := parseRange(xFlag)
	if err != nil {
		return v, err
	}
	y, err := parseRange(yFlag)
	if err != nil {
		return v, err
	}
	z, err := parseRange(zFlag)
	if err != nil {
		return v, err
	}
	if x != nil || y != nil || z != nil {
		v.TargetXYZ = &sweep.AxisRanges{X: x, Y: y, Z: z}
	}
	return v, nil
}

func printSummary(cmd *cobra.Command, summary sweep.Summary, n int, seed int64) {
	cmd.Printf("Sweep of %d variants (seed %d)\n\n", n, seed)
	cmd.Println(renderSummaryTable(summary))
}

func storeSweep(cmd *cobra.Command, cfg config.Config, taskID string, n int, seed int64, summary sweep.Summary) error {
	storeDB, closeFn, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	store := db.NewStore(storeDB)
	return store.InsertSweep(cmd.Context(), db.SweepRecord{
		SweepID:     spec.NewID(),
		TaskID:      taskID,
		N:           n,
		Seed:        seed,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		SummaryJSON: string(summaryJSON),
	})
}

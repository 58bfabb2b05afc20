package main

import (
	"fmt"
	"strings"

	"github.com/metalagman/axiom/internal/gates"
	"github.com/metalagman/axiom/internal/spec"
	"github.com/spf13/cobra"
)

// demoFiles is the fixed order the demo table is printed in.
var demoFiles = []string{
	"pick_place_can.yaml",
	"pick_place_cant_reach.yaml",
	"pick_place_cant_payload.yaml",
	"pick_place_cant_keepout.yaml",
}

func demoCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:          "demo",
		Short:        "Run the bundled example specs and print a summary table",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			header := fmt.Sprintf("  %-32s %-12s %-15s %s", "FILE", "VERDICT", "FAILED_GATE", "TOP_FIX")
			cmd.Println(headerStyle.Render(header))
			cmd.Println(subtleStyle.Render("  " + strings.Repeat("-", 75)))

			for _, name := range demoFiles {
				data, err := spec.Example(name)
				if err != nil {
					return err
				}
				taskSpec, err := spec.Parse(data)
				if err != nil {
					return fmt.Errorf("example %s: %w", name, err)
				}
				record := gates.Evaluate(taskSpec)
				if _, err := writeEvidence(record, out); err != nil {
					return err
				}

				gate := record.FailedGate
				if gate == "" {
					gate = "-"
				}
				topFix := "-"
				if len(record.CounterfactualFixes) > 0 {
					topFix = string(record.CounterfactualFixes[0].Type)
				}
				cmd.Printf("  %-32s %s %-15s %s\n", name, padVerdict(string(record.Verdict), 12), gate, topFix)
			}

			cmd.Printf("\nEvidence written to: %s/\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "out", "output directory for evidence records")
	return cmd
}

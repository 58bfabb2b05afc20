package main

import (
	"errors"
	"fmt"

	"github.com/metalagman/axiom/internal/spec"
	"github.com/spf13/cobra"
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "validate <task-yaml>",
		Short:        "Validate a task spec against the schema without running gates",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := spec.Load(args[0])
			if err == nil {
				cmd.Println("OK")
				return nil
			}
			var verr *spec.ValidationError
			if errors.As(err, &verr) {
				cmd.Println("Validation errors:")
				for _, msg := range verr.Errors {
					cmd.Printf("  - %s\n", msg)
				}
				return fmt.Errorf("%d validation error(s)", len(verr.Errors))
			}
			return err
		},
	}
	return cmd
}

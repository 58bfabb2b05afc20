package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/metalagman/axiom/internal/ai"
	"github.com/metalagman/axiom/internal/model"
	"github.com/spf13/cobra"
)

func aiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ai",
		Short: "AI helpers for drafting specs and explaining evidence",
	}
	cmd.AddCommand(aiGenerateCmd())
	cmd.AddCommand(aiExplainCmd())
	return cmd
}

func newAIClient(cmd *cobra.Command) (*ai.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	client, err := ai.New(cmd.Context(), cfg.AI.Model)
	if err != nil {
		return nil, fmt.Errorf("ai unavailable: %w", err)
	}
	return client, nil
}

func aiGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "generate <prompt>",
		Short:        "Draft a task spec YAML from a natural language prompt",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAIClient(cmd)
			if err != nil {
				return err
			}
			yamlText, err := client.GenerateTaskSpec(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			cmd.Println(yamlText)
			return nil
		},
	}
}

func aiExplainCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "explain <evidence-json>",
		Short:        "Explain an evidence record in plain language",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read evidence file: %w", err)
			}
			var record model.EvidenceRecord
			if err := json.Unmarshal(data, &record); err != nil {
				return fmt.Errorf("parse evidence file: %w", err)
			}

			client, err := newAIClient(cmd)
			if err != nil {
				return err
			}
			explanation, err := client.ExplainEvidence(cmd.Context(), record)
			if err != nil {
				return err
			}
			cmd.Println(explanation)
			return nil
		},
	}
}

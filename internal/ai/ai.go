// Package ai wraps the Gemini API for task spec generation and evidence
// explanation. The gate pipeline never depends on this package; it exists
// for the CLI and the HTTP surface only.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/metalagman/axiom/internal/model"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// Available reports whether the Gemini API key is configured.
func Available() bool {
	return os.Getenv("GOOGLE_API_KEY") != ""
}

// Client is a thin Gemini wrapper.
type Client struct {
	client *genai.Client
	model  string
}

// New creates a client for the given model name, falling back to
// DefaultModel when empty. The API key is read from the environment.
func New(ctx context.Context, modelName string) (*Client, error) {
	if !Available() {
		return nil, errors.New("GOOGLE_API_KEY is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	return &Client{client: client, model: modelName}, nil
}

const generateSystemPrompt = `You write TaskSpec YAML documents for a robotic pick-and-place feasibility linter.
Output ONLY YAML, no prose and no markdown fences. The document has these fields:
task_id (string), meta.template (string), substrate {id, mass_kg > 0, initial_pose.xyz [x,y,z]},
transformation {target_pose.xyz [x,y,z], tolerance_m > 0},
constructor {id, base_pose.xyz [x,y,z], max_reach_m > 0, max_payload_kg > 0},
allowed_adjustments {can_move_target, can_move_base, can_change_constructor, can_split_payload} (booleans),
environment {safety_buffer >= 0, keepout_zones: [{id, min_xyz, max_xyz}]}.
Choose physically plausible values matching the user's request.`

// GenerateTaskSpec asks the model to draft a TaskSpec YAML for a natural
// language request. The result still goes through schema validation
// before any gate runs.
func (c *Client) GenerateTaskSpec(ctx context.Context, prompt string) (string, error) {
	full := generateSystemPrompt + "\n\nRequest: " + prompt
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(full), nil)
	if err != nil {
		return "", fmt.Errorf("generate task spec: %w", err)
	}
	return stripFences(resp.Text()), nil
}

const explainSystemPrompt = `You explain robotic task feasibility evidence to an operator.
Given an evidence record (JSON), state in at most four short sentences whether the task is
feasible, which gate failed and why, and what the proposed fixes would change. Plain text only.`

// ExplainEvidence asks the model for a short plain-language explanation of
// an evidence record.
func (c *Client) ExplainEvidence(ctx context.Context, record model.EvidenceRecord) (string, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encode evidence: %w", err)
	}
	full := explainSystemPrompt + "\n\nEvidence:\n" + string(data)
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(full), nil)
	if err != nil {
		return "", fmt.Errorf("explain evidence: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

// stripFences removes a leading/trailing markdown code fence if the model
// added one anyway.
func stripFences(text string) string {
	out := strings.TrimSpace(text)
	if !strings.HasPrefix(out, "```") {
		return out
	}
	out = strings.TrimPrefix(out, "```yaml")
	out = strings.TrimPrefix(out, "```yml")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(strings.TrimSpace(out), "```")
	return strings.TrimSpace(out)
}

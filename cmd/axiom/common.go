package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/metalagman/axiom/internal/config"
	"github.com/metalagman/axiom/internal/db"
	"github.com/metalagman/axiom/internal/model"
	"github.com/spf13/viper"
)

// loadConfig returns the effective configuration: built-in defaults
// overlaid with the config file when one exists.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	path := viper.GetString("config")
	if path == "" {
		path = filepath.Join(".axiom", "config.json")
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return config.Config{}, fmt.Errorf("read config: %w", err)
	}

	var settings map[string]any
	if err := json.Unmarshal(raw, &settings); err != nil {
		return config.Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := config.ValidateSettings(settings); err != nil {
		return config.Config{}, err
	}

	viper.SetConfigFile(path)
	viper.SetConfigType("json")
	if err := viper.ReadInConfig(); err != nil {
		return config.Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := viper.Unmarshal(&cfg); err != nil {
		return config.Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// openDB opens the run database under the configured data directory.
func openDB(cfg config.Config) (*sql.DB, func(), error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, func() {}, fmt.Errorf("create data dir: %w", err)
	}
	storeDB, err := db.Open(filepath.Join(cfg.DataDir, "axiom.db"))
	if err != nil {
		return nil, func() {}, err
	}
	return storeDB, func() { _ = storeDB.Close() }, nil
}

// writeEvidence serialises the record to <out>/<task_id>/evidence.json.
func writeEvidence(record model.EvidenceRecord, outDir string) (string, error) {
	dest := filepath.Join(outDir, record.TaskID)
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return "", fmt.Errorf("create evidence dir: %w", err)
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode evidence: %w", err)
	}
	path := filepath.Join(dest, "evidence.json")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write evidence: %w", err)
	}
	return path, nil
}

// topFixInstruction returns the first proposed fix's instruction, if any.
func topFixInstruction(record model.EvidenceRecord) string {
	if len(record.CounterfactualFixes) == 0 {
		return "no fix available"
	}
	return record.CounterfactualFixes[0].Instruction
}

// firstReason returns the failing reason code, if any.
func firstReason(record model.EvidenceRecord) string {
	for _, check := range record.Checks {
		if check.ReasonCode != "" {
			return check.ReasonCode
		}
	}
	return "unknown"
}

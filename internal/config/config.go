// Package config provides configuration loading and management for axiom.
package config

// Config is the root configuration.
type Config struct {
	DataDir string       `json:"data_dir" mapstructure:"data_dir"`
	Server  ServerConfig `json:"server"   mapstructure:"server"`
	Sweep   SweepConfig  `json:"sweep"    mapstructure:"sweep"`
	AI      AIConfig     `json:"ai"       mapstructure:"ai"`
}

// ServerConfig describes the HTTP server.
type ServerConfig struct {
	Listen string `json:"listen" mapstructure:"listen"`
}

// SweepConfig holds sweep defaults used when a request omits them.
type SweepConfig struct {
	N    int   `json:"n"    mapstructure:"n"`
	Seed int64 `json:"seed" mapstructure:"seed"`
}

// AIConfig selects the model used by the AI helper endpoints.
type AIConfig struct {
	Model string `json:"model,omitempty" mapstructure:"model"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataDir: ".axiom",
		Server:  ServerConfig{Listen: ":8080"},
		Sweep:   SweepConfig{N: 50, Seed: 1337},
		AI:      AIConfig{Model: "gemini-2.0-flash"},
	}
}

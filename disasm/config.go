package disasm

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the output options of a disassembly.
type Config struct {
	// ShowRawWords echoes the three raw words of every slot before
	// its decoded form. Default: off.
	ShowRawWords bool `json:"show_raw_words"`

	// ShowUnknownBits echoes each word with already-identified bits
	// masked off, to aid discovery of undocumented fields.
	// Default: off.
	ShowUnknownBits bool `json:"show_unknown_bits"`
}

// DefaultConfig returns a Config with both diagnostic echoes disabled.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads a Config from a JSON file. Missing keys keep their
// default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read output config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse output config: %w", err)
	}

	return config, nil
}

// Save writes the Config to a JSON file.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize output config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output config file: %w", err)
	}

	return nil
}

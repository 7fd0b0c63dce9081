// Package config holds the simulator's geometry configuration: the memory
// pool size and the two-level cache dimensions.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sarchlab/memsim/alloc"
)

// SimConfig describes the pool and cache geometry a session starts with.
type SimConfig struct {
	// PoolCapacity is the memory pool size in bytes.
	PoolCapacity uint64 `json:"pool_capacity"`

	// DefaultStrategy is the placement strategy name
	// (first_fit, best_fit, worst_fit).
	DefaultStrategy string `json:"default_strategy"`

	// L1Size is the L1 cache capacity in bytes.
	L1Size uint64 `json:"l1_size"`

	// L1BlockSize is the L1 line size in bytes.
	L1BlockSize uint64 `json:"l1_block_size"`

	// L2Size is the L2 cache capacity in bytes.
	L2Size uint64 `json:"l2_size"`

	// L2BlockSize is the L2 line size in bytes.
	L2BlockSize uint64 `json:"l2_block_size"`
}

// DefaultSimConfig returns the classroom geometry: a 4KB pool, a 1KB L1
// with 32-byte lines, and a 4KB L2 with 64-byte lines.
func DefaultSimConfig() *SimConfig {
	return &SimConfig{
		PoolCapacity:    4096,
		DefaultStrategy: "first_fit",
		L1Size:          1024,
		L1BlockSize:     32,
		L2Size:          4096,
		L2BlockSize:     64,
	}
}

// LoadConfig loads a SimConfig from a JSON file. Missing fields keep their
// default values.
func LoadConfig(path string) (*SimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sim config file: %w", err)
	}

	config := DefaultSimConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse sim config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a SimConfig to a JSON file.
func (c *SimConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize sim config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write sim config file: %w", err)
	}

	return nil
}

// Strategy resolves the configured strategy name.
func (c *SimConfig) Strategy() (alloc.Strategy, error) {
	return alloc.ParseStrategy(c.DefaultStrategy)
}

// Validate checks that the geometry can actually be constructed.
func (c *SimConfig) Validate() error {
	if c.PoolCapacity == 0 {
		return fmt.Errorf("pool_capacity must be > 0")
	}
	if _, err := c.Strategy(); err != nil {
		return fmt.Errorf("default_strategy: %w", err)
	}
	if c.L1BlockSize == 0 || c.L2BlockSize == 0 {
		return fmt.Errorf("cache block sizes must be > 0")
	}
	if c.L1Size/c.L1BlockSize == 0 {
		return fmt.Errorf("l1_size must hold at least one block")
	}
	if c.L2Size/c.L2BlockSize == 0 {
		return fmt.Errorf("l2_size must hold at least one block")
	}
	return nil
}

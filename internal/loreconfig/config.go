// Package loreconfig loads lore.toml, the process-wide declarative
// config file living at the data root (spec.md §6), following the
// teacher's pattern of small typed structs decoded with
// github.com/BurntSushi/toml (internal/formula/parser.go).
package loreconfig

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the decoded shape of lore.toml.
type Config struct {
	Embedding Embedding `toml:"embedding"`
	Dedup     Dedup     `toml:"dedup"`
	Retrieval Retrieval `toml:"retrieval"`
	Project   string    `toml:"default_project"`
}

// Embedding configures the remote embedding provider (spec.md §4.8/§5).
type Embedding struct {
	Endpoint   string `toml:"endpoint"`
	APIKey     string `toml:"api_key"`
	Dimensions int    `toml:"dimensions"`
	BudgetMS   int    `toml:"budget_ms"`
}

// Dedup holds dedup/contradiction guard thresholds (spec.md §3/§4.10).
// These values are decoded but not read by internal/dedup, which applies
// its own DuplicateThreshold and ContradictionThreshold constants.
type Dedup struct {
	DuplicateThreshold    float64 `toml:"duplicate_threshold"`
	ContradictionThreshold float64 `toml:"contradiction_threshold"`
	MinSharedEntities     int     `toml:"min_shared_entities"`
}

// Retrieval holds composite lexical ranking weights (spec.md §4.8).
// These values are decoded but not read by the ranking code, which uses
// its built-in project boost and decay constants.
type Retrieval struct {
	TemporalHalfLifeDays float64 `toml:"temporal_half_life_days"`
	ProjectBoost         float64 `toml:"project_boost"`
	HybridK              int     `toml:"hybrid_rrf_k"`
}

// Default returns the built-in defaults used when lore.toml is absent.
func Default() Config {
	return Config{
		Embedding: Embedding{Dimensions: 1536, BudgetMS: 20000},
		Dedup:     Dedup{DuplicateThreshold: 0.70, ContradictionThreshold: 0.30, MinSharedEntities: 2},
		Retrieval: Retrieval{TemporalHalfLifeDays: 30, ProjectBoost: 1.5, HybridK: 60},
	}
}

// Load decodes path into a Config layered over Default(); a missing file
// is not an error; it simply returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

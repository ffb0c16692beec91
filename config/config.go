// Package config loads the scenario recipe a simulation run is wired
// from: chain length, per-slot transaction volume, MEV fraction, max
// block size, and the counts and parameters of each node kind.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrNoBuilders and ErrNoProposers are the configuration errors
// spec.md §7 calls out by name: a scenario with zero builders or zero
// proposers is fatal at startup, not an invariant violation discovered
// mid-run.
var (
	ErrNoBuilders    = errors.New("config: scenario has zero builders")
	ErrNoProposers   = errors.New("config: scenario has zero proposers")
	ErrMissingEntropy = errors.New("config: random number file path is required")
)

// NodeGroup describes one homogeneous batch of nodes to create: a count,
// shared connection target and characteristic, and — for builder
// capable kinds — a lookahead depth and Monte-Carlo simulation count.
type NodeGroup struct {
	Count          int     `yaml:"count"`
	Connections    int     `yaml:"connections"`
	Characteristic float64 `yaml:"characteristic"`
	Depth          int     `yaml:"depth"`
	NumSimulations int     `yaml:"num_simulations"`
}

// Recipe is the full scenario configuration: node counts, chain
// parameters, and the random-number stream to draw from.
type Recipe struct {
	ChainLength         int     `yaml:"chain_length"`
	TransactionsPerSlot int     `yaml:"transactions_per_slot"`
	MEVFraction         float64 `yaml:"mev_fraction"`
	MaxBlockSize        int     `yaml:"max_block_size"`
	AdaptiveInjection   bool    `yaml:"adaptive_injection"`
	Seed                int64   `yaml:"seed"`
	RandomNumberFile    string  `yaml:"random_number_file"`

	Builders                  NodeGroup `yaml:"builders"`
	AttackerBuilders          NodeGroup `yaml:"attacker_builders"`
	Proposers                 NodeGroup `yaml:"proposers"`
	ProposerBuilders          NodeGroup `yaml:"proposer_builders"`
	ProposerAttackerBuilders  NodeGroup `yaml:"proposer_attacker_builders"`
	PlainNodes                NodeGroup `yaml:"plain_nodes"`
}

// Default returns a recipe matching the scenario observed in the
// original's main.cpp: one plain builder population, one proposer, no
// attackers.
func Default() *Recipe {
	return &Recipe{
		ChainLength:         2000,
		TransactionsPerSlot: 100,
		MEVFraction:         0.5,
		MaxBlockSize:        10,
		Seed:                1,
		Builders: NodeGroup{
			Count:          5,
			Connections:    5,
			Characteristic: 1.0,
			Depth:          0,
			NumSimulations: 100,
		},
		Proposers: NodeGroup{
			Count:          1,
			Connections:    5,
			Characteristic: 1.0,
		},
	}
}

// Load reads a YAML recipe file, applying defaults for any field left
// unset, then validates it.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %q: %w", path, err)
	}
	r := Default()
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("config: parsing %q: %w", path, err)
	}
	if err := Validate(r); err != nil {
		return nil, err
	}
	return r, nil
}

// LoadFromFlags overlays a bound viper instance's flag values onto the
// default recipe, for the no-config-file CLI invocation path.
func LoadFromFlags(v *viper.Viper) (*Recipe, error) {
	r := Default()
	if v.IsSet("chain-length") {
		r.ChainLength = v.GetInt("chain-length")
	}
	if v.IsSet("transactions-per-slot") {
		r.TransactionsPerSlot = v.GetInt("transactions-per-slot")
	}
	if v.IsSet("mev-fraction") {
		r.MEVFraction = v.GetFloat64("mev-fraction")
	}
	if v.IsSet("max-block-size") {
		r.MaxBlockSize = v.GetInt("max-block-size")
	}
	if v.IsSet("seed") {
		r.Seed = v.GetInt64("seed")
	}
	if v.IsSet("random-number-file") {
		r.RandomNumberFile = v.GetString("random-number-file")
	}
	if v.IsSet("num-builders") {
		r.Builders.Count = v.GetInt("num-builders")
	}
	if v.IsSet("num-proposers") {
		r.Proposers.Count = v.GetInt("num-proposers")
	}
	if v.IsSet("num-attacker-builders") {
		r.AttackerBuilders.Count = v.GetInt("num-attacker-builders")
	}
	if err := Validate(r); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks the configuration errors spec.md §7 calls fatal:
// a scenario needs at least one builder-capable node and at least one
// proposer-capable node to ever produce a block.
func Validate(r *Recipe) error {
	builders := r.Builders.Count + r.AttackerBuilders.Count + r.ProposerBuilders.Count + r.ProposerAttackerBuilders.Count
	proposers := r.Proposers.Count + r.ProposerBuilders.Count + r.ProposerAttackerBuilders.Count
	if builders == 0 {
		return ErrNoBuilders
	}
	if proposers == 0 {
		return ErrNoProposers
	}
	if r.RandomNumberFile == "" {
		return ErrMissingEntropy
	}
	return nil
}

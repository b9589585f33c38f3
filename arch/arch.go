// Copyright © 2020 The Pea Authors under an MIT-style license.

// Package arch describes the execution architecture
// against which program costs are evaluated.
//
// An Architecture can be read from a YAML file:
//
//	default_node_cost: 1
//	distributed_plugin_cost: 50
//	cost_upper_limit: 5000
//
// and overridden by environment variables,
// optionally loaded from .env files.
package arch

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// An Architecture gives the constants of the cost model.
type Architecture struct {
	// DefaultNodeCost is the cost of a single evaluation step:
	// a literal, a reference, or the overhead of a compound node.
	DefaultNodeCost int64 `yaml:"default_node_cost"`
	// DistributedPluginCost is the surcharge for calling a distributed plugin.
	DistributedPluginCost int64 `yaml:"distributed_plugin_cost"`
	// CostUpperLimit is the ceiling that a program's cost may not exceed.
	// Its square must be representable as an int64.
	CostUpperLimit int64 `yaml:"cost_upper_limit"`
}

// Default is the architecture used when none is configured.
var Default = Architecture{
	DefaultNodeCost:       1,
	DistributedPluginCost: 50,
	CostUpperLimit:        5000,
}

// MaxCostUpperLimit is the largest ceiling whose square fits in an int64.
const MaxCostUpperLimit = 3037000499

var (
	// ErrInvalidCostUpperLimit is returned for a ceiling
	// that is non-positive or whose square overflows.
	ErrInvalidCostUpperLimit = errors.New("invalid cost upper limit")
	// ErrInvalidNodeCost is returned for a non-positive node or plugin cost.
	ErrInvalidNodeCost = errors.New("invalid node cost")
)

// Validate returns an error if the Architecture is unusable.
func (a Architecture) Validate() error {
	if a.CostUpperLimit <= 0 || a.CostUpperLimit > MaxCostUpperLimit {
		return fmt.Errorf("%w: %d", ErrInvalidCostUpperLimit, a.CostUpperLimit)
	}
	if a.DefaultNodeCost <= 0 {
		return fmt.Errorf("%w: default node cost %d", ErrInvalidNodeCost, a.DefaultNodeCost)
	}
	if a.DistributedPluginCost <= 0 {
		return fmt.Errorf("%w: distributed plugin cost %d", ErrInvalidNodeCost, a.DistributedPluginCost)
	}
	return nil
}

// Parse parses a YAML Architecture.
// Fields missing from the YAML keep their values from Default.
func Parse(data []byte) (Architecture, error) {
	a := Default
	if err := yaml.Unmarshal(data, &a); err != nil {
		return Architecture{}, fmt.Errorf("parsing architecture: %w", err)
	}
	if err := a.Validate(); err != nil {
		return Architecture{}, err
	}
	return a, nil
}

// Load reads and parses a YAML Architecture file.
func Load(path string) (Architecture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Architecture{}, fmt.Errorf("reading architecture %s: %w", path, err)
	}
	a, err := Parse(data)
	if err != nil {
		return Architecture{}, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// Environment variables that override Architecture fields.
const (
	EnvDefaultNodeCost       = "BOUND_DEFAULT_NODE_COST"
	EnvDistributedPluginCost = "BOUND_DISTRIBUTED_PLUGIN_COST"
	EnvCostUpperLimit        = "BOUND_COST_UPPER_LIMIT"
)

// FromEnv returns a with fields overridden by set environment variables.
// lookup is typically os.LookupEnv.
func FromEnv(a Architecture, lookup func(string) (string, bool)) (Architecture, error) {
	for _, v := range []struct {
		name string
		dst  *int64
	}{
		{EnvDefaultNodeCost, &a.DefaultNodeCost},
		{EnvDistributedPluginCost, &a.DistributedPluginCost},
		{EnvCostUpperLimit, &a.CostUpperLimit},
	} {
		s, ok := lookup(v.name)
		if !ok || s == "" {
			continue
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Architecture{}, fmt.Errorf("%s: %w", v.name, err)
		}
		*v.dst = n
	}
	if err := a.Validate(); err != nil {
		return Architecture{}, err
	}
	return a, nil
}

// LoadEnv loads .env files into the process environment.
// Variables that are already set are not overwritten.
// With no arguments, it loads .env from the working directory,
// and it is not an error for that file to be missing.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("loading env: %w", err)
	}
	return nil
}

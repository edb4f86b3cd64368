package genconfig

import (
	"crypto/sha256"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ChainDecompositionConfig tunes how the input graph is split into chains.
type ChainDecompositionConfig struct {
	// MaxTreeChainSize caps the number of nodes a single tree-extension
	// chain may hold before a new chain is started.
	MaxTreeChainSize int `yaml:"max_tree_chain_size" json:"max_tree_chain_size"`
	// HandleTreesGreedily solves tree chains by deterministic greedy
	// placement instead of handing them to the evolver.
	HandleTreesGreedily bool `yaml:"handle_trees_greedily" json:"handle_trees_greedily"`
}

// Validate checks ChainDecompositionConfig for internal consistency.
func (c ChainDecompositionConfig) Validate() error {
	if c.MaxTreeChainSize < 1 {
		return fmt.Errorf("genconfig: max_tree_chain_size must be >= 1, got %d", c.MaxTreeChainSize)
	}
	return nil
}

// DefaultChainDecompositionConfig returns the spec's documented defaults.
func DefaultChainDecompositionConfig() ChainDecompositionConfig {
	return ChainDecompositionConfig{MaxTreeChainSize: 6, HandleTreesGreedily: false}
}

// SimulatedAnnealingConfig tunes the two-stage evolver.
type SimulatedAnnealingConfig struct {
	Cycles                      int     `yaml:"cycles" json:"cycles"`
	TrialsPerCycle              int     `yaml:"trials_per_cycle" json:"trials_per_cycle"`
	InitialTemperature          float64 `yaml:"initial_temperature" json:"initial_temperature"`
	CoolingAlpha                float64 `yaml:"cooling_alpha" json:"cooling_alpha"`
	MaxIterationsWithoutSuccess int     `yaml:"max_iterations_without_success" json:"max_iterations_without_success"`
	MaxStageTwoFailures         int     `yaml:"max_stage_two_failures" json:"max_stage_two_failures"`
}

// Validate checks SimulatedAnnealingConfig for internal consistency.
func (c SimulatedAnnealingConfig) Validate() error {
	if c.Cycles < 1 {
		return fmt.Errorf("genconfig: cycles must be >= 1, got %d", c.Cycles)
	}
	if c.TrialsPerCycle < 1 {
		return fmt.Errorf("genconfig: trials_per_cycle must be >= 1, got %d", c.TrialsPerCycle)
	}
	if c.InitialTemperature <= 0 {
		return fmt.Errorf("genconfig: initial_temperature must be > 0, got %f", c.InitialTemperature)
	}
	if c.CoolingAlpha <= 0 || c.CoolingAlpha >= 1 {
		return fmt.Errorf("genconfig: cooling_alpha must be in (0, 1), got %f", c.CoolingAlpha)
	}
	if c.MaxIterationsWithoutSuccess < 1 {
		return fmt.Errorf("genconfig: max_iterations_without_success must be >= 1, got %d", c.MaxIterationsWithoutSuccess)
	}
	if c.MaxStageTwoFailures < 0 {
		return fmt.Errorf("genconfig: max_stage_two_failures must be >= 0, got %d", c.MaxStageTwoFailures)
	}
	return nil
}

// DefaultSimulatedAnnealingConfig returns spec.md §4.5's documented
// defaults.
func DefaultSimulatedAnnealingConfig() SimulatedAnnealingConfig {
	return SimulatedAnnealingConfig{
		Cycles:                      50,
		TrialsPerCycle:              100,
		InitialTemperature:          1.0,
		CoolingAlpha:                0.9,
		MaxIterationsWithoutSuccess: 10_000,
		MaxStageTwoFailures:         10_000,
	}
}

// RepeatMode mirrors mapdesc.RepeatMode; duplicated here (rather than
// imported) so genconfig has no dependency on mapdesc, keeping the config
// layer loadable independent of the graph it will later be applied to.
type RepeatMode int

const (
	RepeatAllowAnywhere RepeatMode = iota
	RepeatForbidNeighbors
	RepeatForbidGlobal
)

// Config is the top-level generator configuration.
type Config struct {
	ChainDecomposition ChainDecompositionConfig `yaml:"chain_decomposition" json:"chain_decomposition"`
	SimulatedAnnealing SimulatedAnnealingConfig `yaml:"simulated_annealing" json:"simulated_annealing"`
	// ChainOverrides keys a chain's sequence number to a config that
	// replaces SimulatedAnnealing for that chain only.
	ChainOverrides map[int]SimulatedAnnealingConfig `yaml:"chain_overrides,omitempty" json:"chain_overrides,omitempty"`

	SimulatedAnnealingMaxBranching int `yaml:"simulated_annealing_max_branching" json:"simulated_annealing_max_branching"`
	OptimizeCorridorConstraints    bool `yaml:"optimize_corridor_constraints" json:"optimize_corridor_constraints"`

	RepeatModeOverride            *RepeatMode `yaml:"repeat_mode_override,omitempty" json:"repeat_mode_override,omitempty"`
	ThrowIfRepeatModeNotSatisfied bool        `yaml:"throw_if_repeat_mode_not_satisfied" json:"throw_if_repeat_mode_not_satisfied"`

	EarlyStopIfIterationsExceeded *int           `yaml:"early_stop_if_iterations_exceeded,omitempty" json:"early_stop_if_iterations_exceeded,omitempty"`
	EarlyStopIfTimeExceeded       *time.Duration `yaml:"early_stop_if_time_exceeded,omitempty" json:"early_stop_if_time_exceeded,omitempty"`
}

// ConfigFor returns the simulated-annealing config that applies to the
// chain with the given sequence number, honoring ChainOverrides.
func (c Config) ConfigFor(chainSeq int) SimulatedAnnealingConfig {
	if override, ok := c.ChainOverrides[chainSeq]; ok {
		return override
	}
	return c.SimulatedAnnealing
}

// Default returns a Config populated with the spec's documented defaults.
func Default() Config {
	return Config{
		ChainDecomposition:             DefaultChainDecompositionConfig(),
		SimulatedAnnealing:             DefaultSimulatedAnnealingConfig(),
		SimulatedAnnealingMaxBranching: 5,
		OptimizeCorridorConstraints:    false,
		ThrowIfRepeatModeNotSatisfied:  false,
	}
}

// Validate checks every nested config and the cross-field invariants the
// spec requires: early-stop bounds cannot be configured alongside manual
// cancellation, which is enforced by the caller at Generate time (the
// config alone cannot see the caller's cancel token), and branching/
// override fields must be internally consistent.
func (c Config) Validate() error {
	if err := c.ChainDecomposition.Validate(); err != nil {
		return err
	}
	if err := c.SimulatedAnnealing.Validate(); err != nil {
		return err
	}
	for seq, override := range c.ChainOverrides {
		if err := override.Validate(); err != nil {
			return fmt.Errorf("genconfig: chain_overrides[%d]: %w", seq, err)
		}
	}
	if c.SimulatedAnnealingMaxBranching < 1 {
		return fmt.Errorf("genconfig: simulated_annealing_max_branching must be >= 1, got %d", c.SimulatedAnnealingMaxBranching)
	}
	if c.EarlyStopIfIterationsExceeded != nil && *c.EarlyStopIfIterationsExceeded < 1 {
		return fmt.Errorf("genconfig: early_stop_if_iterations_exceeded must be >= 1, got %d", *c.EarlyStopIfIterationsExceeded)
	}
	if c.EarlyStopIfTimeExceeded != nil && *c.EarlyStopIfTimeExceeded <= 0 {
		return fmt.Errorf("genconfig: early_stop_if_time_exceeded must be > 0, got %s", *c.EarlyStopIfTimeExceeded)
	}
	return nil
}

// HasEarlyStop reports whether either early-stopping bound is configured.
func (c Config) HasEarlyStop() bool {
	return c.EarlyStopIfIterationsExceeded != nil || c.EarlyStopIfTimeExceeded != nil
}

// LoadConfig reads and validates a Config from a YAML file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("genconfig: reading %s: %w", path, err)
	}
	return LoadConfigFromBytes(data)
}

// LoadConfigFromBytes parses and validates a Config from raw YAML bytes.
func LoadConfigFromBytes(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("genconfig: parsing yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ToYAML serializes the config back to its canonical YAML form.
func (c Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("genconfig: marshaling yaml: %w", err)
	}
	return data, nil
}

// Hash returns the SHA-256 digest of the config's canonical YAML form,
// used to derive per-stage and per-chain RNG seeds so that configuration
// changes are reflected in the random stream.
func (c Config) Hash() ([]byte, error) {
	data, err := c.ToYAML()
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	return sum[:], nil
}

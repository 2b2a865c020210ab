package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ControllerSpec is the data-driven configuration for one enemy archetype.
// Distances are world units, times are seconds.
type ControllerSpec struct {
	Name           string          `yaml:"name"`
	Kind           string          `yaml:"kind"`
	MoveSpeed      float64         `yaml:"move_speed"`
	JumpSpeed      float64         `yaml:"jump_speed"`
	AlertRange     float64         `yaml:"alert_range"`
	AttackRange    float64         `yaml:"attack_range"`
	AttacksEnabled bool            `yaml:"attacks_enabled"`
	AttackCooldown float64         `yaml:"attack_cooldown"`
	RangedBand     *RangedBandSpec `yaml:"ranged_band"`
	JumpInterval   float64         `yaml:"jump_interval"`
	Script         string          `yaml:"script"`
}

// RangedBandSpec is the projectile-range window: min inclusive, max exclusive.
type RangedBandSpec struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

var controllerKinds = map[string]bool{
	"chase":    true,
	"kamikaze": true,
	"ranged":   true,
	"hybrid":   true,
	"scripted": true,
}

// Validate checks a loaded ControllerSpec for wiring mistakes. Run at load
// time so bad data
// fails during entity setup, not mid-game.
func (s ControllerSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("prefabs: controller spec missing name")
	}
	if !controllerKinds[s.Kind] {
		return fmt.Errorf("prefabs: %s: unknown controller kind %q", s.Name, s.Kind)
	}
	if s.Kind == "scripted" {
		if s.Script == "" {
			return fmt.Errorf("prefabs: %s: scripted controller requires a script", s.Name)
		}
		return nil
	}
	if s.AlertRange <= 0 {
		return fmt.Errorf("prefabs: %s: alert_range must be positive", s.Name)
	}
	if s.Kind == "ranged" || s.Kind == "hybrid" {
		if s.RangedBand == nil {
			return fmt.Errorf("prefabs: %s: %s controller requires ranged_band", s.Name, s.Kind)
		}
		if s.RangedBand.Min < 0 || s.RangedBand.Max <= s.RangedBand.Min {
			return fmt.Errorf("prefabs: %s: invalid ranged_band [%v, %v)", s.Name, s.RangedBand.Min, s.RangedBand.Max)
		}
	}
	return nil
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadControllerSpec loads and validates one archetype spec by file name.
func LoadControllerSpec(filename string) (ControllerSpec, error) {
	spec, err := LoadSpec[ControllerSpec](filename)
	if err != nil {
		return ControllerSpec{}, err
	}
	if err := spec.Validate(); err != nil {
		return ControllerSpec{}, err
	}
	return spec, nil
}

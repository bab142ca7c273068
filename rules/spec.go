package rules

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// RulesSpec is the YAML shape of a reaction rules file.
type RulesSpec struct {
	Reactions []RuleSpec `yaml:"reactions"`
}

// RuleSpec declares one reaction rule: a health class, the damage classes
// it reacts to, and the transform applied on a hit.
type RuleSpec struct {
	Name      string        `yaml:"name"`
	Health    string        `yaml:"health"`
	Damage    []string      `yaml:"damage"`
	Transform TransformSpec `yaml:"transform"`
}

// TransformSpec configures a damage transform. Exactly one of the
// declarative fields (scale, flat, cap) or a script may be set:
//
//	scale: 0.5        incoming damage multiplied by 0.5
//	flat: 10          always 10 damage regardless of the hit
//	cap: 25           damage passes through up to 25, rest discarded
//	capped: true      with scale/flat: leftover does not bleed through;
//	                  alone: full damage, no bleed-through
//	script: x.tengo   scripted transform (see rules/scripts)
type TransformSpec struct {
	Scale  *float64 `yaml:"scale"`
	Flat   *float64 `yaml:"flat"`
	Cap    *float64 `yaml:"cap"`
	Capped bool     `yaml:"capped"`
	Script string   `yaml:"script"`
}

// LoadSpec loads and unmarshals a YAML file from the rules dir.
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("rules: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("rules: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadRulesSpec loads a reaction rules file by name.
func LoadRulesSpec(filename string) (RulesSpec, error) {
	return LoadSpec[RulesSpec](filename)
}

// DefaultRulesFile is the embedded rules file used when the host does not
// provide one.
const DefaultRulesFile = "reactions.yaml"

package rules

import (
	"errors"
	"fmt"

	"github.com/milk9111/healthbar/health"
)

var (
	ErrNoTransform        = errors.New("rules: rule has no transform")
	ErrAmbiguousTransform = errors.New("rules: rule declares more than one transform")
)

// BuildTable turns a rules spec into a reaction table. Any invalid rule
// aborts the build; a host should treat the error as fatal to startup.
func BuildTable(spec RulesSpec) (*health.ReactionTable, error) {
	table, err := health.NewReactionTable()
	if err != nil {
		return nil, err
	}

	for i, rs := range spec.Reactions {
		rule, err := buildRule(rs)
		if err != nil {
			return nil, fmt.Errorf("rules: rule %s: %w", ruleLabel(i, rs), err)
		}
		if err := table.Register(rule); err != nil {
			return nil, fmt.Errorf("rules: rule %s: %w", ruleLabel(i, rs), err)
		}
	}

	return table, nil
}

// BuildTableFile loads a rules file and builds its table.
func BuildTableFile(filename string) (*health.ReactionTable, error) {
	spec, err := LoadRulesSpec(filename)
	if err != nil {
		return nil, err
	}
	return BuildTable(spec)
}

func buildRule(rs RuleSpec) (health.ReactionRule, error) {
	damage := make([]health.DamageClass, 0, len(rs.Damage))
	for _, d := range rs.Damage {
		damage = append(damage, health.DamageClass(d))
	}

	transform, err := buildTransform(rs.Transform)
	if err != nil {
		return health.ReactionRule{}, err
	}

	return health.ReactionRule{
		Health:    health.HealthClass(rs.Health),
		Damage:    damage,
		Transform: transform,
	}, nil
}

func buildTransform(ts TransformSpec) (health.Transform, error) {
	declared := 0
	if ts.Scale != nil {
		declared++
	}
	if ts.Flat != nil {
		declared++
	}
	if ts.Cap != nil {
		declared++
	}
	if ts.Script != "" {
		declared++
	}
	if declared > 1 {
		return nil, ErrAmbiguousTransform
	}

	switch {
	case ts.Script != "":
		return compileTransform(ts.Script)
	case ts.Scale != nil:
		return health.ScaledTransform(*ts.Scale, ts.Capped), nil
	case ts.Flat != nil:
		return health.FlatTransform(*ts.Flat, ts.Capped), nil
	case ts.Cap != nil:
		return health.CapTransform(*ts.Cap), nil
	case ts.Capped:
		// Bare capped: full damage to this segment, no bleed-through.
		return health.ScaledTransform(1, true), nil
	default:
		return nil, ErrNoTransform
	}
}

func ruleLabel(i int, rs RuleSpec) string {
	if rs.Name != "" {
		return fmt.Sprintf("%q", rs.Name)
	}
	return fmt.Sprintf("%d", i)
}

package health

import (
	"errors"
	"fmt"
)

var (
	ErrNoHealthClass     = errors.New("health: reaction rule has no health class")
	ErrNoDamageClasses   = errors.New("health: reaction rule has no damage classes")
	ErrNilTransform      = errors.New("health: reaction rule has no transform")
	ErrDuplicateReaction = errors.New("health: duplicate reaction pair")
)

// ReactionRule associates one health class with one or more damage classes
// and the transform applied when that pair is hit.
type ReactionRule struct {
	Health    HealthClass
	Damage    []DamageClass
	Transform Transform
}

type reactionKey struct {
	health HealthClass
	damage DamageClass
}

// ReactionTable maps (health class, damage class) pairs to transforms.
// Build it once during startup; after that it is read-only and safe to
// share across any number of Damageables, including from multiple
// goroutines.
type ReactionTable struct {
	reactions map[reactionKey]Transform
}

// NewReactionTable builds a table from the given rules. The first invalid
// rule aborts construction.
func NewReactionTable(rules ...ReactionRule) (*ReactionTable, error) {
	t := &ReactionTable{reactions: make(map[reactionKey]Transform)}
	for i, rule := range rules {
		if err := t.Register(rule); err != nil {
			return nil, fmt.Errorf("health: rule %d: %w", i, err)
		}
	}
	return t, nil
}

// Register adds a rule to the table. It rejects rules with no health class,
// no damage classes, or no transform, and rejects any (health, damage) pair
// already covered by an earlier rule. A failed Register leaves the table as
// it was.
func (t *ReactionTable) Register(rule ReactionRule) error {
	if t == nil {
		return errors.New("health: register on nil table")
	}
	if rule.Health == "" {
		return ErrNoHealthClass
	}
	if len(rule.Damage) == 0 {
		return ErrNoDamageClasses
	}
	if rule.Transform == nil {
		return ErrNilTransform
	}
	if t.reactions == nil {
		t.reactions = make(map[reactionKey]Transform)
	}
	for _, d := range rule.Damage {
		if _, ok := t.reactions[reactionKey{rule.Health, d}]; ok {
			return fmt.Errorf("%w: (%s, %s)", ErrDuplicateReaction, rule.Health, d)
		}
	}
	// Also catch the same damage class listed twice within the rule itself.
	seen := make(map[DamageClass]bool, len(rule.Damage))
	for _, d := range rule.Damage {
		if seen[d] {
			return fmt.Errorf("%w: (%s, %s)", ErrDuplicateReaction, rule.Health, d)
		}
		seen[d] = true
	}
	for _, d := range rule.Damage {
		t.reactions[reactionKey{rule.Health, d}] = rule.Transform
	}
	return nil
}

// Lookup returns the transform registered for the exact pair, or false if
// none is.
func (t *ReactionTable) Lookup(h HealthClass, d DamageClass) (Transform, bool) {
	if t == nil || t.reactions == nil {
		return nil, false
	}
	tr, ok := t.reactions[reactionKey{h, d}]
	return tr, ok
}

// Resolve returns the transform for the pair, falling back to
// IdentityTransform when no rule matches. Absence of a rule is never an
// error at damage time.
func (t *ReactionTable) Resolve(h HealthClass, d DamageClass) Transform {
	if tr, ok := t.Lookup(h, d); ok {
		return tr
	}
	return IdentityTransform
}

// Len returns the number of registered (health, damage) pairs.
func (t *ReactionTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.reactions)
}

package health

import (
	"errors"
	"testing"
)

func mustTable(t *testing.T, rules ...ReactionRule) *ReactionTable {
	t.Helper()
	tbl, err := NewReactionTable(rules...)
	if err != nil {
		t.Fatalf("NewReactionTable() error: %v", err)
	}
	return tbl
}

func mustDamageable(t *testing.T, tbl *ReactionTable, segments ...*Segment) *Damageable {
	t.Helper()
	d, err := NewDamageable(tbl, segments...)
	if err != nil {
		t.Fatalf("NewDamageable() error: %v", err)
	}
	return d
}

func TestNewDamageableValidation(t *testing.T) {
	if _, err := NewDamageable(nil); !errors.Is(err, ErrNoSegments) {
		t.Fatalf("no segments: error = %v, want ErrNoSegments", err)
	}
	if _, err := NewDamageable(nil, NewSegment(ClassFlesh, 10), nil); !errors.Is(err, ErrNilSegment) {
		t.Fatalf("nil segment: error = %v, want ErrNilSegment", err)
	}
}

func TestDamageCappedStopsAtSegment(t *testing.T) {
	// Armour caps impact damage: the flesh layer behind it must stay
	// untouched no matter how hard the hit.
	tbl := mustTable(t, ReactionRule{
		Health:    ClassArmour,
		Damage:    []DamageClass{DamageImpact},
		Transform: ScaledTransform(1, true),
	})
	d := mustDamageable(t, tbl,
		NewSegment(ClassArmour, 400),
		NewSegment(ClassFlesh, 100),
	)

	d.Damage(600, DamageImpact)

	if got := d.Segment(0).Current; got != 0 {
		t.Fatalf("armour = %v, want 0", got)
	}
	if got := d.Segment(1).Current; got != 100 {
		t.Fatalf("flesh = %v, want 100 (capped damage must not bleed through)", got)
	}
}

func TestDamageUncappedBleedsThrough(t *testing.T) {
	tbl := mustTable(t, ReactionRule{
		Health:    ClassArmour,
		Damage:    []DamageClass{DamageSlash},
		Transform: ScaledTransform(1, false),
	})
	d := mustDamageable(t, tbl,
		NewSegment(ClassArmour, 50),
		NewSegment(ClassFlesh, 100),
	)

	d.Damage(80, DamageSlash)

	if got := d.Segment(0).Current; got != 0 {
		t.Fatalf("armour = %v, want 0", got)
	}
	if got := d.Segment(1).Current; got != 70 {
		t.Fatalf("flesh = %v, want 70", got)
	}
}

func TestDamageIdentityFallback(t *testing.T) {
	// No rule registered at all: full damage, bleed-through.
	d := mustDamageable(t, nil,
		NewSegment(ClassShield, 20),
		NewSegment(ClassFlesh, 100),
	)

	d.Damage(50, DamageFire)

	if got := d.Segment(0).Current; got != 0 {
		t.Fatalf("shield = %v, want 0", got)
	}
	if got := d.Segment(1).Current; got != 70 {
		t.Fatalf("flesh = %v, want 70", got)
	}
}

func TestDamageTransformRunsPerSegment(t *testing.T) {
	// The leftover carried into the next segment is re-transformed by that
	// segment's own reaction.
	tbl := mustTable(t,
		ReactionRule{Health: ClassArmour, Damage: []DamageClass{DamageSlash}, Transform: ScaledTransform(1, false)},
		ReactionRule{Health: ClassFlesh, Damage: []DamageClass{DamageSlash}, Transform: ScaledTransform(2, false)},
	)
	d := mustDamageable(t, tbl,
		NewSegment(ClassArmour, 50),
		NewSegment(ClassFlesh, 100),
	)

	d.Damage(80, DamageSlash)

	// 30 bleeds into flesh and is doubled there.
	if got := d.Segment(1).Current; got != 40 {
		t.Fatalf("flesh = %v, want 40", got)
	}
}

func TestDamageSkipsDepletedSegments(t *testing.T) {
	d := mustDamageable(t, nil,
		NewSegmentSplit(ClassArmour, 0, 50),
		NewSegment(ClassFlesh, 100),
	)

	d.Damage(30, DamageSlash)

	if got := d.Segment(1).Current; got != 70 {
		t.Fatalf("flesh = %v, want 70 (depleted front segment must be skipped)", got)
	}
}

func TestDamageExcessPastLastSegmentDiscarded(t *testing.T) {
	d := mustDamageable(t, nil, NewSegment(ClassFlesh, 10))
	d.Damage(1000, DamageImpact)
	if got := d.CurrentHealth(); got != 0 {
		t.Fatalf("current = %v, want 0", got)
	}
}

func TestDamageIgnoresNonPositiveAmounts(t *testing.T) {
	d := mustDamageable(t, nil, NewSegment(ClassFlesh, 10))
	d.Damage(0, DamageSlash)
	d.Damage(-5, DamageSlash)
	if got := d.CurrentHealth(); got != 10 {
		t.Fatalf("current = %v, want 10", got)
	}
}

func TestHealNeverOverflows(t *testing.T) {
	d := mustDamageable(t, nil,
		NewSegmentSplit(ClassArmour, 10, 50),
		NewSegmentSplit(ClassFlesh, 20, 100),
	)

	cases := []struct {
		name string
		heal float64
	}{
		{"small", 5},
		{"exact_fill", 115},
		{"overflow", 10000},
		{"repeated", 33},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d.Heal(c.heal)
			if cur, max := d.CurrentHealth(), d.MaximumHealth(); cur > max {
				t.Fatalf("current %v exceeds maximum %v", cur, max)
			}
			d.EachSegment(func(i int, s Segment) bool {
				if s.Current > s.Max {
					t.Fatalf("segment %d current %v exceeds its max %v", i, s.Current, s.Max)
				}
				return true
			})
		})
	}
}

func TestHealFillsFrontToBack(t *testing.T) {
	d := mustDamageable(t, nil,
		NewSegmentSplit(ClassArmour, 10, 50),
		NewSegmentSplit(ClassFlesh, 20, 100),
	)

	d.Heal(60)

	if got := d.Segment(0).Current; got != 50 {
		t.Fatalf("front segment = %v, want 50 (fills first)", got)
	}
	if got := d.Segment(1).Current; got != 40 {
		t.Fatalf("back segment = %v, want 40", got)
	}
}

func TestAppendNilFailsAndLeavesSequence(t *testing.T) {
	d := mustDamageable(t, nil, NewSegment(ClassFlesh, 10))
	if err := d.Append(nil); !errors.Is(err, ErrNilSegment) {
		t.Fatalf("Append(nil) error = %v, want ErrNilSegment", err)
	}
	if d.SegmentCount() != 1 {
		t.Fatalf("segment count = %d, want 1", d.SegmentCount())
	}
}

func TestRemoveLastKeepsAtLeastOneSegment(t *testing.T) {
	d := mustDamageable(t, nil, NewSegment(ClassFlesh, 10))

	if err := d.RemoveLast(); !errors.Is(err, ErrLastSegment) {
		t.Fatalf("RemoveLast() error = %v, want ErrLastSegment", err)
	}
	if d.SegmentCount() != 1 {
		t.Fatalf("segment count = %d, want 1", d.SegmentCount())
	}

	if err := d.Append(NewSegment(ClassArmour, 20)); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if err := d.RemoveLast(); err != nil {
		t.Fatalf("RemoveLast() with two segments error: %v", err)
	}
	if d.SegmentCount() != 1 {
		t.Fatalf("segment count = %d, want 1", d.SegmentCount())
	}
	if got := d.Segment(0).Class; got != ClassFlesh {
		t.Fatalf("remaining segment class = %q, want %q", got, ClassFlesh)
	}
}

func TestDeathFiresOncePerDepletion(t *testing.T) {
	d := mustDamageable(t, nil, NewSegment(ClassFlesh, 10))

	deaths := 0
	d.OnDeath(func() { deaths++ })

	d.Damage(4, DamageSlash)
	if deaths != 0 {
		t.Fatalf("death fired at %v health", d.CurrentHealth())
	}

	d.Damage(6, DamageSlash)
	if deaths != 1 {
		t.Fatalf("deaths = %d after depletion, want 1", deaths)
	}

	// Hitting a corpse must not re-fire.
	d.Damage(5, DamageSlash)
	d.Damage(5, DamageSlash)
	if deaths != 1 {
		t.Fatalf("deaths = %d after hitting at zero, want 1", deaths)
	}
}

func TestDeathFiresAgainAfterAppendRevival(t *testing.T) {
	d := mustDamageable(t, nil, NewSegment(ClassFlesh, 10))

	deaths := 0
	d.OnDeath(func() { deaths++ })

	d.Damage(10, DamageSlash)
	if deaths != 1 {
		t.Fatalf("deaths = %d after first depletion, want 1", deaths)
	}

	// Appending a live segment revives the entity; draining it again is a
	// fresh >0 to 0 transition and must notify again.
	if err := d.Append(NewSegment(ClassArmour, 50)); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	d.Damage(50, DamageSlash)

	if deaths != 2 {
		t.Fatalf("deaths = %d after second depletion, want 2", deaths)
	}
}

func TestDeathRearmsAfterHeal(t *testing.T) {
	d := mustDamageable(t, nil, NewSegment(ClassFlesh, 10))

	deaths := 0
	d.OnDeath(func() { deaths++ })

	d.Damage(10, DamageSlash)
	d.Heal(10)
	d.Damage(10, DamageSlash)

	if deaths != 2 {
		t.Fatalf("deaths = %d, want 2 (one per depletion)", deaths)
	}
}

func TestScaleOperationsApplyToAllSegments(t *testing.T) {
	newTarget := func() *Damageable {
		return mustDamageable(t, nil,
			NewSegmentSplit(ClassArmour, 20, 40),
			NewSegmentSplit(ClassFlesh, 50, 100),
		)
	}

	t.Run("scale", func(t *testing.T) {
		d := newTarget()
		d.Scale(2)
		if d.CurrentHealth() != 140 || d.MaximumHealth() != 280 {
			t.Fatalf("got %v/%v, want 140/280", d.CurrentHealth(), d.MaximumHealth())
		}
	})

	t.Run("scale_max", func(t *testing.T) {
		d := newTarget()
		d.ScaleMaxHitpoints(2)
		if d.CurrentHealth() != 70 || d.MaximumHealth() != 280 {
			t.Fatalf("got %v/%v, want 70/280", d.CurrentHealth(), d.MaximumHealth())
		}
	})

	t.Run("scale_current", func(t *testing.T) {
		d := newTarget()
		d.ScaleCurrentHitpoints(0.5)
		if d.CurrentHealth() != 35 || d.MaximumHealth() != 140 {
			t.Fatalf("got %v/%v, want 35/140", d.CurrentHealth(), d.MaximumHealth())
		}
	})
}

func TestDerivedHealthTracksSegments(t *testing.T) {
	d := mustDamageable(t, nil,
		NewSegment(ClassArmour, 40),
		NewSegment(ClassFlesh, 60),
	)

	if d.CurrentHealth() != 100 || d.MaximumHealth() != 100 {
		t.Fatalf("got %v/%v, want 100/100", d.CurrentHealth(), d.MaximumHealth())
	}

	d.Damage(25, DamageSlash)
	if d.CurrentHealth() != 75 {
		t.Fatalf("current = %v, want 75", d.CurrentHealth())
	}

	if err := d.Append(NewSegment(ClassShield, 30)); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if d.CurrentHealth() != 105 || d.MaximumHealth() != 130 {
		t.Fatalf("got %v/%v after append, want 105/130", d.CurrentHealth(), d.MaximumHealth())
	}
}

func TestSegmentAccessorsAreReadOnly(t *testing.T) {
	d := mustDamageable(t, nil, NewSegment(ClassFlesh, 10))

	s := d.Segment(0)
	s.Current = 0
	if got := d.CurrentHealth(); got != 10 {
		t.Fatalf("mutating the returned copy changed the damageable: %v", got)
	}

	if got := d.Segment(5); got != (Segment{}) {
		t.Fatalf("out of range access = %+v, want zero value", got)
	}

	visited := 0
	d.EachSegment(func(i int, s Segment) bool {
		visited++
		return true
	})
	if visited != 1 {
		t.Fatalf("visited %d segments, want 1", visited)
	}
}

func TestSegmentsCopiedOnIntake(t *testing.T) {
	// A caller holding on to the *Segment it passed in must not be able to
	// mutate hitpoints behind the Damageable's back.
	initial := NewSegment(ClassFlesh, 100)
	d := mustDamageable(t, nil, initial)

	initial.Current = 0
	if got := d.CurrentHealth(); got != 100 {
		t.Fatalf("constructor aliased caller segment: current = %v, want 100", got)
	}

	appended := NewSegment(ClassArmour, 40)
	if err := d.Append(appended); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	appended.Current = 0
	if got := d.CurrentHealth(); got != 140 {
		t.Fatalf("Append aliased caller segment: current = %v, want 140", got)
	}
}

func TestCombatEvents(t *testing.T) {
	tbl := mustTable(t, ReactionRule{
		Health:    ClassArmour,
		Damage:    []DamageClass{DamageSlash},
		Transform: ScaledTransform(1, false),
	})
	d := mustDamageable(t, tbl,
		NewSegment(ClassArmour, 50),
		NewSegment(ClassFlesh, 100),
	)

	var got []Event
	d.Events().Subscribe(func(evt Event) { got = append(got, evt) })

	d.Damage(80, DamageSlash)

	want := []Event{
		{Type: EventDamageApplied, Class: DamageSlash, Amount: 50, SegmentIndex: 0},
		{Type: EventSegmentDepleted, Class: DamageSlash, SegmentIndex: 0},
		{Type: EventDamageApplied, Class: DamageSlash, Amount: 30, SegmentIndex: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d events %+v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	got = got[:0]
	d.Damage(150, DamageSlash)
	last := got[len(got)-1]
	if last.Type != EventDeath || last.SegmentIndex != -1 {
		t.Fatalf("last event = %+v, want death", last)
	}
}

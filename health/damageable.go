package health

import "errors"

var (
	ErrNoSegments  = errors.New("health: damageable needs at least one segment")
	ErrNilSegment  = errors.New("health: segment is nil")
	ErrLastSegment = errors.New("health: cannot remove the last segment")
)

// Damageable owns an ordered sequence of segments and resolves damage,
// healing, and scaling across them. Front segments absorb damage first;
// uncapped leftover bleeds through to the next layer.
//
// A Damageable belongs to exactly one entity and is mutated from that
// entity's update logic only. The reaction table it holds is shared and
// read-only.
type Damageable struct {
	segments []*Segment
	table    *ReactionTable
	emitter  EventEmitter

	onDeath []func()
}

// NewDamageable creates a Damageable over the given segments. At least one
// non-nil segment is required. A nil table is allowed and behaves as an
// empty one: every hit falls back to the identity transform.
func NewDamageable(table *ReactionTable, segments ...*Segment) (*Damageable, error) {
	if len(segments) == 0 {
		return nil, ErrNoSegments
	}
	owned := make([]*Segment, len(segments))
	for i, s := range segments {
		if s == nil {
			return nil, ErrNilSegment
		}
		// Copy on intake: callers cannot mutate hitpoints behind the
		// Damageable's back through a retained pointer.
		seg := *s
		owned[i] = &seg
	}
	return &Damageable{segments: owned, table: table}, nil
}

// CurrentHealth returns the live sum of segment current hitpoints.
func (d *Damageable) CurrentHealth() float64 {
	if d == nil {
		return 0
	}
	var sum float64
	for _, s := range d.segments {
		sum += s.Current
	}
	return sum
}

// MaximumHealth returns the live sum of segment maximum hitpoints.
func (d *Damageable) MaximumHealth() float64 {
	if d == nil {
		return 0
	}
	var sum float64
	for _, s := range d.segments {
		sum += s.Max
	}
	return sum
}

// Damage applies one damage event across the segments. For each non-depleted
// segment in order, the reaction for (segment class, class) transforms the
// incoming amount; the segment absorbs up to its current hitpoints. A capped
// reaction discards whatever the segment could not absorb; an uncapped one
// carries it into the next segment. Excess past the last segment is
// discarded. Amounts <= 0 are ignored.
//
// Death handlers fire exactly once per transition of aggregate health from
// above zero to zero.
func (d *Damageable) Damage(amount float64, class DamageClass) {
	if d == nil || amount <= 0 {
		return
	}
	wasAlive := d.CurrentHealth() > 0

	remaining := amount
	for i, seg := range d.segments {
		if seg.Depleted() {
			continue
		}

		info := d.table.Resolve(seg.Class, class)(remaining)
		if info.Amount < 0 {
			info.Amount = 0
		}

		applied := info.Amount
		if applied > seg.Current {
			applied = seg.Current
		}
		seg.Current -= applied

		if applied > 0 {
			d.emitter.Emit(Event{Type: EventDamageApplied, Class: class, Amount: applied, SegmentIndex: i})
		}
		if seg.Current <= 0 {
			seg.Current = 0
			d.emitter.Emit(Event{Type: EventSegmentDepleted, Class: class, SegmentIndex: i})
		}

		if info.Capped {
			break
		}
		leftover := info.Amount - applied
		if leftover <= 0 {
			break
		}
		remaining = leftover
	}

	// The >0 to 0 transition check alone guarantees at-most-once per
	// depletion: anything that brings aggregate health back above zero
	// (Heal, Append of a live segment) arms the next depletion again.
	if wasAlive && d.CurrentHealth() <= 0 {
		d.emitter.Emit(Event{Type: EventDeath, Class: class, SegmentIndex: -1})
		for _, fn := range d.onDeath {
			if fn != nil {
				fn()
			}
		}
	}
}

// Heal distributes healing front-to-back: each segment fills up to its own
// maximum and the remainder carries on. Aggregate health never exceeds
// MaximumHealth. Amounts <= 0 are ignored. Healing above zero means the
// next depletion notifies death again.
func (d *Damageable) Heal(amount float64) {
	if d == nil || amount <= 0 {
		return
	}
	remaining := amount
	for i, seg := range d.segments {
		room := seg.Max - seg.Current
		if room <= 0 {
			continue
		}
		add := remaining
		if add > room {
			add = room
		}
		seg.Current += add
		remaining -= add
		d.emitter.Emit(Event{Type: EventHealed, Amount: add, SegmentIndex: i})
		if remaining <= 0 {
			break
		}
	}
}

// Scale multiplies current and maximum hitpoints of every segment.
func (d *Damageable) Scale(mult float64) {
	if d == nil {
		return
	}
	for _, s := range d.segments {
		s.Scale(mult)
	}
}

// ScaleMaxHitpoints multiplies only the maximum of every segment.
func (d *Damageable) ScaleMaxHitpoints(mult float64) {
	if d == nil {
		return
	}
	for _, s := range d.segments {
		s.ScaleMax(mult)
	}
}

// ScaleCurrentHitpoints multiplies only the current hitpoints of every
// segment.
func (d *Damageable) ScaleCurrentHitpoints(mult float64) {
	if d == nil {
		return
	}
	for _, s := range d.segments {
		s.ScaleCurrent(mult)
	}
}

// Append adds a copy of seg to the back of the sequence. Appending a
// segment with hitpoints to a depleted Damageable revives it; the next
// depletion notifies death again.
func (d *Damageable) Append(seg *Segment) error {
	if d == nil || seg == nil {
		return ErrNilSegment
	}
	owned := *seg
	d.segments = append(d.segments, &owned)
	return nil
}

// RemoveLast removes the final segment. A Damageable always keeps at least
// one segment; removing the last remaining one fails.
func (d *Damageable) RemoveLast() error {
	if d == nil || len(d.segments) <= 1 {
		return ErrLastSegment
	}
	d.segments[len(d.segments)-1] = nil
	d.segments = d.segments[:len(d.segments)-1]
	return nil
}

// SegmentCount returns the number of owned segments.
func (d *Damageable) SegmentCount() int {
	if d == nil {
		return 0
	}
	return len(d.segments)
}

// Segment returns a copy of the segment at index i, or the zero value when
// i is out of range. Copies keep structural mutation behind Append and
// RemoveLast.
func (d *Damageable) Segment(i int) Segment {
	if d == nil || i < 0 || i >= len(d.segments) {
		return Segment{}
	}
	return *d.segments[i]
}

// EachSegment calls fn for every segment in depletion order until fn
// returns false.
func (d *Damageable) EachSegment(fn func(i int, s Segment) bool) {
	if d == nil || fn == nil {
		return
	}
	for i, s := range d.segments {
		if !fn(i, *s) {
			return
		}
	}
}

// OnDeath registers a handler invoked synchronously when aggregate health
// transitions from above zero to zero.
func (d *Damageable) OnDeath(fn func()) {
	if d == nil || fn == nil {
		return
	}
	d.onDeath = append(d.onDeath, fn)
}

// Events exposes the combat event emitter for host systems.
func (d *Damageable) Events() *EventEmitter {
	if d == nil {
		return nil
	}
	return &d.emitter
}

// SetReactionTable swaps the reaction table. Tables are immutable once
// built; swapping between update steps is how a host installs freshly
// reloaded rules. Nil reverts to fallback-only behavior.
func (d *Damageable) SetReactionTable(table *ReactionTable) {
	if d == nil {
		return
	}
	d.table = table
}

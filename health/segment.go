package health

// Segment is one layer of an entity's hitpoint pool. Segments carry no
// combat logic of their own; Damage and Heal live on Damageable so that
// bleed-through across layers stays in one place.
type Segment struct {
	Current float64
	Max     float64
	Class   HealthClass
}

// NewSegment creates a full segment: current and max both set to hitpoints.
// Negative hitpoints clamp to zero.
func NewSegment(class HealthClass, hitpoints float64) *Segment {
	if hitpoints < 0 {
		hitpoints = 0
	}
	return &Segment{Current: hitpoints, Max: hitpoints, Class: class}
}

// NewSegmentSplit creates a segment with distinct current and max values.
// Both clamp to zero from below and current clamps to max.
func NewSegmentSplit(class HealthClass, current, max float64) *Segment {
	if max < 0 {
		max = 0
	}
	if current < 0 {
		current = 0
	}
	if current > max {
		current = max
	}
	return &Segment{Current: current, Max: max, Class: class}
}

// Scale multiplies both current and max hitpoints. The multiplier is not
// validated; callers own the sign.
func (s *Segment) Scale(mult float64) {
	if s == nil {
		return
	}
	s.Current *= mult
	s.Max *= mult
}

// ScaleMax multiplies only the maximum. Current is deliberately not
// reclamped when the new max falls below it; the next Damage or Heal on the
// owning Damageable restores the invariant.
func (s *Segment) ScaleMax(mult float64) {
	if s == nil {
		return
	}
	s.Max *= mult
}

// ScaleCurrent multiplies only the current hitpoints.
func (s *Segment) ScaleCurrent(mult float64) {
	if s == nil {
		return
	}
	s.Current *= mult
}

// Set copies all fields from other. It is a value copy, not aliasing.
func (s *Segment) Set(other Segment) {
	if s == nil {
		return
	}
	s.Current = other.Current
	s.Max = other.Max
	s.Class = other.Class
}

// Depleted reports whether the segment has no hitpoints left.
func (s *Segment) Depleted() bool {
	return s == nil || s.Current <= 0
}

// Fraction returns current/max clamped to [0, 1]. A zero-max segment
// reports 0.
func (s *Segment) Fraction() float64 {
	if s == nil || s.Max <= 0 {
		return 0
	}
	f := s.Current / s.Max
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

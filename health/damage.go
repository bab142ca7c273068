package health

// DamageInfo is the output of a reaction transform: how much damage to apply
// to the segment being hit, and whether the segment caps it.
type DamageInfo struct {
	// Amount is the damage to apply to the current segment. Never negative;
	// transforms returning a negative amount are clamped to zero.
	Amount float64

	// Capped stops propagation: whatever this segment cannot absorb is
	// discarded instead of bleeding through to the next segment.
	Capped bool
}

// Transform turns an incoming damage amount into the DamageInfo applied to
// a single segment. Transforms must be pure; they may run for every segment
// a damage event touches.
type Transform func(amount float64) DamageInfo

// IdentityTransform passes damage through unmodified with bleed-through.
// It is the fallback when no reaction is registered for a pair.
func IdentityTransform(amount float64) DamageInfo {
	return DamageInfo{Amount: amount}
}

// ScaledTransform multiplies incoming damage by mult.
func ScaledTransform(mult float64, capped bool) Transform {
	return func(amount float64) DamageInfo {
		return DamageInfo{Amount: amount * mult, Capped: capped}
	}
}

// FlatTransform ignores the incoming amount and always deals flat damage.
func FlatTransform(flat float64, capped bool) Transform {
	return func(float64) DamageInfo {
		return DamageInfo{Amount: flat, Capped: capped}
	}
}

// CapTransform passes damage through up to limit and discards the rest.
// The result is always capped: excess never bleeds through.
func CapTransform(limit float64) Transform {
	return func(amount float64) DamageInfo {
		if amount > limit {
			amount = limit
		}
		return DamageInfo{Amount: amount, Capped: true}
	}
}

package health

// HealthClass tags what a segment is made of. Values are interned symbolic
// identifiers: configuration can introduce new classes without touching this
// package, since any non-empty string is a valid class.
type HealthClass string

const (
	ClassFlesh  HealthClass = "flesh"
	ClassArmour HealthClass = "armour"
	ClassShield HealthClass = "shield"
)

// DamageClass tags the kind of an incoming damage event.
type DamageClass string

const (
	DamageSlash  DamageClass = "slash"
	DamageImpact DamageClass = "impact"
	DamageFire   DamageClass = "fire"
	DamagePierce DamageClass = "pierce"
)

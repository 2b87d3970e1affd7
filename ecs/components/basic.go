package components

// Transform is an entity's world position in pixels.
type Transform struct {
	X float64
	Y float64
}

// Velocity is measured in pixels per second.
type Velocity struct {
	X float64
	Y float64
}

// Gravity scales the global gravity vector per entity. A Scale of zero
// is treated as 1 by the physics pass; set Disabled to opt out entirely.
type Gravity struct {
	Scale    float64
	Disabled bool
}

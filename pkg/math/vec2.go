package math

// Vec2 is a 2D vector. It is used for texture coordinates.
type Vec2 struct {
	X, Y float32
}

// Equal reports whether both components compare equal, without tolerance.
func (v Vec2) Equal(other Vec2) bool {
	return v == other
}

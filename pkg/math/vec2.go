package math

// Vec2 is a 2D vector. The engine uses it for texture coordinates.
type Vec2 struct {
	X, Y float32
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return Vec3{v.X, v.Y, 0}.Length()
}

// Distance returns the distance to another point.
func (v Vec2) Distance(other Vec2) float32 {
	return v.Sub(other).Length()
}

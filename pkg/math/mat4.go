package math

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Mat4 is a 4x4 matrix in column-major order (OpenGL compatible).
// Layout: [m0 m4 m8  m12]
//
//	[m1 m5 m9  m13]
//	[m2 m6 m10 m14]
//	[m3 m7 m11 m15]
//
// Composition reads right to left: world = parent.Mul(local).
type Mat4 [16]float32

// Identity returns an identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Perspective returns an OpenGL-style perspective projection matrix.
// fovY is in radians, aspect is width/height.
func Perspective(fovY, aspect, near, far float32) (Mat4, error) {
	switch {
	case !isFinite(fovY) || !isFinite(aspect) || !isFinite(near) || !isFinite(far):
		return Mat4{}, fmt.Errorf("perspective: non-finite input: %w", ErrInvalidParameter)
	case fovY <= 0 || fovY >= Pi:
		return Mat4{}, fmt.Errorf("perspective: fovY %v outside (0, pi): %w", fovY, ErrInvalidParameter)
	case aspect <= 0:
		return Mat4{}, fmt.Errorf("perspective: aspect %v must be positive: %w", aspect, ErrInvalidParameter)
	case near <= 0:
		return Mat4{}, fmt.Errorf("perspective: near %v must be positive: %w", near, ErrInvalidParameter)
	case far <= near:
		return Mat4{}, fmt.Errorf("perspective: far %v must exceed near %v: %w", far, near, ErrInvalidParameter)
	}

	f := 1 / math32.Tan(fovY/2)
	nf := 1 / (near - far)

	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}, nil
}

// LookAt returns a view matrix looking from eye to center.
// eye == center is rejected. An up vector parallel to the view direction is
// replaced by the world axis least aligned with it.
func LookAt(eye, center, up Vec3) (Mat4, error) {
	dir := center.Sub(eye)
	if dir.Length() == 0 {
		return Mat4{}, fmt.Errorf("lookat: eye equals center: %w", ErrInvalidParameter)
	}
	f := dir.Normalize()

	s := f.Cross(up)
	if s.Length() < 1e-6 {
		s = f.Cross(leastAlignedAxis(f))
	}
	s = s.Normalize()
	u := s.Cross(f)

	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}, nil
}

func leastAlignedAxis(v Vec3) Vec3 {
	ax, ay, az := math32.Abs(v.X), math32.Abs(v.Y), math32.Abs(v.Z)
	switch {
	case ax <= ay && ax <= az:
		return Vec3{1, 0, 0}
	case ay <= az:
		return Vec3{0, 1, 0}
	default:
		return Vec3{0, 0, 1}
	}
}

// Translate returns a translation matrix.
func Translate(x, y, z float32) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, z, 1,
	}
}

// Scale returns a scale matrix.
func Scale(x, y, z float32) Mat4 {
	return Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// RotateX returns a rotation matrix around the X axis.
// angle is in radians.
func RotateX(angle float32) Mat4 {
	c := math32.Cos(angle)
	s := math32.Sin(angle)

	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY returns a rotation matrix around the Y axis.
// angle is in radians.
func RotateY(angle float32) Mat4 {
	c := math32.Cos(angle)
	s := math32.Sin(angle)

	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ returns a rotation matrix around the Z axis.
// angle is in radians.
func RotateZ(angle float32) Mat4 {
	c := math32.Cos(angle)
	s := math32.Sin(angle)

	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// RotateAxis creates a rotation matrix around an arbitrary axis.
// The axis is normalized here; angle is in radians.
func RotateAxis(axis Vec3, angle float32) Mat4 {
	axis = axis.Normalize()
	c := math32.Cos(angle)
	s := math32.Sin(angle)
	t := 1 - c

	x, y, z := axis.X, axis.Y, axis.Z

	return Mat4{
		t*x*x + c, t*x*y + s*z, t*x*z - s*y, 0,
		t*x*y - s*z, t*y*y + c, t*y*z + s*x, 0,
		t*x*z + s*y, t*y*z - s*x, t*z*z + c, 0,
		0, 0, 0, 1,
	}
}

// FromBasis builds an affine transform whose first three columns are the
// given axes and whose fourth column is the translation.
func FromBasis(x, y, z, translation Vec3) Mat4 {
	return Mat4{
		x.X, x.Y, x.Z, 0,
		y.X, y.Y, y.Z, 0,
		z.X, z.Y, z.Z, 0,
		translation.X, translation.Y, translation.Z, 1,
	}
}

// Mul multiplies this matrix by another (m * other).
func (m Mat4) Mul(other Mat4) Mat4 {
	var result Mat4
	MulInto(&result, &m, &other)
	return result
}

// MulInto writes a * b into dst. dst may alias a or b.
func MulInto(dst, a, b *Mat4) {
	var result Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			result[col*4+row] =
				a[0*4+row]*b[col*4+0] +
					a[1*4+row]*b[col*4+1] +
					a[2*4+row]*b[col*4+2] +
					a[3*4+row]*b[col*4+3]
		}
	}
	*dst = result
}

// At returns the element at row, col.
func (m Mat4) At(row, col int) float32 {
	return m[col*4+row]
}

// Column returns the xyz part of column i.
func (m Mat4) Column(i int) Vec3 {
	return Vec3{m[i*4], m[i*4+1], m[i*4+2]}
}

// Translation returns the translation column.
func (m Mat4) Translation() Vec3 {
	return m.Column(3)
}

// TransformPoint transforms a point by this matrix (w=1), dividing by w
// when the matrix is projective.
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	x := m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12]
	y := m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13]
	z := m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14]
	w := m[3]*p.X + m[7]*p.Y + m[11]*p.Z + m[15]
	if w != 0 && w != 1 {
		return Vec3{x / w, y / w, z / w}
	}
	return Vec3{x, y, z}
}

// TransformDirection transforms a direction vector (ignores translation).
func (m Mat4) TransformDirection(d Vec3) Vec3 {
	return Vec3{
		m[0]*d.X + m[4]*d.Y + m[8]*d.Z,
		m[1]*d.X + m[5]*d.Y + m[9]*d.Z,
		m[2]*d.X + m[6]*d.Y + m[10]*d.Z,
	}
}

// IsFinite reports whether every element is finite.
func (m Mat4) IsFinite() bool {
	for _, v := range m {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

// Ptr returns a pointer to the first element (for OpenGL uniform calls).
func (m *Mat4) Ptr() *float32 {
	return &m[0]
}

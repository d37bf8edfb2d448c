package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Mat4 is a column-major 4x4 float32 matrix, laid out the way WGSL expects a
// mat4x4<f32> inside a storage or uniform buffer.
type Mat4 [16]float32

// Identity returns the identity matrix
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul returns a * b (apply b first, then a)
func Mul(a, b Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// Translate returns a translation matrix
func Translate(v r3.Vec) Mat4 {
	m := Identity()
	m[12] = float32(v.X)
	m[13] = float32(v.Y)
	m[14] = float32(v.Z)
	return m
}

// Scale returns a non-uniform scale matrix
func Scale(x, y, z float32) Mat4 {
	m := Identity()
	m[0] = x
	m[5] = y
	m[10] = z
	return m
}

// rotationAxisAngle builds a rotation of angle radians around a unit axis
func rotationAxisAngle(axis r3.Vec, angle float64) Mat4 {
	s := float32(math.Sin(angle))
	c := float32(math.Cos(angle))
	t := 1 - c
	x := float32(axis.X)
	y := float32(axis.Y)
	z := float32(axis.Z)

	return Mat4{
		t*x*x + c, t*x*y + s*z, t*x*z - s*y, 0,
		t*x*y - s*z, t*y*y + c, t*y*z + s*x, 0,
		t*x*z + s*y, t*y*z - s*x, t*z*z + c, 0,
		0, 0, 0, 1,
	}
}

// RotationBetween returns the rotation mapping unit vector from onto unit
// vector to. Parallel vectors yield the identity; antiparallel vectors rotate
// half a turn around an arbitrary perpendicular axis.
func RotationBetween(from, to r3.Vec) Mat4 {
	const eps = 1e-9

	dot := r3.Dot(from, to)
	if dot > 1-eps {
		return Identity()
	}
	if dot < -1+eps {
		// pick any axis perpendicular to from
		perp := r3.Cross(from, r3.Vec{X: 1})
		if r3.Norm(perp) < eps {
			perp = r3.Cross(from, r3.Vec{Y: 1})
		}
		return rotationAxisAngle(r3.Unit(perp), math.Pi)
	}

	axis := r3.Unit(r3.Cross(from, to))
	angle := math.Acos(math.Max(-1, math.Min(1, dot)))
	return rotationAxisAngle(axis, angle)
}

// Perspective returns a right-handed perspective projection with depth in
// [0,1], matching the WebGPU clip volume
func Perspective(fovYRadians, aspect, near, far float64) Mat4 {
	f := float32(1 / math.Tan(fovYRadians/2))
	nf := float32(1 / (near - far))

	var m Mat4
	m[0] = f / float32(aspect)
	m[5] = f
	m[10] = float32(far) * nf
	m[11] = -1
	m[14] = float32(far*near) * nf
	return m
}

// LookAt returns a right-handed view matrix
func LookAt(eye, center, up r3.Vec) Mat4 {
	f := r3.Unit(r3.Sub(center, eye))
	s := r3.Unit(r3.Cross(f, up))
	u := r3.Cross(s, f)

	return Mat4{
		float32(s.X), float32(u.X), float32(-f.X), 0,
		float32(s.Y), float32(u.Y), float32(-f.Y), 0,
		float32(s.Z), float32(u.Z), float32(-f.Z), 0,
		float32(-r3.Dot(s, eye)), float32(-r3.Dot(u, eye)), float32(r3.Dot(f, eye)), 1,
	}
}

// SegmentTransform builds the model matrix of a unit cube stretched into a
// segment from a to b: translate to the midpoint, rotate +Y onto the segment
// direction, scale to (thickness, length, thickness). Degenerate segments
// collapse to a zero-length scale rather than producing NaNs.
func SegmentTransform(a, b r3.Vec, thickness float32) Mat4 {
	mid := r3.Scale(0.5, r3.Add(a, b))
	d := r3.Sub(b, a)
	length := r3.Norm(d)
	if length < 1e-12 {
		return Mul(Translate(mid), Scale(thickness, 0, thickness))
	}

	rot := RotationBetween(r3.Vec{Y: 1}, r3.Scale(1/length, d))
	return Mul(Translate(mid), Mul(rot, Scale(thickness, float32(length), thickness)))
}

// TransformPoint applies m to a point (w = 1) and returns the projected
// result after the perspective divide. Used by tests to check transforms.
func TransformPoint(m Mat4, p r3.Vec) r3.Vec {
	x := float64(m[0])*p.X + float64(m[4])*p.Y + float64(m[8])*p.Z + float64(m[12])
	y := float64(m[1])*p.X + float64(m[5])*p.Y + float64(m[9])*p.Z + float64(m[13])
	z := float64(m[2])*p.X + float64(m[6])*p.Y + float64(m[10])*p.Z + float64(m[14])
	w := float64(m[3])*p.X + float64(m[7])*p.Y + float64(m[11])*p.Z + float64(m[15])
	if w != 0 && w != 1 {
		return r3.Vec{X: x / w, Y: y / w, Z: z / w}
	}
	return r3.Vec{X: x, Y: y, Z: z}
}

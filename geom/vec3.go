package geom

// Vec3 is a point or vector in three dimensions.
//
// The zero value is the origin. Vec3 is a value type; all methods return new
// values and never modify the receiver.
type Vec3[T Float] [3]T

// V3 is shorthand for Vec3[T]{x, y, z}.
func V3[T Float](x, y, z T) Vec3[T] {
	return Vec3[T]{x, y, z}
}

func (v Vec3[T]) X() T { return v[0] }
func (v Vec3[T]) Y() T { return v[1] }
func (v Vec3[T]) Z() T { return v[2] }

func (v Vec3[T]) Add(o Vec3[T]) Vec3[T] {
	return Vec3[T]{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

func (v Vec3[T]) Sub(o Vec3[T]) Vec3[T] {
	return Vec3[T]{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

func (v Vec3[T]) Scaled(f T) Vec3[T] {
	return Vec3[T]{v[0] * f, v[1] * f, v[2] * f}
}

func (v Vec3[T]) Neg() Vec3[T] {
	return Vec3[T]{-v[0], -v[1], -v[2]}
}

func (v Vec3[T]) Dot(o Vec3[T]) T {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

func (v Vec3[T]) Cross(o Vec3[T]) Vec3[T] {
	return Vec3[T]{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

func (v Vec3[T]) LengthSqr() T {
	return v.Dot(v)
}

func (v Vec3[T]) Length() T {
	return Sqrt(v.LengthSqr())
}

// Normalized returns the unit vector in the direction of v.
// The zero vector is returned unchanged.
func (v Vec3[T]) Normalized() Vec3[T] {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scaled(1 / l)
}

func (v Vec3[T]) Distance(o Vec3[T]) T {
	return v.Sub(o).Length()
}

func (v Vec3[T]) SquareDistance(o Vec3[T]) T {
	return v.Sub(o).LengthSqr()
}

// Lerp interpolates linearly between v (t = 0) and o (t = 1).
func (v Vec3[T]) Lerp(o Vec3[T], t T) Vec3[T] {
	return Vec3[T]{
		v[0] + (o[0]-v[0])*t,
		v[1] + (o[1]-v[1])*t,
		v[2] + (o[2]-v[2])*t,
	}
}

// IsZero reports whether every component of v is within tol of zero.
func (v Vec3[T]) IsZero(tol T) bool {
	return Abs(v[0]) <= tol && Abs(v[1]) <= tol && Abs(v[2]) <= tol
}

// ApproxEqual reports whether v and o are closer than tol.
func (v Vec3[T]) ApproxEqual(o Vec3[T], tol T) bool {
	return v.SquareDistance(o) <= tol*tol
}

// UV is a location in the parametric domain of a surface.
type UV[T Float] [2]T

func (uv UV[T]) U() T { return uv[0] }
func (uv UV[T]) V() T { return uv[1] }

// Cast converts a vector to another precision.
func Cast[To, From Float](v Vec3[From]) Vec3[To] {
	return Vec3[To]{To(v[0]), To(v[1]), To(v[2])}
}

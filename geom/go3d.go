package geom

import (
	mat4f "github.com/ungerik/go3d/mat4"
	vec3f "github.com/ungerik/go3d/vec3"

	"github.com/ungerik/go3d/float64/mat4"
	"github.com/ungerik/go3d/float64/vec3"
)

// FromGo3D converts a go3d vector.
func FromGo3D(v vec3.T) Vec3[float64] {
	return Vec3[float64](v)
}

// ToGo3D converts to a go3d vector.
func ToGo3D(v Vec3[float64]) vec3.T {
	return vec3.T(v)
}

// FromGo3D32 converts a single precision go3d vector.
func FromGo3D32(v vec3f.T) Vec3[float32] {
	return Vec3[float32](v)
}

// ToGo3D32 converts to a single precision go3d vector.
func ToGo3D32(v Vec3[float32]) vec3f.T {
	return vec3f.T(v)
}

type go3dTransform struct {
	mat mat4.T
}

// Go3D adapts a go3d matrix to a Transform. The matrix is copied, so later
// changes to m do not affect the returned transform.
func Go3D(m *mat4.T) Transform[float64] {
	return go3dTransform{*m}
}

func (t go3dTransform) TransformPoint(p Vec3[float64]) Vec3[float64] {
	v := vec3.T(p)
	return Vec3[float64](t.mat.MulVec3(&v))
}

type go3dTransform32 struct {
	mat mat4f.T
}

// Go3D32 adapts a single precision go3d matrix to a Transform.
func Go3D32(m *mat4f.T) Transform[float32] {
	return go3dTransform32{*m}
}

func (t go3dTransform32) TransformPoint(p Vec3[float32]) Vec3[float32] {
	v := vec3f.T(p)
	return Vec3[float32](t.mat.MulVec3(&v))
}

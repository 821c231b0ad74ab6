package geom

// Transform maps points of one space into another. Curves and surfaces are
// transformed by applying it to their control points only. Go3D and Go3D32
// adapt go3d matrices to it.
type Transform[T Float] interface {
	TransformPoint(p Vec3[T]) Vec3[T]
}

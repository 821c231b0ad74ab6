package nurbs

import (
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/alexozer/nurbs/geom"
)

// Face is a triangle given by three vertex indices, counter-clockwise when
// seen from the side the surface normal points to.
type Face [3]int

// Vertex is a mesh vertex sampled from a surface.
type Vertex[T geom.Float] struct {
	Position geom.Vec3[T]
	Normal   geom.Vec3[T]
	UV       geom.UV[T]
}

// Mesh is an indexed triangle mesh. It owns its data and does not refer back
// to the surface it was produced from.
type Mesh[T geom.Float] struct {
	Vertices []Vertex[T]
	Faces    []Face
}

func (m *Mesh[T]) VertexCount() int   { return len(m.Vertices) }
func (m *Mesh[T]) TriangleCount() int { return len(m.Faces) }
func (m *Mesh[T]) IsEmpty() bool      { return len(m.Faces) == 0 }

// Bounds returns the axis aligned bounding box of the vertex positions.
// An empty mesh yields the zero box.
func (m *Mesh[T]) Bounds() r3.Box {
	var b *kdtree.Bounding
	for _, v := range m.Vertices {
		b = kdtree.Point{float64(v.Position[0]), float64(v.Position[1]), float64(v.Position[2])}.Extend(b)
	}
	if b == nil {
		return r3.Box{}
	}
	lo, hi := b.Min.(kdtree.Point), b.Max.(kdtree.Point)
	return r3.Box{
		Min: r3.Vec{X: lo[0], Y: lo[1], Z: lo[2]},
		Max: r3.Vec{X: hi[0], Y: hi[1], Z: hi[2]},
	}
}

// Buffers flattens the mesh into separate arrays ready for upload
// to a GPU: xyz positions, xyz normals and triangle indices.
func (m *Mesh[T]) Buffers() (positions, normals []float32, indices []uint32) {
	positions = make([]float32, 0, 3*len(m.Vertices))
	normals = make([]float32, 0, 3*len(m.Vertices))
	for _, v := range m.Vertices {
		positions = append(positions, float32(v.Position[0]), float32(v.Position[1]), float32(v.Position[2]))
		normals = append(normals, float32(v.Normal[0]), float32(v.Normal[1]), float32(v.Normal[2]))
	}
	indices = make([]uint32, 0, 3*len(m.Faces))
	for _, f := range m.Faces {
		indices = append(indices, uint32(f[0]), uint32(f[1]), uint32(f[2]))
	}
	return positions, normals, indices
}

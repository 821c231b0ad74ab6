package nurbs

import (
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/alexozer/nurbs/geom"
)

// weldPoint is a vertex position in a k-d tree, remembering its index.
type weldPoint struct {
	pos r3.Vec
	idx int
}

func (p weldPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(weldPoint)
	switch d {
	case 0:
		return p.pos.X - q.pos.X
	case 1:
		return p.pos.Y - q.pos.Y
	default:
		return p.pos.Z - q.pos.Z
	}
}

func (p weldPoint) Dims() int { return 3 }

func (p weldPoint) Distance(c kdtree.Comparable) float64 {
	d := r3.Sub(p.pos, c.(weldPoint).pos)
	return r3.Dot(d, d)
}

type weldPoints []weldPoint

func (p weldPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p weldPoints) Len() int                       { return len(p) }
func (p weldPoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}
func (p weldPoints) Pivot(d kdtree.Dim) int {
	plane := weldPlane{points: p, dim: d}
	return kdtree.Partition(plane, kdtree.MedianOfMedians(plane))
}

type weldPlane struct {
	points weldPoints
	dim    kdtree.Dim
}

func (p weldPlane) Len() int { return len(p.points) }
func (p weldPlane) Less(i, j int) bool {
	return p.points[i].Compare(p.points[j], p.dim) < 0
}
func (p weldPlane) Swap(i, j int) { p.points[i], p.points[j] = p.points[j], p.points[i] }
func (p weldPlane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}

// Weld merges vertices whose positions lie within tol of each other, such
// as the seam of a closed surface or the apex of a collapsed edge. The
// lowest index of every group survives with the averaged normal. Faces
// that lose an edge are dropped. Weld returns the number of vertices
// removed.
func (m *Mesh[T]) Weld(tol T) int {
	n := len(m.Vertices)
	if n < 2 {
		return 0
	}

	pts := make(weldPoints, n)
	for i, v := range m.Vertices {
		pts[i] = weldPoint{pos: toR3(v.Position), idx: i}
	}
	// New reorders pts; queries go through the original positions
	tree := kdtree.New(append(weldPoints(nil), pts...), false)

	rep := make([]int, n)
	radius := float64(tol) * float64(tol)
	for i := range pts {
		keep := kdtree.NewDistKeeper(radius)
		tree.NearestSet(keep, pts[i])
		first := i
		for _, cd := range keep.Heap {
			if cd.Comparable == nil {
				continue
			}
			first = min(first, cd.Comparable.(weldPoint).idx)
		}
		if first == i {
			rep[i] = i
		} else {
			rep[i] = rep[first]
		}
	}

	remap := make([]int, n)
	normals := make(map[int]geom.Vec3[T])
	vertices := m.Vertices[:0:0]
	for i, v := range m.Vertices {
		if rep[i] == i {
			remap[i] = len(vertices)
			vertices = append(vertices, v)
			continue
		}
		remap[i] = remap[rep[i]]
		sum, ok := normals[remap[i]]
		if !ok {
			sum = vertices[remap[i]].Normal
		}
		normals[remap[i]] = sum.Add(v.Normal)
	}
	for id, sum := range normals {
		if sum.LengthSqr() > 0 {
			vertices[id].Normal = sum.Normalized()
		}
	}

	faces := m.Faces[:0]
	for _, f := range m.Faces {
		g := Face{remap[f[0]], remap[f[1]], remap[f[2]]}
		if g[0] == g[1] || g[1] == g[2] || g[2] == g[0] {
			continue
		}
		faces = append(faces, g)
	}

	removed := n - len(vertices)
	m.Vertices, m.Faces = vertices, faces
	return removed
}

func toR3[T geom.Float](p geom.Vec3[T]) r3.Vec {
	return r3.Vec{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
}

package nurbs

import (
	"slices"

	"github.com/alexozer/nurbs/geom"
)

// gridLines indexes every leaf corner by the lattice lines it lies on, so
// the vertices that neighbors place on a leaf edge can be found by range.
type gridLines struct {
	// byU[u] lists the v coordinates of corners on the line of constant u
	byU map[int64][]int64
	// byV[v] lists the u coordinates of corners on the line of constant v
	byV map[int64][]int64
}

func newGridLines[T geom.Float](cells []*cellResult[T]) *gridLines {
	g := &gridLines{
		byU: make(map[int64][]int64),
		byV: make(map[int64][]int64),
	}
	for _, c := range cells {
		for _, idx := range c.leaves {
			for _, k := range c.nodes[idx].corners() {
				g.byU[k.u] = append(g.byU[k.u], k.v)
				g.byV[k.v] = append(g.byV[k.v], k.u)
			}
		}
	}
	for _, m := range []map[int64][]int64{g.byU, g.byV} {
		for line, coords := range m {
			slices.Sort(coords)
			m[line] = slices.Compact(coords)
		}
	}
	return g
}

// between returns the coordinates on a line strictly inside (lo, hi), in
// increasing order.
func between(coords []int64, lo, hi int64) []int64 {
	start, _ := slices.BinarySearch(coords, lo+1)
	end, _ := slices.BinarySearch(coords, hi)
	if start >= end {
		return nil
	}
	return coords[start:end]
}

// boundary lists the vertices around a leaf counter-clockwise in (u, v),
// starting at corner 0, including the corners of smaller neighbors that
// lie on its edges.
func (g *gridLines) boundary(nd *tessNode) []latticeKey {
	c := nd.corners()
	u0, v0 := nd.u0, nd.v0
	u1, v1 := nd.u0+nd.size, nd.v0+nd.size

	loop := make([]latticeKey, 0, 8)
	loop = append(loop, c[0])
	for _, u := range between(g.byV[v0], u0, u1) {
		loop = append(loop, latticeKey{u, v0})
	}
	loop = append(loop, c[1])
	for _, v := range between(g.byU[u1], v0, v1) {
		loop = append(loop, latticeKey{u1, v})
	}
	loop = append(loop, c[2])
	top := between(g.byV[v1], u0, u1)
	for i := len(top) - 1; i >= 0; i-- {
		loop = append(loop, latticeKey{top[i], v1})
	}
	loop = append(loop, c[3])
	left := between(g.byU[u0], v0, v1)
	for i := len(left) - 1; i >= 0; i-- {
		loop = append(loop, latticeKey{u0, left[i]})
	}
	return loop
}

// meshBuilder assigns each lattice location one vertex.
type meshBuilder[T geom.Float] struct {
	mesh    *Mesh[T]
	ids     map[latticeKey]int
	samples map[latticeKey]surfaceSample[T]
}

func (b *meshBuilder[T]) vertex(k latticeKey) int {
	if id, ok := b.ids[k]; ok {
		return id
	}
	s := b.samples[k]
	id := len(b.mesh.Vertices)
	b.mesh.Vertices = append(b.mesh.Vertices, Vertex[T]{Position: s.pt, Normal: s.normal, UV: s.uv})
	b.ids[k] = id
	return id
}

// stitch triangulates every leaf. Leaves without extra edge vertices become
// two triangles, leaves with one extra vertex three triangles fanned from
// it, and all others a fan around their center. Coincident vertices are
// welded afterwards and their number returned.
func (t *tessellator[T]) stitch(cells []*cellResult[T]) (*Mesh[T], int) {
	b := &meshBuilder[T]{
		mesh:    &Mesh[T]{},
		ids:     make(map[latticeKey]int),
		samples: make(map[latticeKey]surfaceSample[T]),
	}
	for _, c := range cells {
		for k, s := range c.samples {
			// repaired normals win over missing ones
			if prev, ok := b.samples[k]; !ok || prev.normal.LengthSqr() < s.normal.LengthSqr() {
				b.samples[k] = s
			}
		}
	}

	lines := newGridLines(cells)
	for _, c := range cells {
		for _, idx := range c.leaves {
			nd := &c.nodes[idx]
			t.triangulateLeaf(b, lines.boundary(nd), nd)
		}
	}
	welded := b.mesh.Weld(geom.Tolerance[T]())
	return b.mesh, welded
}

func (t *tessellator[T]) triangulateLeaf(b *meshBuilder[T], loop []latticeKey, nd *tessNode) {
	ids := make([]int, len(loop))
	for i, k := range loop {
		ids[i] = b.vertex(k)
	}

	switch len(ids) {
	case 4:
		b.mesh.Faces = append(b.mesh.Faces,
			Face{ids[0], ids[1], ids[2]},
			Face{ids[0], ids[2], ids[3]},
		)
	case 5:
		// the extra vertex is the only one that is not a corner
		corners := nd.corners()
		split := slices.IndexFunc(loop, func(k latticeKey) bool {
			return !slices.Contains(corners[:], k)
		})
		l := len(ids)
		for j := 1; j <= 3; j++ {
			b.mesh.Faces = append(b.mesh.Faces, Face{ids[split], ids[(split+j)%l], ids[(split+j+1)%l]})
		}
	default:
		center := b.vertex(nd.center())
		j := len(ids) - 1
		for i := range ids {
			b.mesh.Faces = append(b.mesh.Faces, Face{center, ids[j], ids[i]})
			j = i
		}
	}
}

package nurbs

import "github.com/alexozer/nurbs/geom"

// latticeKey addresses a parametric location on the tessellation lattice.
type latticeKey struct {
	u, v int64
}

// surfaceSample is a surface point with its unit normal. degen marks
// locations where the normal is undefined; their normal is borrowed from a
// neighboring corner when one is available.
type surfaceSample[T geom.Float] struct {
	uv     geom.UV[T]
	pt     geom.Vec3[T]
	normal geom.Vec3[T]
	degen  bool
}

// tessNode is a patch [u0, u0+size] × [v0, v0+size] in lattice units.
//
//	v
//	^   (3)-----(2)
//	|    |   c   |
//	|   (0)-----(1)
//	+--> u
//
// Children are stored consecutively in the arena starting at child, in the
// same corner order.
type tessNode struct {
	u0, v0 int64
	size   int64
	depth  int
	child  int32
}

func (n *tessNode) corners() [4]latticeKey {
	return [4]latticeKey{
		{n.u0, n.v0},
		{n.u0 + n.size, n.v0},
		{n.u0 + n.size, n.v0 + n.size},
		{n.u0, n.v0 + n.size},
	}
}

func (n *tessNode) center() latticeKey {
	return latticeKey{n.u0 + n.size/2, n.v0 + n.size/2}
}

// cellResult is the subdivision of one root cell: the node arena, the
// indices of its leaves in traversal order, and every sample evaluated.
type cellResult[T geom.Float] struct {
	nodes   []tessNode
	leaves  []int32
	samples map[latticeKey]surfaceSample[T]
	stats   TessellationStats
}

// subdivideCell refines the root cell whose lower left lattice corner is
// (u0, v0). The quadtree is walked depth first with an explicit stack.
func (t *tessellator[T]) subdivideCell(u0, v0 int64) *cellResult[T] {
	c := &cellResult[T]{
		nodes:   []tessNode{{u0: u0, v0: v0, size: t.cell, child: -1}},
		samples: make(map[latticeKey]surfaceSample[T]),
	}

	stack := []int32{0}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		nd := c.nodes[idx]
		c.stats.Depth = max(c.stats.Depth, nd.depth)
		if !t.shouldDivide(c, &nd) {
			c.leaves = append(c.leaves, idx)
			continue
		}

		half := nd.size / 2
		first := int32(len(c.nodes))
		for _, off := range [4][2]int64{{0, 0}, {half, 0}, {half, half}, {0, half}} {
			c.nodes = append(c.nodes, tessNode{
				u0:    nd.u0 + off[0],
				v0:    nd.v0 + off[1],
				size:  half,
				depth: nd.depth + 1,
				child: -1,
			})
		}
		c.nodes[idx].child = first

		// push in reverse so child 0 is visited first
		for k := int32(3); k >= 0; k-- {
			stack = append(stack, first+k)
		}
	}

	c.stats.Leaves = len(c.leaves)
	return c
}

// sample evaluates the surface at a lattice location, reusing earlier
// evaluations within the cell.
func (t *tessellator[T]) sample(c *cellResult[T], k latticeKey) surfaceSample[T] {
	if s, ok := c.samples[k]; ok {
		return s
	}
	uv := t.uv(k)
	pt, n, ok := t.srf.pointNormal(uv[0], uv[1])
	s := surfaceSample[T]{uv: uv, pt: pt, normal: n, degen: !ok}
	c.samples[k] = s
	return s
}

// shouldDivide decides whether a patch is refined further.
func (t *tessellator[T]) shouldDivide(c *cellResult[T], nd *tessNode) bool {
	keys := nd.corners()
	var corners [4]surfaceSample[T]
	for i, k := range keys {
		corners[i] = t.sample(c, k)
	}
	center := t.sample(c, nd.center())

	if nd.depth < t.opts.MinDepth && nd.depth < t.opts.MaxDepth {
		return true
	}

	if hasBadNormals(corners) {
		t.fixNormals(c, keys, corners, center)
		c.stats.Degenerate++
		// don't divide any further when encountering a degenerate normal
		return false
	}

	if !normalsDiverge(corners, center, T(t.opts.NormTolerance)) {
		return false
	}
	if nd.depth >= t.opts.MaxDepth {
		c.stats.Capped++
		return false
	}
	return true
}

func hasBadNormals[T geom.Float](corners [4]surfaceSample[T]) bool {
	return corners[0].degen || corners[1].degen || corners[2].degen || corners[3].degen
}

// fixNormals gives degenerate corners the normal of an adjacent corner, or
// of the patch center when both adjacent corners are degenerate too.
func (t *tessellator[T]) fixNormals(c *cellResult[T], keys [4]latticeKey, corners [4]surfaceSample[T], center surfaceSample[T]) {
	for i := range corners {
		if !corners[i].degen {
			continue
		}
		next, prev := corners[(i+1)%4], corners[(i+3)%4]
		fixed := corners[i]
		switch {
		case !next.degen:
			fixed.normal = next.normal
		case !prev.degen:
			fixed.normal = prev.normal
		case !center.degen:
			fixed.normal = center.normal
		default:
			continue
		}
		c.samples[keys[i]] = fixed
	}
}

// normalsDiverge reports whether the patch is curved beyond tol: either the
// normal interpolated from the corners misses the center normal, or a
// corner normal differs from the center normal.
func normalsDiverge[T geom.Float](corners [4]surfaceSample[T], center surfaceSample[T], tol T) bool {
	if center.degen {
		return true
	}
	var avg geom.Vec3[T]
	for _, cs := range corners {
		avg = avg.Add(cs.normal)
	}
	if avg.LengthSqr() == 0 || avg.Normalized().SquareDistance(center.normal) > tol {
		return true
	}
	for _, cs := range corners {
		if cs.normal.SquareDistance(center.normal) > tol {
			return true
		}
	}
	return false
}

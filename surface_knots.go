package nurbs

import (
	"github.com/alexozer/nurbs/geom"
	"github.com/alexozer/nurbs/internal"
)

type rowOp[T geom.Float] func(knots KnotVector[T], degree int, rows [][]internal.HomoPoint[T]) (KnotVector[T], [][]internal.HomoPoint[T], error)

// alongDirection runs op on the control net rows that run in u, or in v
// when useV is set, and reassembles the surface.
func (s *NurbsSurface[T]) alongDirection(useV bool, op rowOp[T]) (*NurbsSurface[T], error) {
	if useV {
		knots, rows, err := op(s.knotsV, s.degreeV, s.controlPoints)
		if err != nil {
			return nil, err
		}
		return s.derive(s.degreeU, s.degreeV, rows, s.knotsU.Clone(), knots), nil
	}

	knots, cols, err := op(s.knotsU, s.degreeU, internal.Transposed(s.controlPoints))
	if err != nil {
		return nil, err
	}
	return s.derive(s.degreeU, s.degreeV, internal.Transposed(cols), knots, s.knotsV.Clone()), nil
}

func (s *NurbsSurface[T]) insertKnot(useV bool, t T, times int) (*NurbsSurface[T], error) {
	return s.alongDirection(useV, func(knots KnotVector[T], degree int, rows [][]internal.HomoPoint[T]) (KnotVector[T], [][]internal.HomoPoint[T], error) {
		newKnots, ins, err := knots.InsertKnot(degree, t, times)
		if err != nil {
			return nil, nil, err
		}
		out := make([][]internal.HomoPoint[T], len(rows))
		for i, row := range rows {
			if out[i], err = ApplyKnotInsertion(ins, row, homoBlend[T]); err != nil {
				return nil, nil, err
			}
		}
		return newKnots, out, nil
	})
}

func (s *NurbsSurface[T]) refine(useV bool, knotsToInsert []T) (*NurbsSurface[T], error) {
	return s.alongDirection(useV, func(knots KnotVector[T], degree int, rows [][]internal.HomoPoint[T]) (KnotVector[T], [][]internal.HomoPoint[T], error) {
		var newKnots KnotVector[T]
		out := make([][]internal.HomoPoint[T], len(rows))
		for i, row := range rows {
			k, pts, err := RefineKnots(knots, degree, row, knotsToInsert, homoBlend[T])
			if err != nil {
				return nil, nil, err
			}
			newKnots, out[i] = k, pts
		}
		return newKnots, out, nil
	})
}

// InsertKnotU inserts u into the u knot vector up to times times.
func (s *NurbsSurface[T]) InsertKnotU(u T, times int) (*NurbsSurface[T], error) {
	return s.insertKnot(false, u, times)
}

// InsertKnotV inserts v into the v knot vector up to times times.
func (s *NurbsSurface[T]) InsertKnotV(v T, times int) (*NurbsSurface[T], error) {
	return s.insertKnot(true, v, times)
}

// RefineU inserts a sorted collection of knots in the u direction.
func (s *NurbsSurface[T]) RefineU(knots []T) (*NurbsSurface[T], error) {
	return s.refine(false, knots)
}

// RefineV inserts a sorted collection of knots in the v direction.
func (s *NurbsSurface[T]) RefineV(knots []T) (*NurbsSurface[T], error) {
	return s.refine(true, knots)
}

// Isocurve extracts the curve of constant parameter t. With useV unset t
// is a u value and the curve runs along v; with useV set t is a v value and
// the curve runs along u. t is clamped into the domain.
func (s *NurbsSurface[T]) Isocurve(t T, useV bool) *NurbsCurve[T] {
	if useV {
		lo, hi := s.DomainV()
		t = min(max(t, lo), hi)
		span := s.knotsV.Span(s.degreeV, t)
		basis := BasisFunctions(span, t, s.degreeV, s.knotsV)

		pts := make([]internal.HomoPoint[T], len(s.controlPoints))
		for i, row := range s.controlPoints {
			for j, n := range basis {
				pts[i] = pts[i].AddScaled(row[span-s.degreeV+j], n)
			}
		}
		return &NurbsCurve[T]{degree: s.degreeU, controlPoints: pts, knots: s.knotsU.Clone(), policy: s.policy}
	}

	lo, hi := s.DomainU()
	t = min(max(t, lo), hi)
	span := s.knotsU.Span(s.degreeU, t)
	basis := BasisFunctions(span, t, s.degreeU, s.knotsU)

	pts := make([]internal.HomoPoint[T], len(s.controlPoints[0]))
	for k, n := range basis {
		for j, hp := range s.controlPoints[span-s.degreeU+k] {
			pts[j] = pts[j].AddScaled(hp, n)
		}
	}
	return &NurbsCurve[T]{degree: s.degreeV, controlPoints: pts, knots: s.knotsV.Clone(), policy: s.policy}
}

// Boundaries extracts the four boundary curves: the two at the ends of the
// u domain (running along v), then the two at the ends of the v domain
// (running along u).
func (s *NurbsSurface[T]) Boundaries() [4]*NurbsCurve[T] {
	ulo, uhi := s.DomainU()
	vlo, vhi := s.DomainV()
	return [4]*NurbsCurve[T]{
		s.Isocurve(ulo, false),
		s.Isocurve(uhi, false),
		s.Isocurve(vlo, true),
		s.Isocurve(vhi, true),
	}
}

// TessellateUniform samples the surface on a regular divsU × divsV grid of
// its domain and triangulates each cell with two triangles.
func (s *NurbsSurface[T]) TessellateUniform(divsU, divsV int) *Mesh[T] {
	divsU = max(divsU, 1)
	divsV = max(divsV, 1)

	ulo, uhi := s.DomainU()
	vlo, vhi := s.DomainV()
	stepU := (uhi - ulo) / T(divsU)
	stepV := (vhi - vlo) / T(divsV)

	mesh := &Mesh[T]{
		Vertices: make([]Vertex[T], 0, (divsU+1)*(divsV+1)),
		Faces:    make([]Face, 0, 2*divsU*divsV),
	}
	for i := 0; i <= divsU; i++ {
		u := ulo + T(i)*stepU
		if i == divsU {
			u = uhi
		}
		for j := 0; j <= divsV; j++ {
			v := vlo + T(j)*stepV
			if j == divsV {
				v = vhi
			}
			pt, n, _ := s.pointNormal(u, v)
			mesh.Vertices = append(mesh.Vertices, Vertex[T]{pt, n, geom.UV[T]{u, v}})
		}
	}

	for i := 0; i < divsU; i++ {
		for j := 0; j < divsV; j++ {
			a := i*(divsV+1) + j
			b := (i+1)*(divsV+1) + j
			c := b + 1
			d := a + 1
			mesh.Faces = append(mesh.Faces, Face{a, b, c}, Face{a, c, d})
		}
	}
	return mesh
}

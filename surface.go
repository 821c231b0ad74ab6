package nurbs

import (
	"fmt"

	"github.com/alexozer/nurbs/geom"
	"github.com/alexozer/nurbs/internal"
)

// NurbsSurface is an immutable tensor product rational B-spline surface.
type NurbsSurface[T geom.Float] struct {
	degreeU, degreeV int

	// control net in homogeneous form; the first index runs along u, the
	// second along v
	controlPoints [][]internal.HomoPoint[T]

	knotsU, knotsV KnotVector[T]

	policy DomainPolicy
}

// NewNurbsSurface builds a validated surface. points[i][j] is the control
// point at index i along u and j along v. A nil weights grid gives every
// control point weight one. The inputs are copied.
func NewNurbsSurface[T geom.Float](degreeU, degreeV int, points [][]geom.Vec3[T], weights [][]T, knotsU, knotsV []T, opts ...Option) (*NurbsSurface[T], error) {
	if len(points) == 0 || len(points[0]) == 0 {
		return nil, fmt.Errorf("%w: empty control net", ErrInvalidDegree)
	}
	cols := len(points[0])
	for i, row := range points {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: control net row %d has %d points, expected %d",
				ErrInvalidKnotVector, i, len(row), cols)
		}
	}
	if weights != nil {
		if len(weights) != len(points) {
			return nil, fmt.Errorf("%w: %d weight rows for %d control point rows",
				ErrInvalidWeight, len(weights), len(points))
		}
		for i := range weights {
			if err := checkWeights(weights[i], cols); err != nil {
				return nil, err
			}
			if weights[i] == nil {
				return nil, fmt.Errorf("%w: weight row %d is nil", ErrInvalidWeight, i)
			}
		}
	}
	if err := KnotVector[T](knotsU).Validate(degreeU, len(points)); err != nil {
		return nil, fmt.Errorf("u direction: %w", err)
	}
	if err := KnotVector[T](knotsV).Validate(degreeV, cols); err != nil {
		return nil, fmt.Errorf("v direction: %w", err)
	}
	return NewNurbsSurfaceUnchecked(degreeU, degreeV, points, weights, knotsU, knotsV, opts...), nil
}

// NewNurbsSurfaceUnchecked builds a surface without validating its inputs.
func NewNurbsSurfaceUnchecked[T geom.Float](degreeU, degreeV int, points [][]geom.Vec3[T], weights [][]T, knotsU, knotsV []T, opts ...Option) *NurbsSurface[T] {
	o := buildOptions(opts)
	return &NurbsSurface[T]{
		degreeU:       degreeU,
		degreeV:       degreeV,
		controlPoints: internal.Homogenize2d(points, weights),
		knotsU:        KnotVector[T](knotsU).Clone(),
		knotsV:        KnotVector[T](knotsV).Clone(),
		policy:        o.policy,
	}
}

func (s *NurbsSurface[T]) DegreeU() int { return s.degreeU }
func (s *NurbsSurface[T]) DegreeV() int { return s.degreeV }

func (s *NurbsSurface[T]) ControlPoints() [][]geom.Vec3[T] {
	return internal.Dehomogenize2d(s.controlPoints)
}

func (s *NurbsSurface[T]) Weights() [][]T {
	return internal.Weight2d(s.controlPoints)
}

func (s *NurbsSurface[T]) KnotsU() KnotVector[T] { return s.knotsU.Clone() }
func (s *NurbsSurface[T]) KnotsV() KnotVector[T] { return s.knotsV.Clone() }

func (s *NurbsSurface[T]) DomainPolicy() DomainPolicy { return s.policy }

func (s *NurbsSurface[T]) DomainU() (lo, hi T) { return s.knotsU.Domain(s.degreeU) }
func (s *NurbsSurface[T]) DomainV() (lo, hi T) { return s.knotsV.Domain(s.degreeV) }

func (s *NurbsSurface[T]) derive(degreeU, degreeV int, pts [][]internal.HomoPoint[T], knotsU, knotsV KnotVector[T]) *NurbsSurface[T] {
	return &NurbsSurface[T]{
		degreeU:       degreeU,
		degreeV:       degreeV,
		controlPoints: pts,
		knotsU:        knotsU,
		knotsV:        knotsV,
		policy:        s.policy,
	}
}

func (s *NurbsSurface[T]) params(u, v T) (T, T, error) {
	ulo, uhi := s.DomainU()
	vlo, vhi := s.DomainV()
	u, err := checkParameter(u, ulo, uhi, s.policy)
	if err != nil {
		return u, v, err
	}
	v, err = checkParameter(v, vlo, vhi, s.policy)
	return u, v, err
}

// Evaluate computes the point at (u, v).
func (s *NurbsSurface[T]) Evaluate(u, v T) (geom.Vec3[T], error) {
	u, v, err := s.params(u, v)
	if err != nil {
		return geom.Vec3[T]{}, err
	}
	return s.point(u, v), nil
}

// Derivatives computes the mixed partial derivatives up to order at
// (u, v). skl[k][l] is the derivative k times in u and l times in v, for
// k+l <= order; skl[0][0] is the point.
func (s *NurbsSurface[T]) Derivatives(u, v T, order int) ([][]geom.Vec3[T], error) {
	if order < 0 {
		return nil, fmt.Errorf("%w: negative derivative order %d", ErrInvalidDegree, order)
	}
	u, v, err := s.params(u, v)
	if err != nil {
		return nil, err
	}
	return s.derivatives(u, v, order), nil
}

// Normal returns the unit normal Su × Sv at (u, v). ok is false where the
// normal is undefined, such as at a collapsed edge, or when the parameters
// are rejected by the domain policy.
func (s *NurbsSurface[T]) Normal(u, v T) (n geom.Vec3[T], ok bool) {
	u, v, err := s.params(u, v)
	if err != nil {
		return geom.Vec3[T]{}, false
	}
	_, n, ok = s.pointNormal(u, v)
	return n, ok
}

// pointNormal evaluates position and unit normal at an in-domain location.
func (s *NurbsSurface[T]) pointNormal(u, v T) (pt, n geom.Vec3[T], ok bool) {
	ders := s.derivatives(u, v, 1)
	n = ders[1][0].Cross(ders[0][1])
	l := n.Length()
	if !(l > geom.Epsilon[T]()) {
		return ders[0][0], geom.Vec3[T]{}, false
	}
	return ders[0][0], n.Scaled(1 / l), true
}

// Transformed applies tr to the control points. Weights and knots are kept.
func (s *NurbsSurface[T]) Transformed(tr geom.Transform[T]) *NurbsSurface[T] {
	pts := make([][]internal.HomoPoint[T], len(s.controlPoints))
	for i, row := range s.controlPoints {
		pts[i] = make([]internal.HomoPoint[T], len(row))
		for j, hp := range row {
			pts[i][j] = internal.Homogenized(tr.TransformPoint(hp.Dehomogenized()), hp.W)
		}
	}
	return s.derive(s.degreeU, s.degreeV, pts, s.knotsU.Clone(), s.knotsV.Clone())
}

// Reversed flips the parameterization in u, or in v when useV is set.
func (s *NurbsSurface[T]) Reversed(useV bool) *NurbsSurface[T] {
	pts := internal.Clone2d(s.controlPoints)
	if useV {
		for _, row := range pts {
			for i, j := 0, len(row)-1; i < j; i, j = i+1, j-1 {
				row[i], row[j] = row[j], row[i]
			}
		}
		return s.derive(s.degreeU, s.degreeV, pts, s.knotsU.Clone(), s.knotsV.Reversed())
	}
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
	return s.derive(s.degreeU, s.degreeV, pts, s.knotsU.Reversed(), s.knotsV.Clone())
}

// point evaluates at an in-domain location
// (corresponds to algorithm A4.3 from The NURBS book, Piegl & Tiller 2nd edition).
func (s *NurbsSurface[T]) point(u, v T) geom.Vec3[T] {
	hp := s.homoPoint(u, v)
	return hp.Dehomogenized()
}

func (s *NurbsSurface[T]) homoPoint(u, v T) internal.HomoPoint[T] {
	p, q := s.degreeU, s.degreeV
	spanU := s.knotsU.Span(p, u)
	spanV := s.knotsV.Span(q, v)
	nu := BasisFunctions(spanU, u, p, s.knotsU)
	nv := BasisFunctions(spanV, v, q, s.knotsV)

	var position internal.HomoPoint[T]
	for l := 0; l <= q; l++ {
		// sample the u isoline, then weight it in v
		var temp internal.HomoPoint[T]
		for k := 0; k <= p; k++ {
			temp = temp.AddScaled(s.controlPoints[spanU-p+k][spanV-q+l], nu[k])
		}
		position = position.AddScaled(temp, nv[l])
	}
	return position
}

// homoDerivatives differentiates the surface in homogeneous space
// (corresponds to algorithm A3.6 from The NURBS book).
func (s *NurbsSurface[T]) homoDerivatives(u, v T, order int) [][]internal.HomoPoint[T] {
	p, q := s.degreeU, s.degreeV
	du := min(order, p)
	dv := min(order, q)

	skl := make([][]internal.HomoPoint[T], order+1)
	for k := range skl {
		skl[k] = make([]internal.HomoPoint[T], order+1)
	}

	spanU := s.knotsU.Span(p, u)
	spanV := s.knotsV.Span(q, v)
	uders := BasisFunctionDerivatives(spanU, u, p, du, s.knotsU)
	vders := BasisFunctionDerivatives(spanV, v, q, dv, s.knotsV)

	temp := make([]internal.HomoPoint[T], q+1)
	for k := 0; k <= du; k++ {
		for c := range temp {
			temp[c] = internal.HomoPoint[T]{}
			for r := 0; r <= p; r++ {
				temp[c] = temp[c].AddScaled(s.controlPoints[spanU-p+r][spanV-q+c], uders[k][r])
			}
		}
		dd := min(order-k, dv)
		for l := 0; l <= dd; l++ {
			for c := 0; c <= q; c++ {
				skl[k][l] = skl[k][l].AddScaled(temp[c], vders[l][c])
			}
		}
	}
	return skl
}

// derivatives applies the quotient rule to the homogeneous derivatives
// (corresponds to algorithm A4.4 from The NURBS book).
func (s *NurbsSurface[T]) derivatives(u, v T, order int) [][]geom.Vec3[T] {
	ders := s.homoDerivatives(u, v, order)
	skl := make([][]geom.Vec3[T], order+1)

	for k := 0; k <= order; k++ {
		skl[k] = make([]geom.Vec3[T], order-k+1)
		for l := 0; l <= order-k; l++ {
			val := ders[k][l].Vec

			for j := 1; j <= l; j++ {
				val = val.Sub(skl[k][l-j].Scaled(T(binomial(l, j)) * ders[0][j].W))
			}
			for i := 1; i <= k; i++ {
				val = val.Sub(skl[k-i][l].Scaled(T(binomial(k, i)) * ders[i][0].W))

				var v2 geom.Vec3[T]
				for j := 1; j <= l; j++ {
					v2 = v2.Add(skl[k-i][l-j].Scaled(T(binomial(l, j)) * ders[i][j].W))
				}
				val = val.Sub(v2.Scaled(T(binomial(k, i))))
			}

			skl[k][l] = val.Scaled(1 / ders[0][0].W)
		}
	}
	return skl
}

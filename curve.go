package nurbs

import (
	"fmt"
	"slices"

	"github.com/alexozer/nurbs/geom"
	"github.com/alexozer/nurbs/internal"
)

// NurbsCurve is an immutable rational B-spline curve.
type NurbsCurve[T geom.Float] struct {
	// degree of curve
	degree int

	// control points in homogeneous form (w·P, w)
	controlPoints []internal.HomoPoint[T]

	// non-decreasing knot values, len(controlPoints)+degree+1 of them
	knots KnotVector[T]

	policy DomainPolicy
}

// NewNurbsCurve builds a validated curve. A nil weights slice gives every
// control point weight one. The inputs are copied.
func NewNurbsCurve[T geom.Float](degree int, points []geom.Vec3[T], weights []T, knots []T, opts ...Option) (*NurbsCurve[T], error) {
	if err := checkWeights(weights, len(points)); err != nil {
		return nil, err
	}
	if err := KnotVector[T](knots).Validate(degree, len(points)); err != nil {
		return nil, err
	}
	return NewNurbsCurveUnchecked(degree, points, weights, knots, opts...), nil
}

// NewNurbsCurveUnchecked builds a curve without validating its inputs.
func NewNurbsCurveUnchecked[T geom.Float](degree int, points []geom.Vec3[T], weights []T, knots []T, opts ...Option) *NurbsCurve[T] {
	o := buildOptions(opts)
	return &NurbsCurve[T]{
		degree:        degree,
		controlPoints: internal.Homogenize1d(points, weights),
		knots:         KnotVector[T](knots).Clone(),
		policy:        o.policy,
	}
}

func checkWeights[T geom.Float](weights []T, numPoints int) error {
	if weights == nil {
		return nil
	}
	if len(weights) != numPoints {
		return fmt.Errorf("%w: %d weights for %d control points", ErrInvalidWeight, len(weights), numPoints)
	}
	for i, w := range weights {
		if !(w > 0) || !geom.IsFinite(w) {
			return fmt.Errorf("%w: weight %d is %v", ErrInvalidWeight, i, w)
		}
	}
	return nil
}

func (c *NurbsCurve[T]) Degree() int { return c.degree }

func (c *NurbsCurve[T]) ControlPoints() []geom.Vec3[T] {
	return internal.Dehomogenize1d(c.controlPoints)
}

func (c *NurbsCurve[T]) Weights() []T {
	return internal.Weight1d(c.controlPoints)
}

func (c *NurbsCurve[T]) Knots() KnotVector[T] {
	return c.knots.Clone()
}

func (c *NurbsCurve[T]) DomainPolicy() DomainPolicy { return c.policy }

// WithDomainPolicy returns a copy of the curve using policy.
func (c *NurbsCurve[T]) WithDomainPolicy(policy DomainPolicy) *NurbsCurve[T] {
	out := c.clone()
	out.policy = policy
	return out
}

// Domain returns the parametric interval [U[p], U[m-p]].
func (c *NurbsCurve[T]) Domain() (lo, hi T) {
	return c.knots.Domain(c.degree)
}

// IsClosed reports whether the end points coincide within tolerance.
func (c *NurbsCurve[T]) IsClosed() bool {
	lo, hi := c.Domain()
	return c.point(lo).ApproxEqual(c.point(hi), geom.Tolerance[T]())
}

// clone is unexported since a curve is immutable to the client.
// Use it when control points and knots must not be shared.
func (c *NurbsCurve[T]) clone() *NurbsCurve[T] {
	return &NurbsCurve[T]{
		degree:        c.degree,
		controlPoints: slices.Clone(c.controlPoints),
		knots:         c.knots.Clone(),
		policy:        c.policy,
	}
}

func (c *NurbsCurve[T]) derive(degree int, pts []internal.HomoPoint[T], knots KnotVector[T]) *NurbsCurve[T] {
	return &NurbsCurve[T]{degree: degree, controlPoints: pts, knots: knots, policy: c.policy}
}

func (c *NurbsCurve[T]) param(u T) (T, error) {
	lo, hi := c.Domain()
	return checkParameter(u, lo, hi, c.policy)
}

// Evaluate computes the point at u.
func (c *NurbsCurve[T]) Evaluate(u T) (geom.Vec3[T], error) {
	u, err := c.param(u)
	if err != nil {
		return geom.Vec3[T]{}, err
	}
	return c.point(u), nil
}

// Derivatives computes the point and its first order derivatives at u.
// Element k of the result is the k-th derivative, element 0 the point.
func (c *NurbsCurve[T]) Derivatives(u T, order int) ([]geom.Vec3[T], error) {
	if order < 0 {
		return nil, fmt.Errorf("%w: negative derivative order %d", ErrInvalidDegree, order)
	}
	u, err := c.param(u)
	if err != nil {
		return nil, err
	}
	return c.derivatives(u, order), nil
}

// Tangent is the first derivative at u. It is not normalized.
func (c *NurbsCurve[T]) Tangent(u T) (geom.Vec3[T], error) {
	ders, err := c.Derivatives(u, 1)
	if err != nil {
		return geom.Vec3[T]{}, err
	}
	return ders[1], nil
}

// Transformed applies tr to the control points. Weights and knots are kept.
func (c *NurbsCurve[T]) Transformed(tr geom.Transform[T]) *NurbsCurve[T] {
	pts := make([]internal.HomoPoint[T], len(c.controlPoints))
	for i, hp := range c.controlPoints {
		pts[i] = internal.Homogenized(tr.TransformPoint(hp.Dehomogenized()), hp.W)
	}
	return c.derive(c.degree, pts, c.knots.Clone())
}

// point evaluates at an in-domain u
// (corresponds to algorithm A4.1 from The NURBS book, Piegl & Tiller 2nd edition).
func (c *NurbsCurve[T]) point(u T) geom.Vec3[T] {
	hp := c.homoPoint(u)
	return hp.Dehomogenized()
}

func (c *NurbsCurve[T]) homoPoint(u T) internal.HomoPoint[T] {
	span := c.knots.Span(c.degree, u)
	basis := BasisFunctions(span, u, c.degree, c.knots)

	var position internal.HomoPoint[T]
	for j, n := range basis {
		position = position.AddScaled(c.controlPoints[span-c.degree+j], n)
	}
	return position
}

// homoDerivatives differentiates the curve in homogeneous space
// (corresponds to algorithm A3.2 from The NURBS book). Orders above the
// degree are zero.
func (c *NurbsCurve[T]) homoDerivatives(u T, order int) []internal.HomoPoint[T] {
	p := c.degree
	du := min(order, p)
	span := c.knots.Span(p, u)
	nders := BasisFunctionDerivatives(span, u, p, du, c.knots)

	ck := make([]internal.HomoPoint[T], order+1)
	for k := 0; k <= du; k++ {
		for j := 0; j <= p; j++ {
			ck[k] = ck[k].AddScaled(c.controlPoints[span-p+j], nders[k][j])
		}
	}
	return ck
}

// derivatives applies the quotient rule to the homogeneous derivatives
// (corresponds to algorithm A4.2 from The NURBS book).
func (c *NurbsCurve[T]) derivatives(u T, order int) []geom.Vec3[T] {
	ders := c.homoDerivatives(u, order)
	ck := make([]geom.Vec3[T], order+1)
	for k := 0; k <= order; k++ {
		v := ders[k].Vec
		for i := 1; i <= k; i++ {
			v = v.Sub(ck[k-i].Scaled(T(binomial(k, i)) * ders[i].W))
		}
		ck[k] = v.Scaled(1 / ders[0].W)
	}
	return ck
}

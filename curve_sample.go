package nurbs

import "github.com/alexozer/nurbs/geom"

// CurvePoint is a sample of a curve together with its parameter.
type CurvePoint[T geom.Float] struct {
	U  T
	Pt geom.Vec3[T]
}

// midpointBias offsets the interior sample of adaptive sampling from the exact
// middle so symmetric curves such as S shapes are not mistaken for lines.
const midpointBias = 0.5 + 0.2*0.618033988749895

// RegularSample samples the curve at numSamples equally spaced parameters
// across its domain. At least two samples are returned.
func (c *NurbsCurve[T]) RegularSample(numSamples int) []CurvePoint[T] {
	lo, hi := c.Domain()
	return c.regularSampleRange(lo, hi, numSamples)
}

func (c *NurbsCurve[T]) regularSampleRange(start, end T, numSamples int) []CurvePoint[T] {
	if numSamples < 2 {
		numSamples = 2
	}

	samples := make([]CurvePoint[T], numSamples)
	step := (end - start) / T(numSamples-1)
	for i := range samples {
		u := start + step*T(i)
		if i == numSamples-1 {
			u = end
		}
		samples[i] = CurvePoint[T]{u, c.point(u)}
	}
	return samples
}

// Tessellate approximates the curve by a polyline whose segments deviate
// from the curve by roughly tol. A non-positive tol uses geom.Tolerance.
//
// A curve of degree one is returned as its control polygon.
func (c *NurbsCurve[T]) Tessellate(tol T) []CurvePoint[T] {
	if !(tol > 0) {
		tol = geom.Tolerance[T]()
	}

	if c.degree == 1 && c.knots.IsClamped(1) {
		samples := make([]CurvePoint[T], len(c.controlPoints))
		for i, hp := range c.controlPoints {
			samples[i] = CurvePoint[T]{c.knots[i+1], hp.Dehomogenized()}
		}
		return samples
	}

	lo, hi := c.Domain()
	return c.adaptiveSampleRange(lo, hi, tol, 0)
}

// maxSampleDepth bounds the recursion of adaptive curve sampling.
const maxSampleDepth = 24

// adaptiveSampleRange samples [start, end] at three points and recurses on
// both halves until the interior sample is collinear with the ends, following
// de Figueiredo, "Adaptive sampling of parametric curves".
func (c *NurbsCurve[T]) adaptiveSampleRange(start, end, tol T, depth int) []CurvePoint[T] {
	p1, p3 := c.point(start), c.point(end)
	mid := start + (end-start)*T(midpointBias)
	p2 := c.point(mid)

	// coincident ends make the collinearity test pass trivially, which
	// happens on closed loops
	diff := p1.Sub(p3)
	diff2 := p1.Sub(p2)
	loop := diff.Dot(diff) < tol && diff2.Dot(diff2) > tol

	if depth < maxSampleDepth && (loop || !threePointsAreCollinear(p1, p2, p3, tol)) {
		exactMid := start + (end-start)/2
		left := c.adaptiveSampleRange(start, exactMid, tol, depth+1)
		right := c.adaptiveSampleRange(exactMid, end, tol, depth+1)
		return append(left[:len(left)-1:len(left)-1], right...)
	}
	return []CurvePoint[T]{{start, p1}, {end, p3}}
}

// threePointsAreCollinear tests twice the squared area of the triangle
// p1 p2 p3 against tol, which needs no square roots or divisions.
//
//	         * p2
//	        / \
//	       /   \
//	      /     \
//	     * p1 -- * p3
func threePointsAreCollinear[T geom.Float](p1, p2, p3 geom.Vec3[T], tol T) bool {
	norm := p2.Sub(p1).Cross(p3.Sub(p1))
	return norm.Dot(norm) < tol
}

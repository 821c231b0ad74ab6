// Package nurbs is a parametric geometry engine built on Non-Uniform
// Rational B-Splines.
//
// It represents curves and surfaces by control points, weights, knot vectors
// and degree, evaluates points and derivatives, interpolates point sets,
// constructs surfaces (see the construct sub-package) and tessellates
// surfaces into triangle meshes with an adaptive, crack-free subdivision.
//
// Every type is generic over the floating-point precision:
//
//	crv, err := nurbs.Interpolate([]geom.Vec3[float64]{
//	    {0, 0, 0}, {1, 1, 0}, {2, 0, 0}, {3, 1, 0},
//	}, 3)
//	pt, err := crv.Evaluate(0.5)
//
// Curves and surfaces are immutable. Operations that change them, such as
// knot insertion, transformation or degree elevation, return new values, so
// a curve or surface may be shared between goroutines without locking.
//
// Logging is silent by default; see SetLogger.
package nurbs

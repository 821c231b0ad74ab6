package construct

import (
	"fmt"

	"github.com/alexozer/nurbs"
	"github.com/alexozer/nurbs/geom"
	"github.com/alexozer/nurbs/internal"
)

// LoftParameterization chooses the v site of every section of a loft.
type LoftParameterization int

const (
	// LoftUniform places section k at k/(n-1).
	LoftUniform LoftParameterization = iota
	// LoftChordLength spaces sections by the mean distance between
	// corresponding control points, normalized to [0, 1].
	LoftChordLength
)

func (p LoftParameterization) String() string {
	switch p {
	case LoftUniform:
		return "uniform"
	case LoftChordLength:
		return "chord-length"
	default:
		return fmt.Sprintf("LoftParameterization(%d)", int(p))
	}
}

// LoftOption configures Loft.
type LoftOption func(*loftConfig)

type loftConfig struct {
	parameterization LoftParameterization
	solver           nurbs.LinearSolver
}

// WithLoftParameterization selects how sections are spaced along v.
func WithLoftParameterization(mode LoftParameterization) LoftOption {
	return func(c *loftConfig) {
		c.parameterization = mode
	}
}

// WithLoftSolver replaces the linear solver of the v-direction fit.
func WithLoftSolver(s nurbs.LinearSolver) LoftOption {
	return func(c *loftConfig) {
		if s != nil {
			c.solver = s
		}
	}
}

// Loft blends an ordered set of section curves into a surface that follows
// the sections in u and interpolates them in v with the given degree. The
// degree is capped at len(curves)-1.
func Loft[T geom.Float](curves []*nurbs.NurbsCurve[T], degreeV int, opts ...LoftOption) (*nurbs.NurbsSurface[T], error) {
	srf, _, err := LoftWithParameters(curves, degreeV, opts...)
	return srf, err
}

// LoftWithParameters is Loft that also returns the v site of every section:
// Evaluate(u, params[k]) reproduces curves[k].Evaluate(u).
func LoftWithParameters[T geom.Float](curves []*nurbs.NurbsCurve[T], degreeV int, opts ...LoftOption) (srf *nurbs.NurbsSurface[T], params []T, err error) {
	cfg := loftConfig{solver: nurbs.LUSolver{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if len(curves) < 2 {
		return nil, nil, fmt.Errorf("%w: a loft needs at least 2 curves, got %d", nurbs.ErrIncompatibleCurves, len(curves))
	}
	if degreeV < 1 {
		return nil, nil, fmt.Errorf("%w: v degree %d is below 1", nurbs.ErrInvalidDegree, degreeV)
	}
	degreeV = min(degreeV, len(curves)-1)

	unified, err := nurbs.UnifyCurves(curves)
	if err != nil {
		return nil, nil, err
	}

	knotsU := unified[0].Knots()
	sections := make([][]geom.Vec3[T], len(unified))
	weights := make([][]T, len(unified))
	for k, crv := range unified {
		sections[k] = crv.ControlPoints()
		weights[k] = crv.Weights()
		if len(sections[k]) != len(sections[0]) || !sameKnots(crv.Knots(), knotsU) {
			return nil, nil, fmt.Errorf("%w: curve %d does not match curve 0 after unification", nurbs.ErrIncompatibleCurves, k)
		}
	}

	if params, err = loftParams(sections, cfg.parameterization); err != nil {
		return nil, nil, err
	}

	// One row per section holding its whole homogeneous control polygon,
	// so every column is fitted against the same factorization.
	numU := len(sections[0])
	rows := make([][]T, len(sections))
	for k, pts := range sections {
		row := make([]T, 0, 4*numU)
		for i, pt := range pts {
			c := internal.Homogenized(pt, weights[k][i]).Components()
			row = append(row, c[:]...)
		}
		rows[k] = row
	}

	knotsV, ctrl, err := nurbs.InterpolateRows(params, degreeV, rows, nurbs.WithSolver(cfg.solver))
	if err != nil {
		return nil, nil, err
	}

	points := make([][]geom.Vec3[T], numU)
	netWeights := make([][]T, numU)
	for i := range points {
		points[i] = make([]geom.Vec3[T], len(ctrl))
		netWeights[i] = make([]T, len(ctrl))
		for j, row := range ctrl {
			hp := internal.FromComponents([4]T(row[4*i : 4*i+4]))
			if !(hp.W > geom.Epsilon[T]()) {
				return nil, nil, fmt.Errorf("%w: lofted weight %v at (%d, %d) is not positive",
					nurbs.ErrDegenerateInterpolation, hp.W, i, j)
			}
			points[i][j] = hp.Dehomogenized()
			netWeights[i][j] = hp.W
		}
	}

	srf, err = nurbs.NewNurbsSurface(
		unified[0].Degree(), degreeV,
		points, netWeights,
		knotsU, knotsV,
		nurbs.WithDomainPolicy(curves[0].DomainPolicy()),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", nurbs.ErrDegenerateInterpolation, err)
	}

	nurbs.Logger().Debug("construct: lofted surface",
		"sections", len(curves),
		"degreeU", unified[0].Degree(),
		"degreeV", degreeV,
		"parameterization", cfg.parameterization,
	)
	return srf, params, nil
}

func loftParams[T geom.Float](sections [][]geom.Vec3[T], mode LoftParameterization) ([]T, error) {
	n := len(sections)
	params := make([]T, n)
	switch mode {
	case LoftUniform:
		for k := range params {
			params[k] = T(k) / T(n-1)
		}
		return params, nil
	case LoftChordLength:
		var total T
		for k := 1; k < n; k++ {
			var d T
			for i := range sections[k] {
				d += sections[k][i].Distance(sections[k-1][i])
			}
			total += d / T(len(sections[k]))
			params[k] = total
		}
		if !(total > geom.Epsilon[T]()) {
			return nil, fmt.Errorf("%w: all sections coincide", nurbs.ErrDegenerateInterpolation)
		}
		for k := range params {
			params[k] /= total
		}
		params[n-1] = 1
		return params, nil
	default:
		return nil, fmt.Errorf("%w: unknown loft parameterization %v", nurbs.ErrInvalidConfig, mode)
	}
}

func sameKnots[T geom.Float](a, b nurbs.KnotVector[T]) bool {
	if len(a) != len(b) {
		return false
	}
	tol := geom.Tolerance[T]()
	for i := range a {
		if geom.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

package nurbs

import (
	"fmt"
	"math"

	"github.com/alexozer/nurbs/geom"
	"github.com/alexozer/nurbs/internal/simdops"
)

// Parameterization selects how interpolation sites are derived from the
// spacing of the data points.
type Parameterization int

const (
	// ChordLength spaces sites proportionally to the distance between
	// consecutive points. This is the default.
	ChordLength Parameterization = iota
	// Centripetal spaces sites proportionally to the square root of the
	// distance, which reduces overshoot at sharp turns.
	Centripetal
)

func (p Parameterization) String() string {
	switch p {
	case ChordLength:
		return "chord-length"
	case Centripetal:
		return "centripetal"
	default:
		return fmt.Sprintf("Parameterization(%d)", int(p))
	}
}

// InterpolateOption configures Interpolate.
type InterpolateOption func(*interpolateConfig)

type interpolateConfig struct {
	parameterization Parameterization
	periodic         bool
	tangents         *[2]geom.Vec3[float64]
	solver           LinearSolver
	curveOpts        []Option
}

func buildInterpolateConfig(opts []InterpolateOption) interpolateConfig {
	cfg := interpolateConfig{solver: LUSolver{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.solver == nil {
		cfg.solver = LUSolver{}
	}
	return cfg
}

// WithParameterization selects the site spacing. The default is ChordLength.
func WithParameterization(mode Parameterization) InterpolateOption {
	return func(c *interpolateConfig) {
		c.parameterization = mode
	}
}

// WithPeriodic makes the interpolant a closed curve whose derivatives up to
// order degree-1 are continuous at the seam. The sites then always use
// chord length spacing including the closing chord.
func WithPeriodic() InterpolateOption {
	return func(c *interpolateConfig) {
		c.periodic = true
	}
}

// WithEndTangents prescribes the first derivative at both ends. Two extra
// control points are introduced to honor them.
func WithEndTangents[T geom.Float](start, end geom.Vec3[T]) InterpolateOption {
	return func(c *interpolateConfig) {
		c.tangents = &[2]geom.Vec3[float64]{geom.Cast[float64](start), geom.Cast[float64](end)}
	}
}

// WithSolver replaces the default LUSolver.
func WithSolver(s LinearSolver) InterpolateOption {
	return func(c *interpolateConfig) {
		c.solver = s
	}
}

// WithCurveOptions passes options to the constructed curve.
func WithCurveOptions(opts ...Option) InterpolateOption {
	return func(c *interpolateConfig) {
		c.curveOpts = append(c.curveOpts, opts...)
	}
}

// Parameterize assigns strictly increasing sites in [0, 1] to the points.
func Parameterize[T geom.Float](points []geom.Vec3[T], mode Parameterization) ([]T, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points, got %d", ErrDegenerateInterpolation, len(points))
	}
	return chordParams(points, mode, false)
}

// chordParams computes normalized cumulative chord sites. With closed set
// the closing chord from the last point back to the first is included, so
// the returned sites lie in [0, 1) and the period is one.
func chordParams[T geom.Float](points []geom.Vec3[T], mode Parameterization, closed bool) ([]T, error) {
	n := len(points)
	numChords := n - 1
	if closed {
		numChords = n
	}

	chords := make([]T, numChords)
	for i := range chords {
		d := points[(i+1)%n].Distance(points[i])
		if !(d > geom.Epsilon[T]()) {
			return nil, fmt.Errorf("%w: points %d and %d coincide", ErrDegenerateInterpolation, i, (i+1)%n)
		}
		if mode == Centripetal {
			d = geom.Sqrt(d)
		}
		chords[i] = d
	}

	ops := simdops.For[T]()
	total := ops.Sum(chords)

	params := make([]T, n)
	for i := 1; i < n; i++ {
		params[i] = params[i-1] + chords[i-1]
	}
	ops.Scale(params, params, 1/total)
	if !closed {
		params[n-1] = 1
	}
	return params, nil
}

// AveragedKnots builds a clamped knot vector for interpolating at params
// with the given degree by averaging consecutive sites (The NURBS Book,
// equation 9.8). It needs at least degree+1 sites.
func AveragedKnots[T geom.Float](params []T, degree int) (KnotVector[T], error) {
	if degree < 1 {
		return nil, fmt.Errorf("%w: degree %d is below 1", ErrInvalidDegree, degree)
	}
	if len(params) < degree+1 {
		return nil, fmt.Errorf("%w: degree %d needs at least %d sites, got %d",
			ErrDegenerateInterpolation, degree, degree+1, len(params))
	}
	return averagedKnots(params, degree, len(params), 1), nil
}

// averagedKnots returns a clamped vector for numPoints control points whose
// interior knots average windows of degree sites, starting at site first-1.
// Plain interpolation uses first = 1; end tangent interpolation, which adds
// two control points, uses first = 0.
func averagedKnots[T geom.Float](params []T, degree, numPoints, first int) KnotVector[T] {
	p := degree
	m := numPoints + p
	lo, hi := params[0], params[len(params)-1]
	ops := simdops.For[T]()

	kv := make(KnotVector[T], m+1)
	for i := 0; i <= p; i++ {
		kv[i] = lo
		kv[m-i] = hi
	}
	for j := p + 1; j < m-p; j++ {
		start := j - p - 1 + first
		kv[j] = ops.Mean(params[start : start+p])
	}
	return kv
}

// InterpolateRows fits coefficient rows of any dimension: it finds the
// control rows P of a clamped B-spline of the given degree on the averaged
// knot vector of params such that Σ N_j(params[i])·P[j] = rows[i].
// Only WithSolver is honored among the options.
//
// Curve interpolation passes xyz rows; lofting passes whole homogeneous
// control polygons flattened into one row per section.
func InterpolateRows[T geom.Float](params []T, degree int, rows [][]T, opts ...InterpolateOption) (KnotVector[T], [][]T, error) {
	cfg := buildInterpolateConfig(opts)
	if degree < 1 {
		return nil, nil, fmt.Errorf("%w: degree %d is below 1", ErrInvalidDegree, degree)
	}
	if len(params) != len(rows) {
		return nil, nil, fmt.Errorf("%w: %d sites for %d rows", ErrDegenerateInterpolation, len(params), len(rows))
	}
	if len(rows) < degree+1 {
		return nil, nil, fmt.Errorf("%w: degree %d needs at least %d points, got %d",
			ErrDegenerateInterpolation, degree, degree+1, len(rows))
	}
	for i := 1; i < len(params); i++ {
		if !(params[i] > params[i-1]) {
			return nil, nil, fmt.Errorf("%w: sites must be strictly increasing", ErrDegenerateInterpolation)
		}
	}

	n := len(rows)
	knots := averagedKnots(params, degree, n, 1)
	a := make([]T, 0, n*n)
	for _, u := range params {
		a = append(a, basisRow(u, degree, knots, n)...)
	}

	ctrl, err := solveRows(cfg.solver, a, rows)
	if err != nil {
		Logger().Debug("nurbs: interpolation system is singular", "degree", degree, "points", n, "err", err)
		return nil, nil, fmt.Errorf("%w: %w", ErrDegenerateInterpolation, err)
	}
	return knots, ctrl, nil
}

// Interpolate finds a curve of the given degree through every point.
func Interpolate[T geom.Float](points []geom.Vec3[T], degree int, opts ...InterpolateOption) (*NurbsCurve[T], error) {
	crv, _, err := InterpolateWithParameters(points, degree, opts...)
	return crv, err
}

// InterpolateWithParameters is Interpolate that also returns the site of
// every point: evaluating the curve at params[i] yields points[i].
func InterpolateWithParameters[T geom.Float](points []geom.Vec3[T], degree int, opts ...InterpolateOption) (crv *NurbsCurve[T], params []T, err error) {
	cfg := buildInterpolateConfig(opts)
	if degree < 1 {
		return nil, nil, fmt.Errorf("%w: degree %d is below 1", ErrInvalidDegree, degree)
	}
	if cfg.periodic && cfg.tangents != nil {
		return nil, nil, fmt.Errorf("%w: end tangents cannot be combined with periodic interpolation", ErrInvalidConfig)
	}

	var knots KnotVector[T]
	var ctrl [][]T
	switch {
	case cfg.periodic:
		knots, ctrl, params, err = interpolatePeriodic(points, degree, cfg)
	case cfg.tangents != nil:
		knots, ctrl, params, err = interpolateWithTangents(points, degree, cfg)
	default:
		if len(points) < degree+1 {
			return nil, nil, fmt.Errorf("%w: degree %d needs at least %d points, got %d",
				ErrDegenerateInterpolation, degree, degree+1, len(points))
		}
		if params, err = chordParams(points, cfg.parameterization, false); err != nil {
			return nil, nil, err
		}
		knots, ctrl, err = InterpolateRows(params, degree, vecRows(points), WithSolver(cfg.solver))
	}
	if err != nil {
		return nil, nil, err
	}

	pts := make([]geom.Vec3[T], len(ctrl))
	for i, row := range ctrl {
		pts[i] = geom.Vec3[T]{row[0], row[1], row[2]}
	}
	crv, err = NewNurbsCurve(degree, pts, nil, knots, cfg.curveOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrDegenerateInterpolation, err)
	}
	return crv, params, nil
}

func vecRows[T geom.Float](points []geom.Vec3[T]) [][]T {
	rows := make([][]T, len(points))
	for i, pt := range points {
		rows[i] = []T{pt[0], pt[1], pt[2]}
	}
	return rows
}

// interpolateWithTangents adds the two derivative conditions
//
//	-P[0]   + P[1]   = (U[p+1] - U[0]) / p · D0
//	-P[n+1] + P[n+2] = (U[m] - U[m-p-1]) / p · Dn
//
// to the n+1 point conditions (The NURBS Book, section 9.2.2).
func interpolateWithTangents[T geom.Float](points []geom.Vec3[T], degree int, cfg interpolateConfig) (KnotVector[T], [][]T, []T, error) {
	if len(points) < 2 {
		return nil, nil, nil, fmt.Errorf("%w: need at least 2 points, got %d", ErrDegenerateInterpolation, len(points))
	}
	if len(points)+2 < degree+1 {
		return nil, nil, nil, fmt.Errorf("%w: degree %d needs at least %d points with end tangents, got %d",
			ErrDegenerateInterpolation, degree, degree-1, len(points))
	}
	params, err := chordParams(points, cfg.parameterization, false)
	if err != nil {
		return nil, nil, nil, err
	}

	p := degree
	n := len(points) - 1
	numCtrl := n + 3
	m := numCtrl + p
	knots := averagedKnots(params, p, numCtrl, 0)

	d0 := geom.Cast[T](cfg.tangents[0]).Scaled((knots[p+1] - knots[0]) / T(p))
	dn := geom.Cast[T](cfg.tangents[1]).Scaled((knots[m] - knots[m-p-1]) / T(p))

	a := make([]T, 0, numCtrl*numCtrl)
	rows := make([][]T, 0, numCtrl)
	tangentRow := func(first int) []T {
		row := make([]T, numCtrl)
		row[first], row[first+1] = -1, 1
		return row
	}

	a = append(a, basisRow(params[0], p, knots, numCtrl)...)
	rows = append(rows, []T{points[0][0], points[0][1], points[0][2]})
	a = append(a, tangentRow(0)...)
	rows = append(rows, []T{d0[0], d0[1], d0[2]})
	for i := 1; i < n; i++ {
		a = append(a, basisRow(params[i], p, knots, numCtrl)...)
		rows = append(rows, []T{points[i][0], points[i][1], points[i][2]})
	}
	a = append(a, tangentRow(n+1)...)
	rows = append(rows, []T{dn[0], dn[1], dn[2]})
	a = append(a, basisRow(params[n], p, knots, numCtrl)...)
	rows = append(rows, []T{points[n][0], points[n][1], points[n][2]})

	ctrl, err := solveRows(cfg.solver, a, rows)
	if err != nil {
		Logger().Debug("nurbs: tangent interpolation system is singular", "degree", p, "points", n+1, "err", err)
		return nil, nil, nil, fmt.Errorf("%w: %w", ErrDegenerateInterpolation, err)
	}
	return knots, ctrl, params, nil
}

// interpolatePeriodic fits a closed curve through N points. The knot
// vector is unclamped with period one. For odd degrees the breakpoints sit
// at the sites, for even degrees halfway between them. The N×N system is
// cyclic: basis functions past the last point wrap onto the first degree
// columns, and the first degree control points are repeated at the end.
func interpolatePeriodic[T geom.Float](points []geom.Vec3[T], degree int, cfg interpolateConfig) (KnotVector[T], [][]T, []T, error) {
	// a closing duplicate of the first point is implied
	if n := len(points); n > 1 && points[0].ApproxEqual(points[n-1], geom.Epsilon[T]()) {
		points = points[:n-1]
	}
	p := degree
	count := len(points)
	if count < p+1 || count < 3 {
		return nil, nil, nil, fmt.Errorf("%w: periodic degree %d needs at least %d distinct points, got %d",
			ErrDegenerateInterpolation, p, max(p+1, 3), count)
	}

	sites, err := chordParams(points, ChordLength, true)
	if err != nil {
		return nil, nil, nil, err
	}

	// breakpoints of one period
	breaks := make([]T, count)
	if p%2 == 1 {
		copy(breaks, sites)
	} else {
		for i := range breaks {
			next := T(1)
			if i+1 < count {
				next = sites[i+1]
			}
			breaks[i] = (sites[i] + next) / 2
		}
		// shift the domain to start at zero; the first site then wraps to
		// the end of the period
		shift := breaks[0]
		for i := range breaks {
			breaks[i] -= shift
			sites[i] -= shift
		}
		sites[0] += 1
	}

	knots := make(KnotVector[T], count+2*p+1)
	for i := range knots {
		k := i - p
		period := math.Floor(float64(k) / float64(count))
		idx := k - int(period)*count
		knots[i] = breaks[idx] + T(period)
	}

	a := make([]T, count*count)
	for i, u := range sites {
		span := knots.Span(p, u)
		basis := BasisFunctions(span, u, p, knots)
		for r, nv := range basis {
			col := (span - p + r) % count
			a[i*count+col] += nv
		}
	}

	ctrl, err := solveRows(cfg.solver, a, vecRows(points))
	if err != nil {
		Logger().Debug("nurbs: periodic interpolation system is singular", "degree", p, "points", count, "err", err)
		return nil, nil, nil, fmt.Errorf("%w: %w", ErrDegenerateInterpolation, err)
	}
	for j := 0; j < p; j++ {
		ctrl = append(ctrl, ctrl[j])
	}
	return knots, ctrl, sites, nil
}

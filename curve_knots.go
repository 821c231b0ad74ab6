package nurbs

import (
	"fmt"
	"slices"

	"github.com/alexozer/nurbs/geom"
	"github.com/alexozer/nurbs/internal"
)

// InsertKnot inserts u up to times times without changing the shape of the
// curve. The multiplicity of u never exceeds the degree.
func (c *NurbsCurve[T]) InsertKnot(u T, times int) (*NurbsCurve[T], error) {
	knots, ins, err := c.knots.InsertKnot(c.degree, u, times)
	if err != nil {
		return nil, err
	}
	pts, err := ApplyKnotInsertion(ins, c.controlPoints, homoBlend[T])
	if err != nil {
		return nil, err
	}
	return c.derive(c.degree, pts, knots), nil
}

// Refine inserts a sorted collection of knots at once
// (corresponds to algorithm A5.4 from The NURBS book, Piegl & Tiller 2nd edition).
func (c *NurbsCurve[T]) Refine(knotsToInsert []T) (*NurbsCurve[T], error) {
	knots, pts, err := RefineKnots(c.knots, c.degree, c.controlPoints, knotsToInsert, homoBlend[T])
	if err != nil {
		return nil, err
	}
	return c.derive(c.degree, pts, knots), nil
}

// Split divides the curve at an interior parameter u into two curves whose
// union traces the original.
func (c *NurbsCurve[T]) Split(u T) (*NurbsCurve[T], *NurbsCurve[T], error) {
	lo, hi := c.Domain()
	eps := geom.Epsilon[T]()
	if !geom.IsFinite(u) || u <= lo+eps || u >= hi-eps {
		return nil, nil, &ParameterOutOfDomainError{U: float64(u), Min: float64(lo), Max: float64(hi)}
	}

	p := c.degree
	s := c.knots.Multiplicity(u)
	k := c.knots.Span(p, u)
	r := p + 1 - s

	toInsert := make([]T, r)
	for i := range toInsert {
		toInsert[i] = u
	}
	res, err := c.Refine(toInsert)
	if err != nil {
		return nil, nil, err
	}

	left := c.derive(p,
		slices.Clone(res.controlPoints[:k-s+1]),
		res.knots[:k+r+1].Clone())
	right := c.derive(p,
		slices.Clone(res.controlPoints[k-s+1:]),
		res.knots[k-s+1:].Clone())
	return left, right, nil
}

// Clamped converts a curve with an unclamped (periodic) knot vector into an
// equivalent curve whose end knots repeat degree+1 times. The curve passes
// through its first and last control points afterwards.
func (c *NurbsCurve[T]) Clamped() (*NurbsCurve[T], error) {
	p := c.degree
	if c.knots.IsClamped(p) {
		return c.clone(), nil
	}

	lo, hi := c.Domain()
	crv, err := c.InsertKnot(lo, p)
	if err != nil {
		return nil, err
	}
	if crv, err = crv.InsertKnot(hi, p); err != nil {
		return nil, err
	}

	eps := geom.Epsilon[T]()
	knots := crv.knots
	first := slices.IndexFunc(knots, func(k T) bool { return geom.Abs(k-lo) <= eps })
	last := len(knots) - 1
	for last > 0 && geom.Abs(knots[last]-hi) > eps {
		last--
	}

	start := first - 1
	if knots.Multiplicity(lo) > p {
		start = first
	}
	end := last + 1
	if knots.Multiplicity(hi) > p {
		end = last
	}

	outKnots := knots[start : end+1].Clone()
	outPts := slices.Clone(crv.controlPoints[start : end-p])
	for i := 0; i <= p; i++ {
		outKnots[i] = lo
		outKnots[len(outKnots)-1-i] = hi
	}
	return c.derive(p, outPts, outKnots), nil
}

// Reversed traces the same curve in the opposite direction.
func (c *NurbsCurve[T]) Reversed() *NurbsCurve[T] {
	pts := slices.Clone(c.controlPoints)
	slices.Reverse(pts)
	return c.derive(c.degree, pts, c.knots.Reversed())
}

// ElevateDegree raises the degree to target without changing the shape.
// Unclamped curves are clamped first
// (corresponds to algorithm A5.9 from The NURBS book, Piegl & Tiller 2nd edition).
func (c *NurbsCurve[T]) ElevateDegree(target int) (*NurbsCurve[T], error) {
	if target < c.degree {
		return nil, fmt.Errorf("%w: cannot elevate degree %d to %d", ErrInvalidDegree, c.degree, target)
	}
	if target == c.degree {
		return c.clone(), nil
	}

	crv := c
	if !c.knots.IsClamped(c.degree) {
		var err error
		if crv, err = c.Clamped(); err != nil {
			return nil, err
		}
	}
	pts, knots := elevateDegree(crv.degree, crv.knots, crv.controlPoints, target-crv.degree)
	return c.derive(target, pts, knots), nil
}

// elevateDegree raises a clamped curve by t degrees
// (corresponds to algorithm A5.9 from The NURBS Book, Piegl & Tiller 2nd edition).
//
// **params**
// + degree of the curve
// + clamped knot vector
// + homogeneous control points
// + number of degrees to raise by
//
// **returns**
// + the control points of the elevated curve
// + its knot vector
func elevateDegree[T geom.Float](p int, knots KnotVector[T], pw []internal.HomoPoint[T], t int) ([]internal.HomoPoint[T], KnotVector[T]) {
	n := len(pw) - 1
	m := n + p + 1
	ph := p + t
	ph2 := ph / 2

	bezalfs := zeros2d[T](ph+1, p+1)
	bpts := make([]internal.HomoPoint[T], p+1)
	ebpts := make([]internal.HomoPoint[T], ph+1)
	nextbpts := make([]internal.HomoPoint[T], max(p-1, 1))
	alfs := make([]T, max(p-1, 1))

	distinct := len(knots.Multiplicities())
	qw := make([]internal.HomoPoint[T], len(pw)+distinct*t)
	uh := make(KnotVector[T], len(knots)+distinct*t)

	// degree elevation coefficients of a single Bezier segment
	bezalfs[0][0] = 1
	bezalfs[ph][p] = 1
	for i := 1; i <= ph2; i++ {
		inv := 1 / T(binomial(ph, i))
		mpi := min(p, i)
		for j := max(0, i-t); j <= mpi; j++ {
			bezalfs[i][j] = inv * T(binomial(p, j)*binomial(t, i-j))
		}
	}
	for i := ph2 + 1; i < ph; i++ {
		mpi := min(p, i)
		for j := max(0, i-t); j <= mpi; j++ {
			bezalfs[i][j] = bezalfs[ph-i][p-j]
		}
	}

	mh := ph
	kind := ph + 1
	r := -1
	a := p
	b := p + 1
	cind := 1
	ua := knots[0]

	qw[0] = pw[0]
	for i := 0; i <= ph; i++ {
		uh[i] = ua
	}
	copy(bpts, pw[:p+1])

	for b < m {
		i := b
		for b < m && knots[b] == knots[b+1] {
			b++
		}
		mul := b - i + 1
		mh += mul + t
		ub := knots[b]
		oldr := r
		r = p - mul

		lbz := 1
		if oldr > 0 {
			lbz = (oldr + 2) / 2
		}
		rbz := ph
		if r > 0 {
			rbz = ph - (r+1)/2
		}

		// insert knot ub r times
		if r > 0 {
			numer := ub - ua
			for k := p; k > mul; k-- {
				alfs[k-mul-1] = numer / (knots[a+k] - ua)
			}
			for j := 1; j <= r; j++ {
				save := r - j
				s := mul + j
				for k := p; k >= s; k-- {
					bpts[k] = internal.HomoInterpolated(bpts[k-1], bpts[k], alfs[k-s])
				}
				nextbpts[save] = bpts[p]
			}
		}

		// degree elevate the Bezier segment
		for i := lbz; i <= ph; i++ {
			ebpts[i] = internal.HomoPoint[T]{}
			mpi := min(p, i)
			for j := max(0, i-t); j <= mpi; j++ {
				ebpts[i] = ebpts[i].AddScaled(bpts[j], bezalfs[i][j])
			}
		}

		// remove knot ua
		if oldr > 1 {
			first := kind - 2
			last := kind
			den := ub - ua
			bet := (ub - uh[kind-1]) / den
			for tr := 1; tr < oldr; tr++ {
				i := first
				j := last
				kj := j - kind + 1
				for j-i > tr {
					if i < cind {
						alf := (ub - uh[i]) / (ua - uh[i])
						qw[i] = internal.HomoInterpolated(qw[i-1], qw[i], alf)
					}
					if j >= lbz {
						if j-tr <= kind-ph+oldr {
							gam := (ub - uh[j-tr]) / den
							ebpts[kj] = internal.HomoInterpolated(ebpts[kj+1], ebpts[kj], gam)
						} else {
							ebpts[kj] = internal.HomoInterpolated(ebpts[kj+1], ebpts[kj], bet)
						}
					}
					i++
					j--
					kj--
				}
				first--
				last++
			}
		}

		if a != p {
			for i := 0; i < ph-oldr; i++ {
				uh[kind] = ua
				kind++
			}
		}
		for j := lbz; j <= rbz; j++ {
			qw[cind] = ebpts[j]
			cind++
		}

		if b < m {
			copy(bpts[:r], nextbpts[:max(r, 0)])
			for j := max(r, 0); j <= p; j++ {
				bpts[j] = pw[b-p+j]
			}
			a = b
			b++
			ua = ub
		} else {
			for i := 0; i <= ph; i++ {
				uh[kind+i] = ub
			}
		}
	}

	nh := mh - ph - 1
	return qw[:nh+1], uh[:mh+1]
}

// UnifyCurves brings curves onto a common degree, parametric domain and
// knot vector so their control points correspond one to one. Curves are
// elevated to the highest degree, clamped, reparameterized onto the domain
// of the first curve and refined onto the union of their knot vectors.
func UnifyCurves[T geom.Float](curves []*NurbsCurve[T]) ([]*NurbsCurve[T], error) {
	if len(curves) == 0 {
		return nil, fmt.Errorf("%w: no curves", ErrIncompatibleCurves)
	}

	maxDegree := 0
	for i, crv := range curves {
		if crv == nil {
			return nil, fmt.Errorf("%w: curve %d is nil", ErrIncompatibleCurves, i)
		}
		maxDegree = max(maxDegree, crv.degree)
	}

	unified := make([]*NurbsCurve[T], len(curves))
	for i, crv := range curves {
		clamped, err := crv.Clamped()
		if err != nil {
			return nil, err
		}
		if unified[i], err = clamped.ElevateDegree(maxDegree); err != nil {
			return nil, err
		}
	}

	lo, hi := unified[0].Domain()
	if !(hi-lo > geom.Epsilon[T]()) {
		return nil, fmt.Errorf("%w: degenerate domain [%v, %v]", ErrIncompatibleCurves, lo, hi)
	}
	merged := KnotVector[T](nil)
	for i, crv := range unified {
		cl, ch := crv.Domain()
		if !(ch-cl > geom.Epsilon[T]()) {
			return nil, fmt.Errorf("%w: curve %d has a degenerate domain", ErrIncompatibleCurves, i)
		}
		crv.knots = crv.knots.Rescaled(lo, hi)
		if merged == nil {
			merged = crv.knots.Clone()
		} else {
			merged = merged.Unify(crv.knots)
		}
	}

	for i, crv := range unified {
		rem := merged.Difference(crv.knots)
		refined, err := crv.Refine(rem)
		if err != nil {
			return nil, err
		}
		unified[i] = refined
	}

	Logger().Debug("nurbs: unified curves",
		"count", len(curves),
		"degree", maxDegree,
		"knots", len(merged),
	)
	return unified, nil
}

package nurbs

import (
	"fmt"
	"slices"

	"github.com/alexozer/nurbs/geom"
	"github.com/alexozer/nurbs/internal"
)

// DomainPolicy selects how evaluation treats parameters outside the domain.
type DomainPolicy int

const (
	// DomainClamp clamps the parameter into the domain. This is the default.
	DomainClamp DomainPolicy = iota
	// DomainStrict rejects the parameter with ErrParameterOutOfDomain.
	DomainStrict
)

func (p DomainPolicy) String() string {
	switch p {
	case DomainClamp:
		return "clamp"
	case DomainStrict:
		return "strict"
	default:
		return fmt.Sprintf("DomainPolicy(%d)", int(p))
	}
}

// KnotVector is a non-decreasing sequence of parameter values. For a curve
// of degree p with n+1 control points it holds m+1 = n+p+2 knots, and the
// parametric domain is [U[p], U[m-p]].
type KnotVector[T geom.Float] []T

// KnotMultiplicity is a distinct knot value and the number of times it
// occurs.
type KnotMultiplicity[T geom.Float] struct {
	Knot T
	Mult int
}

func (kv KnotVector[T]) Clone() KnotVector[T] {
	return slices.Clone(kv)
}

// Domain returns the parametric domain for the given degree.
func (kv KnotVector[T]) Domain(degree int) (lo, hi T) {
	return kv[degree], kv[len(kv)-1-degree]
}

// Span finds the knot span index i with U[i] <= u < U[i+1]
// (algorithm A2.1 from The NURBS Book, Piegl & Tiller 2nd edition).
//
// The right end of the domain maps to the last span, and parameters outside
// the domain are clamped to the first or last span.
func (kv KnotVector[T]) Span(degree int, u T) int {
	n := len(kv) - degree - 2
	if u >= kv[n+1] {
		return n
	}
	if u < kv[degree] {
		return degree
	}

	low, high := degree, n+1
	mid := (low + high) / 2
	for u < kv[mid] || u >= kv[mid+1] {
		if u < kv[mid] {
			high = mid
		} else {
			low = mid
		}
		mid = (low + high) / 2
	}
	return mid
}

// FindSpan is Span with the parameter checked against the domain first.
func (kv KnotVector[T]) FindSpan(degree int, u T, policy DomainPolicy) (int, error) {
	lo, hi := kv.Domain(degree)
	if _, err := checkParameter(u, lo, hi, policy); err != nil {
		return 0, err
	}
	return kv.Span(degree, u), nil
}

// checkParameter validates u against [lo, hi] and returns the value to
// evaluate at. NaN is rejected under every policy.
func checkParameter[T geom.Float](u, lo, hi T, policy DomainPolicy) (T, error) {
	if !geom.IsFinite(u) {
		return u, &ParameterOutOfDomainError{U: float64(u), Min: float64(lo), Max: float64(hi)}
	}
	eps := geom.Epsilon[T]()
	if u < lo || u > hi {
		if policy == DomainStrict && (u < lo-eps || u > hi+eps) {
			return u, &ParameterOutOfDomainError{U: float64(u), Min: float64(lo), Max: float64(hi)}
		}
		u = min(max(u, lo), hi)
	}
	return u, nil
}

// Multiplicities groups the knots into distinct values.
func (kv KnotVector[T]) Multiplicities() []KnotMultiplicity[T] {
	if len(kv) == 0 {
		return nil
	}
	eps := geom.Epsilon[T]()
	mults := []KnotMultiplicity[T]{{kv[0], 0}}
	cur := 0
	for _, knot := range kv {
		if geom.Abs(knot-mults[cur].Knot) > eps {
			mults = append(mults, KnotMultiplicity[T]{knot, 0})
			cur++
		}
		mults[cur].Mult++
	}
	return mults
}

// Multiplicity counts the knots equal to u.
func (kv KnotVector[T]) Multiplicity(u T) int {
	eps := geom.Epsilon[T]()
	s := 0
	for _, knot := range kv {
		if geom.Abs(knot-u) <= eps {
			s++
		}
	}
	return s
}

func (kv KnotVector[T]) IsNonDecreasing() bool {
	for i := 1; i < len(kv); i++ {
		if kv[i] < kv[i-1] {
			return false
		}
	}
	return true
}

// IsClamped reports whether both ends repeat degree+1 times.
func (kv KnotVector[T]) IsClamped(degree int) bool {
	if len(kv) < 2*(degree+1) {
		return false
	}
	eps := geom.Epsilon[T]()
	for _, knot := range kv[:degree+1] {
		if geom.Abs(knot-kv[0]) > eps {
			return false
		}
	}
	last := kv[len(kv)-1]
	for _, knot := range kv[len(kv)-degree-1:] {
		if geom.Abs(knot-last) > eps {
			return false
		}
	}
	return true
}

// Validate checks the knot vector against a degree and control point count.
func (kv KnotVector[T]) Validate(degree, numControlPoints int) error {
	if degree < 1 {
		return fmt.Errorf("%w: degree %d is below 1", ErrInvalidDegree, degree)
	}
	if numControlPoints <= degree {
		return fmt.Errorf("%w: degree %d needs at least %d control points, got %d",
			ErrInvalidDegree, degree, degree+1, numControlPoints)
	}
	if want := numControlPoints + degree + 1; len(kv) != want {
		return fmt.Errorf("%w: expected %d knots, got %d", ErrInvalidKnotVector, want, len(kv))
	}
	for _, knot := range kv {
		if !geom.IsFinite(knot) {
			return fmt.Errorf("%w: non-finite knot", ErrInvalidKnotVector)
		}
	}
	if !kv.IsNonDecreasing() {
		return fmt.Errorf("%w: knots must be non-decreasing", ErrInvalidKnotVector)
	}

	mults := kv.Multiplicities()
	for i, km := range mults {
		limit := degree
		if i == 0 || i == len(mults)-1 {
			limit = degree + 1
		}
		if km.Mult > limit {
			return fmt.Errorf("%w: knot %v has multiplicity %d, limit is %d",
				ErrInvalidKnotVector, km.Knot, km.Mult, limit)
		}
	}

	if lo, hi := kv.Domain(degree); !(hi-lo > geom.Epsilon[T]()) {
		return fmt.Errorf("%w: empty domain [%v, %v]", ErrInvalidKnotVector, lo, hi)
	}
	return nil
}

// Rescaled maps the knots affinely so the first knot becomes lo and the last
// becomes hi.
func (kv KnotVector[T]) Rescaled(lo, hi T) KnotVector[T] {
	out := make(KnotVector[T], len(kv))
	first, last := kv[0], kv[len(kv)-1]
	scale := (hi - lo) / (last - first)
	for i, knot := range kv {
		out[i] = lo + (knot-first)*scale
	}
	out[len(out)-1] = hi
	return out
}

// Reversed mirrors the knot spacing, keeping the first and last values.
func (kv KnotVector[T]) Reversed() KnotVector[T] {
	n := len(kv)
	out := make(KnotVector[T], n)
	for i := range out {
		out[i] = kv[0] + kv[n-1] - kv[n-1-i]
	}
	return out
}

// Unify merges two knot vectors. Every distinct value appears with the
// larger of its two multiplicities.
func (kv KnotVector[T]) Unify(other KnotVector[T]) KnotVector[T] {
	return KnotVector[T](internal.Set[T](kv).SortedUnion(internal.Set[T](other)))
}

// Difference lists the knots of kv missing from other, that is, the knots
// to insert into other to obtain kv.
func (kv KnotVector[T]) Difference(other KnotVector[T]) KnotVector[T] {
	return KnotVector[T](internal.Set[T](kv).SortedSub(internal.Set[T](other)))
}

// KnotInsertion records the coefficients of one knot insertion so that the
// same insertion can be replayed on several control point sequences, for
// instance every row of a surface.
type KnotInsertion[T geom.Float] struct {
	U            T
	Span         int
	Multiplicity int
	Times        int
	Degree       int
	NumPoints    int

	alphas [][]T
}

// InsertKnot inserts u times times
// (corresponds to algorithm A5.1 from The NURBS Book, Piegl & Tiller 2nd edition).
// times is reduced so the multiplicity of u never exceeds the degree; a
// knot already at full multiplicity is left alone.
//
// **params**
// + degree of the curve
// + parameter to insert, inside the domain
// + number of times to insert it
//
// **returns**
// + the refined knot vector
// + the insertion, to be applied to the control points with ApplyKnotInsertion
func (kv KnotVector[T]) InsertKnot(degree int, u T, times int) (KnotVector[T], KnotInsertion[T], error) {
	lo, hi := kv.Domain(degree)
	if _, err := checkParameter(u, lo, hi, DomainStrict); err != nil {
		return nil, KnotInsertion[T]{}, err
	}
	u = min(max(u, lo), hi)

	s := kv.Multiplicity(u)
	if s > 0 {
		// snap to the stored value so that the vector stays non-decreasing
		for _, knot := range kv {
			if geom.Abs(knot-u) <= geom.Epsilon[T]() {
				u = knot
				break
			}
		}
	}
	r := min(times, degree-s)

	ins := KnotInsertion[T]{
		U:            u,
		Multiplicity: s,
		Degree:       degree,
		NumPoints:    len(kv) - degree - 1,
	}
	if r <= 0 {
		return kv.Clone(), ins, nil
	}

	// last index with kv[k] <= u
	k, _ := slices.BinarySearchFunc(kv, u, func(knot, target T) int {
		if knot <= target {
			return -1
		}
		return 1
	})
	k--

	ins.Span = k
	ins.Times = r
	ins.alphas = make([][]T, r)
	for j := 1; j <= r; j++ {
		L := k - degree + j
		row := make([]T, degree-j-s+1)
		for i := range row {
			row[i] = (u - kv[L+i]) / (kv[i+k+1] - kv[L+i])
		}
		ins.alphas[j-1] = row
	}

	out := make(KnotVector[T], 0, len(kv)+r)
	out = append(out, kv[:k+1]...)
	for i := 0; i < r; i++ {
		out = append(out, u)
	}
	out = append(out, kv[k+1:]...)
	return out, ins, nil
}

// ApplyKnotInsertion maps a control point sequence onto the knot vector
// produced by the insertion. blend(a, b, t) must return (1-t)·a + t·b.
func ApplyKnotInsertion[T geom.Float, P any](ins KnotInsertion[T], pts []P, blend func(a, b P, t T) P) ([]P, error) {
	if len(pts) != ins.NumPoints {
		return nil, fmt.Errorf("%w: insertion expects %d control points, got %d",
			ErrInvalidKnotVector, ins.NumPoints, len(pts))
	}
	if ins.Times == 0 {
		return slices.Clone(pts), nil
	}

	p, k, s, r := ins.Degree, ins.Span, ins.Multiplicity, ins.Times
	q := make([]P, len(pts)+r)
	copy(q[:k-p+1], pts[:k-p+1])
	copy(q[k-s+r:], pts[k-s:])

	rw := slices.Clone(pts[k-p : k-s+1])
	var L int
	for j := 1; j <= r; j++ {
		L = k - p + j
		for i, alpha := range ins.alphas[j-1] {
			rw[i] = blend(rw[i], rw[i+1], alpha)
		}
		q[L] = rw[0]
		q[k+r-j-s] = rw[p-j-s]
	}
	for i := L + 1; i < k-s; i++ {
		q[i] = rw[i-L]
	}
	return q, nil
}

// RefineKnots inserts every value of x at once
// (corresponds to algorithm A5.4 from The NURBS Book, Piegl & Tiller 2nd edition).
//
// **params**
// + knot vector
// + degree
// + control points, of any type blend can combine
// + knots to insert, sorted and inside the domain
// + affine combination of two control points
//
// **returns**
// + the refined knot vector
// + the new control points
func RefineKnots[T geom.Float, P any](knots KnotVector[T], degree int, pts []P, x []T, blend func(a, b P, t T) P) (KnotVector[T], []P, error) {
	if len(x) == 0 {
		return knots.Clone(), slices.Clone(pts), nil
	}
	if len(pts)+degree+1 != len(knots) {
		return nil, nil, fmt.Errorf("%w: expected %d knots, got %d",
			ErrInvalidKnotVector, len(pts)+degree+1, len(knots))
	}
	if !slices.IsSorted(x) {
		return nil, nil, fmt.Errorf("%w: refinement knots must be sorted", ErrInvalidKnotVector)
	}
	lo, hi := knots.Domain(degree)
	for _, u := range []T{x[0], x[len(x)-1]} {
		if _, err := checkParameter(u, lo, hi, DomainStrict); err != nil {
			return nil, nil, err
		}
	}

	p := degree
	n := len(pts) - 1
	m := n + p + 1
	r := len(x) - 1

	a := knots.Span(p, x[0])
	b := knots.Span(p, x[r]) + 1

	qw := make([]P, n+r+2)
	ubar := make(KnotVector[T], m+r+2)

	copy(qw[:a-p+1], pts[:a-p+1])
	for j := b - 1; j <= n; j++ {
		qw[j+r+1] = pts[j]
	}
	copy(ubar[:a+1], knots[:a+1])
	for j := b + p; j <= m; j++ {
		ubar[j+r+1] = knots[j]
	}

	i := b + p - 1
	k := b + p + r
	for j := r; j >= 0; j-- {
		for x[j] <= knots[i] && i > a {
			qw[k-p-1] = pts[i-p-1]
			ubar[k] = knots[i]
			k--
			i--
		}
		qw[k-p-1] = qw[k-p]
		for l := 1; l <= p; l++ {
			ind := k - p + l
			alfa := ubar[k+l] - x[j]
			if alfa == 0 {
				qw[ind-1] = qw[ind]
			} else {
				alfa /= ubar[k+l] - knots[i-p+l]
				qw[ind-1] = blend(qw[ind], qw[ind-1], alfa)
			}
		}
		ubar[k] = x[j]
		k--
	}
	return ubar, qw, nil
}

func homoBlend[T geom.Float](a, b internal.HomoPoint[T], t T) internal.HomoPoint[T] {
	return internal.HomoInterpolated(a, b, t)
}

package internal

import "github.com/alexozer/nurbs/geom"

// Ray is a half line from Origin along Dir.
type Ray[T geom.Float] struct {
	Origin, Dir geom.Vec3[T]
}

// Intersect finds the parameters of the closest approach of two supporting
// lines, r.Origin + t0·r.Dir and o.Origin + t1·o.Dir. ok is false when the
// lines are parallel.
func (r Ray[T]) Intersect(o Ray[T]) (t0, t1 T, ok bool) {
	dab := r.Dir.Dot(o.Dir)
	daa := r.Dir.Dot(r.Dir)
	dbb := o.Dir.Dot(o.Dir)
	div := daa*dbb - dab*dab
	if geom.Abs(div) < geom.Epsilon[T]() {
		return 0, 0, false
	}

	d := r.Origin.Sub(o.Origin)
	dba := o.Dir.Dot(d)
	daab := r.Dir.Dot(d)

	t0 = (dab*dba - dbb*daab) / div
	t1 = (daa*dba - dab*daab) / div
	return t0, t1, true
}

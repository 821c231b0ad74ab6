package internal

import "github.com/alexozer/nurbs/geom"

// Set is a sorted multiset of parameter values. Two values closer than
// geom.Epsilon are considered equal.
type Set[T geom.Float] []T

// SortedUnion merges two sorted multisets. Equal elements are matched one
// to one, so each value appears with the larger of its two multiplicities.
func (s Set[T]) SortedUnion(o Set[T]) Set[T] {
	merged := make(Set[T], 0, max(len(s), len(o)))
	eps := geom.Epsilon[T]()

	var i, j int
	for i < len(s) || j < len(o) {
		switch {
		case i >= len(s):
			merged = append(merged, o[j])
			j++
		case j >= len(o):
			merged = append(merged, s[i])
			i++
		case geom.Abs(s[i]-o[j]) < eps:
			merged = append(merged, s[i])
			i++
			j++
		case s[i] > o[j]:
			merged = append(merged, o[j])
			j++
		default:
			merged = append(merged, s[i])
			i++
		}
	}
	return merged
}

// SortedSub removes the elements of o from s one to one. s is expected to
// be a superset of o.
func (s Set[T]) SortedSub(o Set[T]) Set[T] {
	result := make(Set[T], 0, len(s))
	eps := geom.Epsilon[T]()

	var i, j int
	for i < len(s) {
		for j < len(o) && o[j] < s[i]-eps {
			j++
		}
		if j < len(o) && geom.Abs(s[i]-o[j]) < eps {
			i++
			j++
			continue
		}
		result = append(result, s[i])
		i++
	}
	return result
}

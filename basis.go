package nurbs

import "github.com/alexozer/nurbs/geom"

// BasisFunctions computes the degree+1 non-vanishing basis functions
// N[span-degree..span] at u
// (corresponds to algorithm A2.2 from The NURBS Book, Piegl & Tiller 2nd edition).
//
// **params**
// + knot span index, as returned by KnotVector.Span
// + parameter
// + degree of the basis
// + knot vector
//
// **returns**
// + the non-vanishing basis function values, which sum to one
func BasisFunctions[T geom.Float](span int, u T, degree int, knots KnotVector[T]) []T {
	n := make([]T, degree+1)
	left := make([]T, degree+1)
	right := make([]T, degree+1)

	n[0] = 1
	for j := 1; j <= degree; j++ {
		left[j] = u - knots[span+1-j]
		right[j] = knots[span+j] - u
		var saved T
		for r := 0; r < j; r++ {
			temp := n[r] / (right[r+1] + left[j-r])
			n[r] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		n[j] = saved
	}
	return n
}

// BasisFunctionDerivatives computes the non-vanishing basis functions and
// their derivatives up to order
// (corresponds to algorithm A2.3 from The NURBS Book, Piegl & Tiller 2nd edition).
//
// **returns**
// + ders[k][j], the k-th derivative of N[span-degree+j]. Rows above the
// degree are zero.
func BasisFunctionDerivatives[T geom.Float](span int, u T, degree, order int, knots KnotVector[T]) [][]T {
	p := degree
	ndu := zeros2d[T](p+1, p+1)
	left := make([]T, p+1)
	right := make([]T, p+1)

	ndu[0][0] = 1
	for j := 1; j <= p; j++ {
		left[j] = u - knots[span+1-j]
		right[j] = knots[span+j] - u
		var saved T
		for r := 0; r < j; r++ {
			ndu[j][r] = right[r+1] + left[j-r]
			temp := ndu[r][j-1] / ndu[j][r]
			ndu[r][j] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		ndu[j][j] = saved
	}

	ders := zeros2d[T](order+1, p+1)
	for j := 0; j <= p; j++ {
		ders[0][j] = ndu[j][p]
	}

	n := min(order, p)
	a := zeros2d[T](2, p+1)
	for r := 0; r <= p; r++ {
		s1, s2 := 0, 1
		a[0][0] = 1

		for k := 1; k <= n; k++ {
			var d T
			rk := r - k
			pk := p - k

			if r >= k {
				a[s2][0] = a[s1][0] / ndu[pk+1][rk]
				d = a[s2][0] * ndu[rk][pk]
			}

			j1 := -rk
			if rk >= -1 {
				j1 = 1
			}
			j2 := p - r
			if r-1 <= pk {
				j2 = k - 1
			}

			for j := j1; j <= j2; j++ {
				a[s2][j] = (a[s1][j] - a[s1][j-1]) / ndu[pk+1][rk+j]
				d += a[s2][j] * ndu[rk+j][pk]
			}

			if r <= pk {
				a[s2][k] = -a[s1][k-1] / ndu[pk+1][r]
				d += a[s2][k] * ndu[r][pk]
			}

			ders[k][r] = d
			s1, s2 = s2, s1
		}
	}

	acc := p
	for k := 1; k <= n; k++ {
		for j := 0; j <= p; j++ {
			ders[k][j] *= T(acc)
		}
		acc *= p - k
	}
	return ders
}

// basisRow evaluates all n+1 basis functions at u, zero outside the span.
func basisRow[T geom.Float](u T, degree int, knots KnotVector[T], numControlPoints int) []T {
	row := make([]T, numControlPoints)
	span := knots.Span(degree, u)
	copy(row[span-degree:], BasisFunctions(span, u, degree, knots))
	return row
}

func zeros2d[T geom.Float](n, m int) [][]T {
	result := make([][]T, n)
	for i := range result {
		result[i] = make([]T, m)
	}
	return result
}

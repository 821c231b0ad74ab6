package nurbs

// maxBinomial bounds the precomputed table. Derivative orders above it are
// computed directly.
const maxBinomial = 32

// binomTable holds Pascal's triangle. It is filled once at init and only
// read afterwards, so evaluation is safe from concurrent goroutines.
var binomTable [maxBinomial + 1][maxBinomial + 1]float64

func init() {
	for n := 0; n <= maxBinomial; n++ {
		binomTable[n][0] = 1
		for k := 1; k <= n; k++ {
			binomTable[n][k] = binomTable[n-1][k-1] + binomTable[n-1][k]
		}
	}
}

func binomial(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	if n <= maxBinomial {
		return binomTable[n][k]
	}
	return binomialNoCache(n, k)
}

func binomialNoCache(n, k int) float64 {
	if k == 0 {
		return 1
	}
	if n == 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}

	r := 1.0
	for d := 1; d <= k; d++ {
		r *= float64(n) / float64(d)
		n--
	}
	return r
}

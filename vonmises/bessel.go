package vonmises

import "math"

// seriesLimit is the argument above which I0e switches from the power series
// to the asymptotic expansion. Both agree to ~1e-15 relative around it.
const seriesLimit = 20.0

// I0 returns the modified Bessel function of the first kind of order zero.
// It overflows to +Inf for |x| above ~713.
func I0(x float64) float64 {
	x = math.Abs(x)
	if x <= seriesLimit {
		return i0Series(x)
	}
	return math.Exp(x) * i0eAsymptotic(x)
}

// I0e returns the exponentially scaled Bessel function exp(-|x|)·I0(x).
// It is finite for every finite x.
func I0e(x float64) float64 {
	x = math.Abs(x)
	if x <= seriesLimit {
		return i0Series(x) * math.Exp(-x)
	}
	return i0eAsymptotic(x)
}

// i0Series sums Σ ((x/2)^k / k!)², which converges for every x.
func i0Series(x float64) float64 {
	if math.IsNaN(x) {
		return math.NaN()
	}
	q := x * x / 4
	sum, term := 1.0, 1.0
	for k := 1; k < 500; k++ {
		term *= q / float64(k*k)
		sum += term
		if term < sum*1e-17 {
			break
		}
	}
	return sum
}

// i0eAsymptotic evaluates the large-argument expansion
// I0(x)·exp(-x) ≈ 1/√(2πx) · Σ ((2k-1)!!)² / (k!·(8x)^k).
// The series is truncated at its smallest term.
func i0eAsymptotic(x float64) float64 {
	if math.IsInf(x, 1) {
		return 0
	}
	sum, term := 1.0, 1.0
	for k := 1; k < 200; k++ {
		odd := float64(2*k - 1)
		next := term * odd * odd / (float64(k) * 8 * x)
		if next >= term {
			break
		}
		term = next
		sum += term
		if term < sum*1e-17 {
			break
		}
	}
	return sum / math.Sqrt(2*math.Pi*x)
}

// Package vonmises evaluates the Von Mises distribution, the circular
// analogue of the normal distribution.
//
// The density with mean direction μ and concentration κ is
//
//	f(α; μ, κ) = exp(κ·cos(α−μ)) / (2π·I0(κ))
//
// It is computed as exp(κ·cos(α−μ)−|κ|) / (2π·I0e(κ)), which is the same
// function but stays finite for large κ.
package vonmises

import "math"

// ValidKappa reports whether k is a usable concentration: finite and >= 0.
func ValidKappa(k float64) bool {
	return k >= 0 && !math.IsInf(k, 1)
}

// PDF returns the Von Mises density at alpha for mean direction mu and
// concentration kappa. Kappa is not validated; see ValidKappa.
func PDF(alpha, mu, kappa float64) float64 {
	return NewKernel(kappa).At(alpha, mu)
}

// Kernel is a Von Mises density with a fixed concentration. The normalizing
// constant is computed once so a kernel can be centered at many samples.
type Kernel struct {
	kappa float64
	shift float64 // |κ|, cancels the exp(|κ|) folded out of I0e
	norm  float64 // 1 / (2π·I0e(κ))
}

// NewKernel creates a kernel with concentration kappa.
func NewKernel(kappa float64) Kernel {
	return Kernel{
		kappa: kappa,
		shift: math.Abs(kappa),
		norm:  1 / (2 * math.Pi * I0e(kappa)),
	}
}

// Kappa returns the kernel's concentration.
func (k Kernel) Kappa() float64 {
	return k.kappa
}

// At returns the density at alpha of the kernel centered at mu.
func (k Kernel) At(alpha, mu float64) float64 {
	return math.Exp(k.kappa*math.Cos(alpha-mu)-k.shift) * k.norm
}

// Fill writes the kernel centered at mu, evaluated at every point of grid,
// into dst. dst and grid must have the same length.
func (k Kernel) Fill(dst, grid []float64, mu float64) {
	if len(dst) != len(grid) {
		panic("vonmises: length mismatch")
	}
	for i, a := range grid {
		dst[i] = math.Exp(k.kappa*math.Cos(a-mu)-k.shift) * k.norm
	}
}

// Package glm builds HRF-convolved design matrices from event tables and fits
// ordinary-least-squares regressions of measured BOLD signal against them.
package glm

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// hrfLength is the support of the canonical kernel in seconds. The response
// has returned to baseline well before 32s.
const hrfLength = 32.0

// CanonicalHRF samples the canonical double-gamma hemodynamic response
// function on a grid with spacing dt seconds: the difference of a Gamma(6,1)
// density (peak ~5s) and a Gamma(16,1) density (undershoot ~15s) scaled by
// 1/6, normalized to unit peak.
func CanonicalHRF(dt float64) []float64 {
	peak := distuv.Gamma{Alpha: 6, Beta: 1}
	undershoot := distuv.Gamma{Alpha: 16, Beta: 1}

	n := int(hrfLength/dt) + 1
	kernel := make([]float64, n)
	maxVal := 0.0
	for i := range kernel {
		t := float64(i) * dt
		kernel[i] = peak.Prob(t) - undershoot.Prob(t)/6
		if kernel[i] > maxVal {
			maxVal = kernel[i]
		}
	}
	for i := range kernel {
		kernel[i] /= maxVal
	}
	return kernel
}

// convolve returns the first len(signal) samples of signal * kernel.
func convolve(signal, kernel []float64) []float64 {
	out := make([]float64, len(signal))
	for i := range out {
		var sum float64
		for j := 0; j < len(kernel) && j <= i; j++ {
			sum += kernel[j] * signal[i-j]
		}
		out[i] = sum
	}
	return out
}

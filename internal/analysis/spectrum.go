package analysis

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/sominlee1211/simsopt/internal/tracing"
)

// Resample linearly interpolates one state component of an adaptively
// sampled trajectory onto a uniform grid of n points, returning the series
// and its time step. Samples must be ordered by time.
func Resample(samples []tracing.Sample, component, n int) ([]float64, float64) {
	if len(samples) < 2 || n < 2 {
		return nil, 0
	}
	t0 := samples[0].T
	t1 := samples[len(samples)-1].T
	dt := (t1 - t0) / float64(n-1)

	series := make([]float64, n)
	j := 0
	for i := 0; i < n; i++ {
		t := t0 + float64(i)*dt
		for j < len(samples)-2 && samples[j+1].T < t {
			j++
		}
		a, b := samples[j], samples[j+1]
		frac := 0.0
		if b.T > a.T {
			frac = (t - a.T) / (b.T - a.T)
		}
		series[i] = a.Y[component] + frac*(b.Y[component]-a.Y[component])
	}
	return series, dt
}

// PowerSpectrum returns the magnitude of the one-sided discrete Fourier
// transform of a uniformly sampled series.
func PowerSpectrum(series []float64) []float64 {
	fft := fourier.NewFFT(len(series))
	coeffs := fft.Coefficients(nil, series)
	ps := make([]float64, len(coeffs))
	for i, c := range coeffs {
		ps[i] = cmplx.Abs(c)
	}
	return ps
}

// DominantFrequency returns the frequency of the strongest non-constant
// spectral component of a series sampled at interval dt.
func DominantFrequency(series []float64, dt float64) float64 {
	if len(series) < 4 || dt <= 0 {
		return 0
	}
	ps := PowerSpectrum(series)
	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	return float64(best) / (float64(len(series)) * dt)
}

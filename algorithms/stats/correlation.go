package stats

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// CorrelationResult contains cross-correlation analysis results
type CorrelationResult struct {
	Correlations []float64 `json:"correlations"` // Correlation per lag
	Lags         []int     `json:"lags"`         // Lag values, positive = first signal delayed

	PeakCorrelation float64 `json:"peak_correlation"`
	PeakLag         int     `json:"peak_lag"`
}

// CrossCorrelation computes normalized cross-correlation between two signals.
// Short signals use the direct time-domain form; long signals switch to the
// FFT-based frequency-domain form.
type CrossCorrelation struct {
	maxLag       int
	fftThreshold int
}

// NewCrossCorrelation creates a cross-correlation calculator. maxLag bounds
// the lag search; maxLag <= 0 searches all lags.
func NewCrossCorrelation(maxLag int) *CrossCorrelation {
	return &CrossCorrelation{
		maxLag:       maxLag,
		fftThreshold: 1000,
	}
}

// Compute calculates the normalized cross-correlation of a against b and the
// peak lag. A positive peak lag means a's content occurs later than b's.
func (cc *CrossCorrelation) Compute(a, b []float64) (*CorrelationResult, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, fmt.Errorf("empty signals provided")
	}

	maxLag := cc.maxLag
	limit := max(len(a), len(b)) - 1
	if maxLag <= 0 || maxLag > limit {
		maxLag = limit
	}

	var full []float64
	if max(len(a), len(b)) >= cc.fftThreshold {
		full = crossCorrelateFFT(a, b)
	} else {
		full = crossCorrelateDirect(a, b)
	}

	norm := math.Sqrt(energy(a) * energy(b))
	if norm == 0 {
		return nil, fmt.Errorf("zero-energy signal provided")
	}

	// full[k] holds lag k-(len(b)-1), k in [0, len(a)+len(b)-2]
	center := len(b) - 1
	result := &CorrelationResult{
		PeakCorrelation: math.Inf(-1),
	}

	for lag := -maxLag; lag <= maxLag; lag++ {
		idx := center + lag
		if idx < 0 || idx >= len(full) {
			continue
		}

		corr := full[idx] / norm
		result.Correlations = append(result.Correlations, corr)
		result.Lags = append(result.Lags, lag)

		if corr > result.PeakCorrelation {
			result.PeakCorrelation = corr
			result.PeakLag = lag
		}
	}

	return result, nil
}

// crossCorrelateDirect computes the full linear cross-correlation in the
// time domain.
func crossCorrelateDirect(a, b []float64) []float64 {
	n := len(a) + len(b) - 1
	full := make([]float64, n)

	for k := range full {
		lag := k - (len(b) - 1)
		sum := 0.0
		for i := range a {
			j := i - lag
			if j >= 0 && j < len(b) {
				sum += a[i] * b[j]
			}
		}
		full[k] = sum
	}

	return full
}

// crossCorrelateFFT computes the same correlation via the frequency domain
// using mjibson/go-dsp, which handles non-power-of-2 sizes.
func crossCorrelateFFT(a, b []float64) []float64 {
	n := len(a) + len(b) - 1

	paddedA := make([]float64, n)
	copy(paddedA, a)
	paddedB := make([]float64, n)
	copy(paddedB, b)

	specA := fft.FFTReal(paddedA)
	specB := fft.FFTReal(paddedB)

	product := make([]complex128, n)
	for i := range product {
		product[i] = specA[i] * cmplx.Conj(specB[i])
	}

	inverse := fft.IFFT(product)

	// The circular result places negative lags at the tail; rotate so index
	// k corresponds to lag k-(len(b)-1).
	full := make([]float64, n)
	for k := range full {
		lag := k - (len(b) - 1)
		idx := lag
		if idx < 0 {
			idx += n
		}
		full[k] = real(inverse[idx])
	}

	return full
}

func energy(signal []float64) float64 {
	sum := 0.0
	for _, v := range signal {
		sum += v * v
	}
	return sum
}

package analyzers

import (
	"context"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/stat"

	"github.com/neuronlabs/tvb/arrays"
	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/config"
	"github.com/neuronlabs/tvb/datatypes"
	"github.com/neuronlabs/tvb/errors"
)

// CoherenceParams are the parameters of the node coherence analysis.
type CoherenceParams struct {
	// NFFT is the number of data points of each Welch block.
	NFFT    int
	Workers int
}

// CoherenceParamsFromConfig gets the coherence parameters from the config.
func CoherenceParamsFromConfig(c *config.Analyzers) CoherenceParams {
	return CoherenceParams{NFFT: c.Coherence.NFFT, Workers: c.Workers}
}

// Coherence computes the magnitude squared coherence |Pxy|^2 / (Pxx * Pyy) of each pair of the nodes. The spectral
// densities are estimated with the Welch method using the Hann windowed, detrended blocks of NFFT points with 50% overlap.
// The series shorter than NFFT is analyzed as a single block.
func Coherence(ctx context.Context, ts datatypes.TimeSeriesData, params CoherenceParams) (*datatypes.CoherenceSpectrum, error) {
	t, err := input(ts, 2)
	if err != nil {
		return nil, err
	}
	nfft := params.NFFT
	if nfft < 2 {
		return nil, errors.NewDetf(class.AnalyzerParameter, "NFFT must be greater than 1, is: %d", nfft)
	}
	if nfft > t.NrTimePoints {
		logger.Warningf("NFFT: %d is greater than the number of time points: %d", nfft, t.NrTimePoints)
		nfft = t.NrTimePoints
	}
	nFreq := nfft/2 + 1
	step := nfft / 2
	if step == 0 {
		step = 1
	}
	var starts []int
	for s := 0; s+nfft <= t.NrTimePoints; s += step {
		starts = append(starts, s)
	}

	nodes := t.NrSpaceNodes
	shape := []int{nodes, nodes, nFreq, t.NrStateVariables, t.NrModes}
	out := arrays.NewFloat(shape)

	err = forEachSlice(ctx, t, params.Workers, func(ctx context.Context, sv, mode int) error {
		fft := fourier.NewFFT(nfft)
		xs := make([]float64, nfft)
		for i := range xs {
			xs[i] = float64(i)
		}
		// spectra[node][block] are the fourier coefficients of the windowed blocks
		spectra := make([][][]complex128, nodes)
		block := make([]float64, nfft)
		for node, trace := range traces(t, sv, mode) {
			spectra[node] = make([][]complex128, len(starts))
			for b, s := range starts {
				copy(block, trace[s:s+nfft])
				alpha, beta := stat.LinearRegression(xs, block, nil, false)
				for i := range block {
					block[i] -= alpha + beta*xs[i]
				}
				window.Hann(block)
				spectra[node][b] = fft.Coefficients(nil, block)
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		psd := make([][]float64, nodes)
		for i := range psd {
			psd[i] = make([]float64, nFreq)
			for _, c := range spectra[i] {
				for k := 0; k < nFreq; k++ {
					psd[i][k] += real(c[k])*real(c[k]) + imag(c[k])*imag(c[k])
				}
			}
		}
		for i := 0; i < nodes; i++ {
			for j := i; j < nodes; j++ {
				for k := 0; k < nFreq; k++ {
					var pxy complex128
					for b := range starts {
						pxy += spectra[i][b][k] * cmplx.Conj(spectra[j][b][k])
					}
					var coh float64
					if den := psd[i][k] * psd[j][k]; den > 0 {
						coh = (real(pxy)*real(pxy) + imag(pxy)*imag(pxy)) / den
					}
					out.Values[arrays.Offset(shape, i, j, k, sv, mode)] = coh
					out.Values[arrays.Offset(shape, j, i, k, sv, mode)] = coh
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	freq := arrays.NewFloat([]int{nFreq})
	for k := range freq.Values {
		freq.Values[k] = float64(k) * 1000 / (float64(nfft) * samplePeriodMs(t))
	}
	return &datatypes.CoherenceSpectrum{
		Source:    ts,
		NFFT:      nfft,
		Array:     out,
		Frequency: freq,
	}, nil
}


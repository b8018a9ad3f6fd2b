package analyzers

import (
	"context"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/stat"

	"github.com/neuronlabs/tvb/arrays"
	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/config"
	"github.com/neuronlabs/tvb/datatypes"
	"github.com/neuronlabs/tvb/errors"
)

// FFTParams are the parameters of the fourier analysis.
type FFTParams struct {
	// SegmentLength is the length of the analyzed segments in milliseconds. Zero means the whole series.
	SegmentLength float64
	// WindowFunction is the optional windowing function applied to each segment.
	WindowFunction string
	// Detrend removes the linear trend of each segment.
	Detrend bool
	// Workers is the number of concurrently analyzed (state variable, mode) slices.
	Workers int
}

// FFTParamsFromConfig gets the fourier analysis parameters from the config.
func FFTParamsFromConfig(c *config.Analyzers) FFTParams {
	return FFTParams{
		SegmentLength:  c.FFT.SegmentLength,
		WindowFunction: c.FFT.WindowFunction,
		Detrend:        c.FFT.Detrend,
		Workers:        c.Workers,
	}
}

// windowFunc gets the in-place windowing function for provided name.
func windowFunc(name string) (func([]float64) []float64, error) {
	switch name {
	case "":
		return nil, nil
	case datatypes.WindowHamming:
		return window.Hamming, nil
	case datatypes.WindowBartlett:
		return window.Triangular, nil
	case datatypes.WindowBlackman:
		return window.Blackman, nil
	case datatypes.WindowHanning:
		return window.Hann, nil
	}
	return nil, errors.NewDetf(class.AnalyzerParameter, "unknown window function: '%s'", name).
		SetDetailsf("allowed functions: %s, %s, %s, %s", datatypes.WindowHamming, datatypes.WindowBartlett, datatypes.WindowBlackman, datatypes.WindowHanning)
}

// FFT computes the fourier spectrum of the time series segments. The time series is split into the segments
// of the SegmentLength, each optionally detrended and windowed. The DC component is dropped from the result, so that
// the k-th coefficient has the frequency (k+1) * 1000 / SegmentLength Hz. A segment longer than the series results in
// a single segment of the whole series.
func FFT(ctx context.Context, ts datatypes.TimeSeriesData, params FFTParams) (*datatypes.FourierSpectrum, error) {
	t, err := input(ts, 2)
	if err != nil {
		return nil, err
	}
	if params.SegmentLength < 0 {
		return nil, errors.NewDetf(class.AnalyzerParameter, "negative segment length: %v", params.SegmentLength)
	}
	applyWindow, err := windowFunc(params.WindowFunction)
	if err != nil {
		return nil, err
	}

	period := samplePeriodMs(t)
	segPoints := int(params.SegmentLength / period)
	if segPoints <= 0 || segPoints > t.NrTimePoints {
		if segPoints > t.NrTimePoints {
			logger.Warningf("Segment length: %v ms is longer than the time series: %v ms. Using single segment.", params.SegmentLength, float64(t.NrTimePoints)*period)
		}
		segPoints = t.NrTimePoints
	}
	if segPoints < 2 {
		return nil, errors.NewDetf(class.AnalyzerParameter, "segment of %d time points is too short", segPoints)
	}
	nSeg := t.NrTimePoints / segPoints
	nFreq := segPoints / 2
	logger.Debugf("FFT of %d segments, %d points each, %d frequencies", nSeg, segPoints, nFreq)

	shape := []int{nFreq, nSeg, t.NrStateVariables, t.NrSpaceNodes, t.NrModes}
	re, im := arrays.NewFloat(shape), arrays.NewFloat(shape)

	err = forEachSlice(ctx, t, params.Workers, func(ctx context.Context, sv, mode int) error {
		fft := fourier.NewFFT(segPoints)
		segment := make([]float64, segPoints)
		xs := make([]float64, segPoints)
		for i := range xs {
			xs[i] = float64(i)
		}
		coeffs := make([]complex128, segPoints/2+1)
		for node := 0; node < t.NrSpaceNodes; node++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			trace := t.Trace(sv, node, mode)
			for s := 0; s < nSeg; s++ {
				copy(segment, trace[s*segPoints:(s+1)*segPoints])
				if params.Detrend {
					alpha, beta := stat.LinearRegression(xs, segment, nil, false)
					for i := range segment {
						segment[i] -= alpha + beta*xs[i]
					}
				}
				if applyWindow != nil {
					applyWindow(segment)
				}
				coeffs = fft.Coefficients(coeffs, segment)
				for k := 0; k < nFreq; k++ {
					off := arrays.Offset(shape, k, s, sv, node, mode)
					re.Values[off] = real(coeffs[k+1])
					im.Values[off] = imag(coeffs[k+1])
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	spectrum := &datatypes.FourierSpectrum{
		Source:         ts,
		SegmentLength:  float64(segPoints) * period,
		WindowFunction: params.WindowFunction,
		Real:           re,
		Imag:           im,
	}
	if err := spectrum.Configure(); err != nil {
		return nil, err
	}
	return spectrum, nil
}

// Package analyzers contains the signal analyzers of the time series: the fourier spectrum, coherence,
// cross correlation, correlation coefficients, covariance, principal and independent components and the
// continuous wavelet transform, as well as the scalar metrics of the time series.
//
// Each analyzer is a function of the time series and its parameters resulting in the analysis datatype.
// The (state variable, mode) slices of the time series are computed concurrently.
package analyzers

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/datatypes"
	"github.com/neuronlabs/tvb/errors"
	"github.com/neuronlabs/tvb/log"
)

var logger = log.NewModuleLogger("analyzers")

// DefaultWorkers is the default number of concurrently analyzed (state variable, mode) slices.
var DefaultWorkers = runtime.NumCPU()

// input checks the analyzed time series and gets its shallow copy with the dimensions set from the data shape.
// The provided time series is never modified.
func input(ts datatypes.TimeSeriesData, minPoints int) (*datatypes.TimeSeries, error) {
	if ts == nil {
		return nil, errors.NewDet(class.AnalyzerInput, "no time series provided")
	}
	src := ts.AsTimeSeries()
	if src.Data == nil {
		return nil, errors.NewDet(class.AnalyzerInput, "time series data is not loaded")
	}
	shape := src.Data.Shapes()
	if len(shape) != 4 {
		return nil, errors.NewDetf(class.AnalyzerInput, "time series data must have 4 dimensions, has: %v", shape)
	}
	if minPoints < 2 {
		minPoints = 2
	}
	if shape[0] < minPoints {
		return nil, errors.NewDetf(class.AnalyzerInput, "time series has %d time points, required at least: %d", shape[0], minPoints)
	}
	if src.SamplePeriod <= 0 {
		return nil, errors.NewDetf(class.AnalyzerInput, "invalid time series sample period: %v", src.SamplePeriod)
	}
	t := &datatypes.TimeSeries{
		Data:             src.Data,
		Time:             src.Time,
		StartTime:        src.StartTime,
		SamplePeriod:     src.SamplePeriod,
		SamplePeriodUnit: src.SamplePeriodUnit,
		LabelsOrdering:   src.LabelsOrdering,
		LabelsDimensions: src.LabelsDimensions,
	}
	t.NrTimePoints, t.NrStateVariables, t.NrSpaceNodes, t.NrModes = shape[0], shape[1], shape[2], shape[3]
	return t, nil
}

// samplePeriodMs gets the sample period of the time series in milliseconds.
func samplePeriodMs(t *datatypes.TimeSeries) float64 {
	switch t.SamplePeriodUnit {
	case datatypes.UnitSecond:
		return t.SamplePeriod * 1e3
	case datatypes.UnitMicrosecond:
		return t.SamplePeriod * 1e-3
	}
	return t.SamplePeriod
}

// forEachSlice runs the 'fn' for each (state variable, mode) pair of the time series with at most 'workers'
// concurrent goroutines. The first error cancels the context of the remaining slices.
func forEachSlice(ctx context.Context, t *datatypes.TimeSeries, workers int, fn func(ctx context.Context, sv, mode int) error) error {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for sv := 0; sv < t.NrStateVariables; sv++ {
		for mode := 0; mode < t.NrModes; mode++ {
			sv, mode := sv, mode
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return fn(gctx, sv, mode)
			})
		}
	}
	if err := g.Wait(); err != nil {
		if _, ok := err.(errors.ClassError); ok {
			return err
		}
		if multi, ok := err.(errors.MultiError); ok {
			return multi
		}
		return errors.Wrap(err, class.AnalyzerComputation, "analysis interrupted")
	}
	return nil
}

// traces gets the (nodes, time) traces of the state variable 'sv' and 'mode'.
func traces(t *datatypes.TimeSeries, sv, mode int) [][]float64 {
	out := make([][]float64, t.NrSpaceNodes)
	for n := range out {
		out[n] = t.Trace(sv, n, mode)
	}
	return out
}

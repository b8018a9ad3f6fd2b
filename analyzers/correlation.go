package analyzers

import (
	"context"

	"github.com/emer/etable/etensor"
	"gonum.org/v1/gonum/stat"

	"github.com/neuronlabs/tvb/arrays"
	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/datatypes"
	"github.com/neuronlabs/tvb/errors"
)

// CorrelationParams are the parameters of the correlation coefficients.
type CorrelationParams struct {
	// TStart and TEnd limit the analyzed time range [TStart, TEnd). Zero TEnd means the end of the series.
	TStart  float64
	TEnd    float64
	Workers int
}

// CorrelationCoefficients computes the Pearson correlation coefficients of each pair of the nodes.
func CorrelationCoefficients(ctx context.Context, ts datatypes.TimeSeriesData, params CorrelationParams) (*datatypes.CorrelationCoefficients, error) {
	t, err := input(ts, 2)
	if err != nil {
		return nil, err
	}
	start, stop := 0, t.NrTimePoints
	if params.TEnd != 0 || params.TStart != 0 {
		end := params.TEnd
		if end == 0 {
			end = t.TimeAt(t.NrTimePoints-1) + t.SamplePeriod
		}
		if end <= params.TStart {
			return nil, errors.NewDetf(class.AnalyzerParameter, "invalid time range: [%v, %v)", params.TStart, end)
		}
		start, stop = t.TimeIndices(params.TStart, end)
		if stop-start < 2 {
			return nil, errors.NewDetf(class.AnalyzerParameter, "time range: [%v, %v) contains %d time points", params.TStart, end, stop-start)
		}
	}

	out, err := pairwise(ctx, t, params.Workers, func(x, y []float64) float64 {
		return stat.Correlation(x[start:stop], y[start:stop], nil)
	})
	if err != nil {
		return nil, err
	}
	return &datatypes.CorrelationCoefficients{
		Source:         ts,
		Array:          out,
		LabelsOrdering: []string{"Node", "Node", "State Variable", "Mode"},
	}, nil
}

// CovarianceParams are the parameters of the covariance.
type CovarianceParams struct {
	Workers int
}

// Covariance computes the unbiased covariance of each pair of the nodes.
func Covariance(ctx context.Context, ts datatypes.TimeSeriesData, params CovarianceParams) (*datatypes.Covariance, error) {
	t, err := input(ts, 2)
	if err != nil {
		return nil, err
	}
	out, err := pairwise(ctx, t, params.Workers, func(x, y []float64) float64 {
		return stat.Covariance(x, y, nil)
	})
	if err != nil {
		return nil, err
	}
	return &datatypes.Covariance{Source: ts, Array: out}, nil
}

// pairwise computes the symmetric (nodes, nodes, sv, mode) measure of each pair of the node traces.
func pairwise(ctx context.Context, t *datatypes.TimeSeries, workers int, fn func(x, y []float64) float64) (*etensor.Float64, error) {
	nodes := t.NrSpaceNodes
	shape := []int{nodes, nodes, t.NrStateVariables, t.NrModes}
	out := arrays.NewFloat(shape)
	err := forEachSlice(ctx, t, workers, func(ctx context.Context, sv, mode int) error {
		tr := traces(t, sv, mode)
		for i := 0; i < nodes; i++ {
			for j := i; j < nodes; j++ {
				v := fn(tr[i], tr[j])
				out.Values[arrays.Offset(shape, i, j, sv, mode)] = v
				out.Values[arrays.Offset(shape, j, i, sv, mode)] = v
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

package analyzers

import (
	"context"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/datatypes"
	"github.com/neuronlabs/tvb/errors"
)

// Metric result keys.
const (
	MetricGlobalVariance       = "GlobalVariance"
	MetricVarianceNodeVariance = "VarianceNodeVariance"
	MetricKuramotoIndex        = "KuramotoIndex"
	MetricMetastability        = "Metastability"
	MetricSynchrony            = "Synchrony"
)

// MetricResult maps the metric name to its value.
type MetricResult map[string]float64

// MetricParams are the common parameters of the time series metrics.
type MetricParams struct {
	// StartPoint is the index of the first analyzed time point, skipping the initial transient.
	StartPoint    int
	StateVariable int
	Mode          int
}

// metricTraces gets the analyzed (nodes, time) traces starting at the params StartPoint.
func metricTraces(ts datatypes.TimeSeriesData, params MetricParams) (*datatypes.TimeSeries, [][]float64, error) {
	t, err := input(ts, 2)
	if err != nil {
		return nil, nil, err
	}
	if params.StartPoint < 0 || params.StartPoint > t.NrTimePoints-2 {
		return nil, nil, errors.NewDetf(class.AnalyzerParameter, "start point: %d out of range [0, %d]", params.StartPoint, t.NrTimePoints-2)
	}
	if params.StateVariable < 0 || params.StateVariable >= t.NrStateVariables {
		return nil, nil, errors.NewDetf(class.AnalyzerParameter, "state variable: %d out of range", params.StateVariable)
	}
	if params.Mode < 0 || params.Mode >= t.NrModes {
		return nil, nil, errors.NewDetf(class.AnalyzerParameter, "mode: %d out of range", params.Mode)
	}
	tr := traces(t, params.StateVariable, params.Mode)
	for i := range tr {
		tr[i] = tr[i][params.StartPoint:]
	}
	return t, tr, nil
}

// GlobalVariance computes the variance of all the node values after removing the temporal mean of each node.
func GlobalVariance(ctx context.Context, ts datatypes.TimeSeriesData, params MetricParams) (MetricResult, error) {
	_, tr, err := metricTraces(ts, params)
	if err != nil {
		return nil, err
	}
	var all []float64
	for _, trace := range tr {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mean, err := stats.Mean(trace)
		if err != nil {
			return nil, errors.Wrap(err, class.AnalyzerComputation, "global variance")
		}
		for _, v := range trace {
			all = append(all, v-mean)
		}
	}
	v, err := stats.PopulationVariance(all)
	if err != nil {
		return nil, errors.Wrap(err, class.AnalyzerComputation, "global variance")
	}
	return MetricResult{MetricGlobalVariance: v}, nil
}

// VarianceNodeVariance computes the variance across the nodes of the temporal variance of each node.
func VarianceNodeVariance(ctx context.Context, ts datatypes.TimeSeriesData, params MetricParams) (MetricResult, error) {
	_, tr, err := metricTraces(ts, params)
	if err != nil {
		return nil, err
	}
	nodeVariance := make([]float64, len(tr))
	for i, trace := range tr {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if nodeVariance[i], err = stats.PopulationVariance(trace); err != nil {
			return nil, errors.Wrap(err, class.AnalyzerComputation, "node variance")
		}
	}
	v, err := stats.PopulationVariance(nodeVariance)
	if err != nil {
		return nil, errors.Wrap(err, class.AnalyzerComputation, "variance of the node variance")
	}
	return MetricResult{MetricVarianceNodeVariance: v}, nil
}

// KuramotoIndex computes the temporal mean of the Kuramoto order parameter |mean(exp(iθ))| of the node phases.
// The phase of each node is the angle of the (x, y) point given by the first two state variables,
// so that the time series must have at least two state variables.
func KuramotoIndex(ctx context.Context, ts datatypes.TimeSeriesData, params MetricParams) (MetricResult, error) {
	t, err := input(ts, 2)
	if err != nil {
		return nil, err
	}
	if t.NrStateVariables < 2 {
		return nil, errors.NewDetf(class.AnalyzerInput, "Kuramoto index requires at least two state variables, has: %d", t.NrStateVariables)
	}
	params.StateVariable = 0
	_, xs, err := metricTraces(ts, params)
	if err != nil {
		return nil, err
	}
	params.StateVariable = 1
	_, ys, err := metricTraces(ts, params)
	if err != nil {
		return nil, err
	}
	nodes := len(xs)
	order := make([]float64, len(xs[0]))
	for s := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var sumCos, sumSin float64
		for n := 0; n < nodes; n++ {
			theta := math.Atan2(ys[n][s], xs[n][s])
			sumCos += math.Cos(theta)
			sumSin += math.Sin(theta)
		}
		order[s] = math.Hypot(sumCos, sumSin) / float64(nodes)
	}
	r, err := stats.Mean(order)
	if err != nil {
		return nil, errors.Wrap(err, class.AnalyzerComputation, "kuramoto index")
	}
	return MetricResult{MetricKuramotoIndex: r}, nil
}

// ProxyMetastabilitySynchrony computes the proxies of the metastability and synchrony. The node traces are centered
// and scaled by the maximum absolute value. The spatial variance across the nodes is computed at each time point:
// its temporal variance is the metastability and its temporal mean the synchrony.
func ProxyMetastabilitySynchrony(ctx context.Context, ts datatypes.TimeSeriesData, params MetricParams) (MetricResult, error) {
	_, tr, err := metricTraces(ts, params)
	if err != nil {
		return nil, err
	}
	var maxAbs float64
	centered := make([][]float64, len(tr))
	for i, trace := range tr {
		mean, err := stats.Mean(trace)
		if err != nil {
			return nil, errors.Wrap(err, class.AnalyzerComputation, "metastability")
		}
		centered[i] = make([]float64, len(trace))
		for s, v := range trace {
			c := v - mean
			centered[i][s] = c
			maxAbs = math.Max(maxAbs, math.Abs(c))
		}
	}
	if maxAbs == 0 {
		maxAbs = 1
	}
	spatial := make([]float64, len(centered[0]))
	column := make([]float64, len(centered))
	for s := range spatial {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for n := range centered {
			column[n] = centered[n][s] / maxAbs
		}
		if spatial[s], err = stats.PopulationVariance(column); err != nil {
			return nil, errors.Wrap(err, class.AnalyzerComputation, "spatial variance")
		}
	}
	metastability, err := stats.PopulationVariance(spatial)
	if err != nil {
		return nil, errors.Wrap(err, class.AnalyzerComputation, "metastability")
	}
	synchrony, err := stats.Mean(spatial)
	if err != nil {
		return nil, errors.Wrap(err, class.AnalyzerComputation, "synchrony")
	}
	return MetricResult{MetricMetastability: metastability, MetricSynchrony: synchrony}, nil
}

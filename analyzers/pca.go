package analyzers

import (
	"context"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/neuronlabs/tvb/arrays"
	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/datatypes"
	"github.com/neuronlabs/tvb/errors"
)

// PCAParams are the parameters of the principal component analysis.
type PCAParams struct {
	Workers int
}

// PCA computes the principal components of the normalised node traces of each (state variable, mode).
// The time series must have at least as many time points as nodes.
func PCA(ctx context.Context, ts datatypes.TimeSeriesData, params PCAParams) (*datatypes.PrincipalComponents, error) {
	t, err := input(ts, 2)
	if err != nil {
		return nil, err
	}
	nt, nodes := t.NrTimePoints, t.NrSpaceNodes
	if nt < nodes {
		return nil, errors.NewDetf(class.AnalyzerInput, "PCA requires at least as many time points: %d as the nodes: %d", nt, nodes)
	}
	wShape := []int{nodes, nodes, t.NrStateVariables, t.NrModes}
	fShape := []int{nodes, t.NrStateVariables, t.NrModes}
	weights, fractions := arrays.NewFloat(wShape), arrays.NewFloat(fShape)

	err = forEachSlice(ctx, t, params.Workers, func(ctx context.Context, sv, mode int) error {
		obs := mat.NewDense(nt, nodes, nil)
		for node, trace := range traces(t, sv, mode) {
			obs.SetCol(node, standardize(trace))
		}
		var pc stat.PC
		if ok := pc.PrincipalComponents(obs, nil); !ok {
			return errors.NewDetf(class.AnalyzerComputation, "principal components decomposition failed for state variable: %d, mode: %d", sv, mode)
		}
		var vecs mat.Dense
		pc.VectorsTo(&vecs)
		vars := pc.VarsTo(nil)
		total := floats.Sum(vars)
		for c := 0; c < nodes && c < len(vars); c++ {
			if total > 0 {
				fractions.Values[arrays.Offset(fShape, c, sv, mode)] = vars[c] / total
			}
			for node := 0; node < nodes; node++ {
				weights.Values[arrays.Offset(wShape, c, node, sv, mode)] = vecs.At(node, c)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &datatypes.PrincipalComponents{
		Source:    ts,
		Weights:   weights,
		Fractions: fractions,
	}
	if err := result.ComputeNormalisedComponentTimeSeries(); err != nil {
		return nil, err
	}
	return result, nil
}

// standardize gets the copy of the values with zero mean and unit (sample) standard deviation.
// A constant trace results in zeros.
func standardize(values []float64) []float64 {
	out := make([]float64, len(values))
	mean, std := stat.MeanStdDev(values, nil)
	if std == 0 {
		return out
	}
	for i, v := range values {
		out[i] = (v - mean) / std
	}
	return out
}

package analyzers

import (
	"context"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"

	"github.com/neuronlabs/tvb/arrays"
	"github.com/neuronlabs/tvb/datatypes"
)

// CrossCorrelateParams are the parameters of the cross correlation.
type CrossCorrelateParams struct {
	Workers int
}

// CrossCorrelate computes the normalised cross correlation of each pair of the nodes. The result contains the
// lags from -T/2 to T/2, where T is the number of time points. The correlation of the node with itself at the zero lag
// equals 1.
func CrossCorrelate(ctx context.Context, ts datatypes.TimeSeriesData, params CrossCorrelateParams) (*datatypes.CrossCorrelation, error) {
	t, err := input(ts, 2)
	if err != nil {
		return nil, err
	}
	nt, nodes := t.NrTimePoints, t.NrSpaceNodes
	half := nt / 2
	shape := []int{nt, nodes, nodes, t.NrStateVariables, t.NrModes}
	out := arrays.NewFloat(shape)

	err = forEachSlice(ctx, t, params.Workers, func(ctx context.Context, sv, mode int) error {
		// zero padding to 2*nt avoids the circular wrap
		n := 2 * nt
		fft := fourier.NewFFT(n)
		padded := make([]float64, n)
		coeffs := make([][]complex128, nodes)
		norms := make([]float64, nodes)
		for node, trace := range traces(t, sv, mode) {
			mean, std := stat.PopMeanStdDev(trace, nil)
			for i := range padded {
				padded[i] = 0
			}
			for i, v := range trace {
				padded[i] = v - mean
			}
			coeffs[node] = fft.Coefficients(nil, padded)
			norms[node] = std
		}
		product := make([]complex128, n/2+1)
		seq := make([]float64, n)
		for i := 0; i < nodes; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			for j := 0; j < nodes; j++ {
				for k := range product {
					product[k] = coeffs[i][k] * cmplx.Conj(coeffs[j][k])
				}
				seq = fft.Sequence(seq, product)
				den := float64(n) * float64(nt) * norms[i] * norms[j]
				for l := 0; l < nt; l++ {
					lag := l - half
					var v float64
					if den > 0 {
						v = seq[(lag+n)%n] / den
					}
					out.Values[arrays.Offset(shape, l, i, j, sv, mode)] = v
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	lags := arrays.NewFloat([]int{nt})
	for l := range lags.Values {
		lags.Values[l] = float64(l-half) * t.SamplePeriod
	}
	cc := &datatypes.CrossCorrelation{
		Source:         ts,
		Array:          out,
		Time:           lags,
		LabelsOrdering: []string{"Offsets", "Node", "Node", "State Variable", "Mode"},
	}
	return cc, nil
}

package analyzers

import (
	"context"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/neuronlabs/tvb/arrays"
	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/config"
	"github.com/neuronlabs/tvb/datatypes"
	"github.com/neuronlabs/tvb/errors"
)

// ICAParams are the parameters of the independent component analysis.
type ICAParams struct {
	// NComponents is the number of extracted components. Zero means the number of nodes.
	NComponents   int
	MaxIterations int
	Tolerance     float64
	// Seed initializes the random unmixing vectors.
	Seed    int64
	Workers int
}

// ICAParamsFromConfig gets the independent component analysis parameters from the config.
func ICAParamsFromConfig(c *config.Analyzers) ICAParams {
	return ICAParams{
		NComponents:   c.ICA.NComponents,
		MaxIterations: c.ICA.MaxIterations,
		Tolerance:     c.ICA.Tolerance,
		Workers:       c.Workers,
	}
}

// ICA computes the independent components of the normalised node traces using the deflationary FastICA
// with the logcosh contrast function. The traces are prewhitened with the eigen decomposition of their covariance.
func ICA(ctx context.Context, ts datatypes.TimeSeriesData, params ICAParams) (*datatypes.IndependentComponents, error) {
	t, err := input(ts, 2)
	if err != nil {
		return nil, err
	}
	nt, nodes := t.NrTimePoints, t.NrSpaceNodes
	nc := params.NComponents
	if nc == 0 {
		nc = nodes
	}
	if nc < 0 || nc > nodes {
		return nil, errors.NewDetf(class.AnalyzerParameter, "number of components: %d out of range [1, %d]", nc, nodes)
	}
	if params.MaxIterations <= 0 {
		params.MaxIterations = 200
	}
	if params.Tolerance <= 0 {
		params.Tolerance = 1e-4
	}
	nsv, nm := t.NrStateVariables, t.NrModes
	uShape := []int{nc, nc, nsv, nm}
	pShape := []int{nc, nodes, nsv, nm}
	mShape := []int{nodes, nc, nsv, nm}
	unmixing, prewhitening, mixing := arrays.NewFloat(uShape), arrays.NewFloat(pShape), arrays.NewFloat(mShape)

	err = forEachSlice(ctx, t, params.Workers, func(ctx context.Context, sv, mode int) error {
		obs := mat.NewDense(nt, nodes, nil)
		for node, trace := range traces(t, sv, mode) {
			obs.SetCol(node, standardize(trace))
		}
		k, e, d, err := whitening(obs, nc)
		if err != nil {
			return errors.Wrapf(err, class.AnalyzerComputation, "state variable: %d, mode: %d", sv, mode)
		}
		// z is the whitened data (nc, nt)
		var z mat.Dense
		z.Mul(k, obs.T())

		rnd := rand.New(rand.NewSource(params.Seed + int64(sv*nm+mode)))
		w, err := fastICA(ctx, &z, nc, params.MaxIterations, params.Tolerance, rnd)
		if err != nil {
			return err
		}
		for i := 0; i < nc; i++ {
			for j := 0; j < nc; j++ {
				unmixing.Values[arrays.Offset(uShape, i, j, sv, mode)] = w.At(i, j)
			}
			for j := 0; j < nodes; j++ {
				prewhitening.Values[arrays.Offset(pShape, i, j, sv, mode)] = k.At(i, j)
			}
		}
		// the mixing matrix is the pseudo inverse of W·K, which for the orthogonal W equals E·D^(1/2)·Wᵀ
		for i := 0; i < nodes; i++ {
			for j := 0; j < nc; j++ {
				var sum float64
				for c := 0; c < nc; c++ {
					sum += e.At(i, c) * math.Sqrt(d[c]) * w.At(j, c)
				}
				mixing.Values[arrays.Offset(mShape, i, j, sv, mode)] = sum
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &datatypes.IndependentComponents{
		Source:             ts,
		NComponents:        nc,
		UnmixingMatrix:     unmixing,
		PrewhiteningMatrix: prewhitening,
		MixingMatrix:       mixing,
	}
	if err := result.ComputeNormalisedComponentTimeSeries(); err != nil {
		return nil, err
	}
	return result, nil
}

// whitening gets the (nc, nodes) whitening matrix K = D^(-1/2)·Eᵀ of the 'nc' largest eigenvalues D
// and the eigenvectors E of the observations covariance.
func whitening(obs *mat.Dense, nc int) (k *mat.Dense, e *mat.Dense, d []float64, err error) {
	_, nodes := obs.Dims()
	cov := mat.NewSymDense(nodes, nil)
	stat.CovarianceMatrix(cov, obs, nil)

	var eig mat.EigenSym
	if ok := eig.Factorize(cov, true); !ok {
		return nil, nil, nil, errors.NewDet(class.AnalyzerComputation, "eigen decomposition of the covariance failed")
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	// eigenvalues are in the ascending order
	k = mat.NewDense(nc, nodes, nil)
	e = mat.NewDense(nodes, nc, nil)
	d = make([]float64, nc)
	for c := 0; c < nc; c++ {
		idx := nodes - 1 - c
		d[c] = values[idx]
		if d[c] <= 1e-12 {
			return nil, nil, nil, errors.NewDetf(class.AnalyzerComputation, "covariance is rank deficient, component: %d has zero variance", c)
		}
		scale := 1 / math.Sqrt(d[c])
		for j := 0; j < nodes; j++ {
			v := vectors.At(j, idx)
			e.Set(j, c, v)
			k.Set(c, j, v*scale)
		}
	}
	return k, e, d, nil
}

// fastICA estimates the (nc, nc) orthogonal unmixing matrix of the whitened data 'z' one component at a time.
func fastICA(ctx context.Context, z *mat.Dense, nc, maxIter int, tol float64, rnd *rand.Rand) (*mat.Dense, error) {
	_, nt := z.Dims()
	w := mat.NewDense(nc, nc, nil)
	wx := make([]float64, nt)
	g := make([]float64, nt)
	for p := 0; p < nc; p++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		wp := make([]float64, nc)
		for i := range wp {
			wp[i] = rnd.NormFloat64()
		}
		decorrelate(wp, w, p)
		floats.Scale(1/floats.Norm(wp, 2), wp)

		converged := false
		for iter := 0; iter < maxIter; iter++ {
			// wx = wpᵀ·z
			for s := 0; s < nt; s++ {
				var sum float64
				for i := 0; i < nc; i++ {
					sum += wp[i] * z.At(i, s)
				}
				wx[s] = sum
			}
			var gPrimeMean float64
			for s, v := range wx {
				th := math.Tanh(v)
				g[s] = th
				gPrimeMean += 1 - th*th
			}
			gPrimeMean /= float64(nt)

			next := make([]float64, nc)
			for i := 0; i < nc; i++ {
				next[i] = floats.Dot(z.RawRowView(i), g)/float64(nt) - gPrimeMean*wp[i]
			}
			decorrelate(next, w, p)
			norm := floats.Norm(next, 2)
			if norm == 0 {
				return nil, errors.NewDetf(class.AnalyzerComputation, "component: %d vanished", p)
			}
			floats.Scale(1/norm, next)
			lim := math.Abs(math.Abs(floats.Dot(next, wp)) - 1)
			wp = next
			if lim < tol {
				converged = true
				break
			}
		}
		if !converged {
			logger.Warningf("FastICA component: %d did not converge in %d iterations", p, maxIter)
		}
		w.SetRow(p, wp)
	}
	return w, nil
}

// decorrelate removes from 'v' the projections onto the first 'p' rows of 'w'.
func decorrelate(v []float64, w *mat.Dense, p int) {
	for j := 0; j < p; j++ {
		row := w.RawRowView(j)
		floats.AddScaled(v, -floats.Dot(v, row), row)
	}
}

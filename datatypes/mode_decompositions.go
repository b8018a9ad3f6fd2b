package datatypes

import (
	"fmt"
	"math"

	"github.com/emer/etable/etensor"
	"gonum.org/v1/gonum/stat"

	"github.com/neuronlabs/tvb/arrays"
	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/errors"
	"github.com/neuronlabs/tvb/traits"
)

// PrincipalComponents is the result of the principal component analysis of each (state variable, mode)
// of the time series. The component time series are of the (time, sv, component, mode) shape.
type PrincipalComponents struct {
	traits.Base

	Source    TimeSeriesData   `tvb:"label=Source time-series;required"`
	Weights   *etensor.Float64 `tvb:"label=Principal vectors;required;shape=nodes,nodes,sv,mode;doc=Component vectors as rows: (component, node, sv, mode)"`
	Fractions *etensor.Float64 `tvb:"label=Fraction explained;required;shape=nodes,sv,mode;range=0,1.000001"`

	NormSource                    *etensor.Float64 `tvb:"label=Normalised source time series;derived;shape=time,sv,nodes,mode"`
	ComponentTimeSeries           *etensor.Float64 `tvb:"label=Component time series;derived;shape=time,sv,nodes,mode"`
	NormalisedComponentTimeSeries *etensor.Float64 `tvb:"label=Normalised component time series;derived;shape=time,sv,nodes,mode"`
}

// ComputeNormSource sets the source time series normalised to zero mean and unit variance.
func (p *PrincipalComponents) ComputeNormSource() error {
	ns, err := normSource(p.Source)
	if err != nil {
		return err
	}
	p.NormSource = ns
	return nil
}

// ComputeComponentTimeSeries sets the source time series projected onto the principal vectors.
func (p *PrincipalComponents) ComputeComponentTimeSeries() error {
	if p.NormSource == nil {
		if err := p.ComputeNormSource(); err != nil {
			return err
		}
	}
	if p.Weights == nil {
		return errors.NewDet(class.DatatypeRequired, "principal vectors are not loaded")
	}
	cts, err := projectComponents(p.NormSource, p.Weights)
	if err != nil {
		return err
	}
	p.ComponentTimeSeries = cts
	return nil
}

// ComputeNormalisedComponentTimeSeries sets the component time series normalised to zero mean and unit variance.
func (p *PrincipalComponents) ComputeNormalisedComponentTimeSeries() error {
	if p.ComponentTimeSeries == nil {
		if err := p.ComputeComponentTimeSeries(); err != nil {
			return err
		}
	}
	p.NormalisedComponentTimeSeries = zscore(p.ComponentTimeSeries)
	return nil
}

// SummaryInfo implements traits.Summarizer.
func (p *PrincipalComponents) SummaryInfo() map[string]string {
	info := map[string]string{}
	if p.Fractions != nil && len(p.Fractions.Values) > 0 {
		info["Fraction explained by the first component"] = fmt.Sprintf("%.4g", p.Fractions.Values[0])
	}
	return info
}

// IndependentComponents is the result of the independent component analysis of each (state variable, mode)
// of the time series.
type IndependentComponents struct {
	traits.Base

	Source             TimeSeriesData   `tvb:"label=Source time-series;required"`
	NComponents        int              `tvb:"label=Number of components;required" validate:"gt=0"`
	UnmixingMatrix     *etensor.Float64 `tvb:"label=Unmixing matrix;required;shape=comps,comps,sv,mode"`
	PrewhiteningMatrix *etensor.Float64 `tvb:"label=Prewhitening matrix;required;shape=comps,nodes,sv,mode"`
	MixingMatrix       *etensor.Float64 `tvb:"label=Mixing matrix;shape=nodes,comps,sv,mode"`

	NormSource                    *etensor.Float64 `tvb:"label=Normalised source time series;derived;shape=time,sv,nodes,mode"`
	ComponentTimeSeries           *etensor.Float64 `tvb:"label=Component time series;derived;shape=time,sv,comps,mode"`
	NormalisedComponentTimeSeries *etensor.Float64 `tvb:"label=Normalised component time series;derived;shape=time,sv,comps,mode"`
}

// ComputeNormSource sets the source time series normalised to zero mean and unit variance.
func (c *IndependentComponents) ComputeNormSource() error {
	ns, err := normSource(c.Source)
	if err != nil {
		return err
	}
	c.NormSource = ns
	return nil
}

// ComputeComponentTimeSeries sets the source time series unmixed into the independent components.
func (c *IndependentComponents) ComputeComponentTimeSeries() error {
	if c.NormSource == nil {
		if err := c.ComputeNormSource(); err != nil {
			return err
		}
	}
	if c.UnmixingMatrix == nil || c.PrewhiteningMatrix == nil {
		return errors.NewDet(class.DatatypeRequired, "unmixing and prewhitening matrices are not loaded")
	}
	w, err := c.Separation()
	if err != nil {
		return err
	}
	cts, err := projectComponents(c.NormSource, w)
	if err != nil {
		return err
	}
	c.ComponentTimeSeries = cts
	return nil
}

// ComputeNormalisedComponentTimeSeries sets the component time series normalised to zero mean and unit variance.
func (c *IndependentComponents) ComputeNormalisedComponentTimeSeries() error {
	if c.ComponentTimeSeries == nil {
		if err := c.ComputeComponentTimeSeries(); err != nil {
			return err
		}
	}
	c.NormalisedComponentTimeSeries = zscore(c.ComponentTimeSeries)
	return nil
}

// Separation gets the (comps, nodes, sv, mode) separating matrix - the unmixing matrix times the prewhitening.
func (c *IndependentComponents) Separation() (*etensor.Float64, error) {
	us, ps := c.UnmixingMatrix.Shapes(), c.PrewhiteningMatrix.Shapes()
	if us[1] != ps[0] || us[2] != ps[2] || us[3] != ps[3] {
		return nil, errors.NewDetf(class.DatatypeShape, "unmixing matrix: %v doesn't match the prewhitening matrix: %v", us, ps)
	}
	nc, nn, nsv, nm := us[0], ps[1], ps[2], ps[3]
	out := arrays.NewFloat([]int{nc, nn, nsv, nm})
	for sv := 0; sv < nsv; sv++ {
		for m := 0; m < nm; m++ {
			for i := 0; i < nc; i++ {
				for j := 0; j < nn; j++ {
					var sum float64
					for k := 0; k < us[1]; k++ {
						sum += c.UnmixingMatrix.Values[arrays.Offset(us, i, k, sv, m)] * c.PrewhiteningMatrix.Values[arrays.Offset(ps, k, j, sv, m)]
					}
					out.Values[arrays.Offset(out.Shapes(), i, j, sv, m)] = sum
				}
			}
		}
	}
	return out, nil
}

// SummaryInfo implements traits.Summarizer.
func (c *IndependentComponents) SummaryInfo() map[string]string {
	return map[string]string{"Number of components": fmt.Sprint(c.NComponents)}
}

// normSource gets the (time, sv, nodes, mode) source data with each trace normalised to zero mean and unit variance.
func normSource(source TimeSeriesData) (*etensor.Float64, error) {
	if source == nil || source.AsTimeSeries().Data == nil {
		return nil, errors.NewDet(class.DatatypeRequired, "source time series data is not loaded")
	}
	return zscore(source.AsTimeSeries().Data), nil
}

// zscore normalises each first axis trace of the 4-D tensor to zero mean and unit variance.
func zscore(t *etensor.Float64) *etensor.Float64 {
	shape := t.Shapes()
	out := arrays.NewFloat(shape)
	inner := arrays.RowSize(shape)
	trace := make([]float64, shape[0])
	for i := 0; i < inner; i++ {
		for k := range trace {
			trace[k] = t.Values[k*inner+i]
		}
		mean, std := stat.MeanStdDev(trace, nil)
		for k, v := range trace {
			if std == 0 || math.IsNaN(std) {
				out.Values[k*inner+i] = 0
				continue
			}
			out.Values[k*inner+i] = (v - mean) / std
		}
	}
	return out
}

// projectComponents multiplies each (time, nodes) slice of the 'source' by the transposed
// (components, nodes) slice of the 'weights'. The result is of the (time, sv, components, mode) shape.
func projectComponents(source, weights *etensor.Float64) (*etensor.Float64, error) {
	ss, ws := source.Shapes(), weights.Shapes()
	if ss[2] != ws[1] || ss[1] != ws[2] || ss[3] != ws[3] {
		return nil, errors.NewDetf(class.DatatypeShape, "source of shape: %v doesn't match the components: %v", ss, ws)
	}
	nt, nsv, nn, nm, nc := ss[0], ss[1], ss[2], ss[3], ws[0]
	out := arrays.NewFloat([]int{nt, nsv, nc, nm})
	outShape := out.Shapes()
	for t := 0; t < nt; t++ {
		for sv := 0; sv < nsv; sv++ {
			for m := 0; m < nm; m++ {
				for c := 0; c < nc; c++ {
					var sum float64
					for j := 0; j < nn; j++ {
						sum += weights.Values[arrays.Offset(ws, c, j, sv, m)] * source.Values[arrays.Offset(ss, t, sv, j, m)]
					}
					out.Values[arrays.Offset(outShape, t, sv, c, m)] = sum
				}
			}
		}
	}
	return out, nil
}

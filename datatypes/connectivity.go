package datatypes

import (
	"fmt"
	"math"

	"github.com/emer/etable/etensor"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/neuronlabs/tvb/arrays"
	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/errors"
	"github.com/neuronlabs/tvb/traits"
)

// Weights scaling modes.
const (
	// ScaleTract scales the weights so that the maximum absolute value of a single connection is 1.0.
	ScaleTract = "tract"
	// ScaleRegion scales the weights so that the maximum absolute cumulative input of any region is 1.0.
	ScaleRegion = "region"
	// ScaleNone returns the unscaled copy of the weights.
	ScaleNone = "none"
)

// Connectivity is the region level structural connectivity of the brain - the matrix of the connection
// strengths between the regions and the lengths of the white matter tracts.
type Connectivity struct {
	traits.Base

	RegionLabels []string         `tvb:"label=Region labels;doc=Short strings the regions are labeled with;dim=regions"`
	Weights      *etensor.Float64 `tvb:"label=Connection strengths;required;shape=regions,regions;doc=Matrix of the connection strengths, where the row is the target and the column the source"`
	Undirected   bool             `tvb:"label=Undirected;doc=Defines if the weights matrix is symmetric"`
	TractLengths *etensor.Float64 `tvb:"label=Tract lengths;shape=regions,regions;range=0,1e9;doc=The length of the white matter tracts in mm"`
	Speed        float64          `tvb:"label=Conduction speed;default=3.0;doc=Conduction speed in mm/ms" validate:"gt=0"`
	Centres      *etensor.Float64 `tvb:"label=Region centres;shape=regions,3;doc=The locations of the region centres"`
	Cortical     []bool           `tvb:"label=Cortical;dim=regions;doc=Marks the cortical regions"`
	Hemispheres  []bool           `tvb:"label=Hemispheres;dim=regions;doc=True for the right hemisphere regions"`
	Orientations *etensor.Float64 `tvb:"label=Average orientation;shape=regions,3"`
	Areas        *etensor.Float64 `tvb:"label=Area of regions;shape=regions"`

	Delays              *etensor.Float64 `tvb:"label=Conduction delays;derived;shape=regions,regions;doc=Tract lengths divided by the conduction speed"`
	NumberOfRegions     int              `tvb:"label=Number of regions;derived;dim=regions"`
	NumberOfConnections int              `tvb:"label=Number of connections;derived"`
}

// Configure derives the number of regions and connections, the tract lengths (if the centres are known)
// and the conduction delays.
func (c *Connectivity) Configure() error {
	if c.Weights == nil {
		return nil
	}
	shape := c.Weights.Shapes()
	if len(shape) != 2 || shape[0] != shape[1] {
		return errors.NewDetf(class.DatatypeShape, "connectivity weights must be a square matrix, is: %v", shape)
	}
	c.NumberOfRegions = shape[0]
	c.NumberOfConnections = 0
	for _, w := range c.Weights.Values {
		if w != 0 {
			c.NumberOfConnections++
		}
	}
	if c.TractLengths == nil && c.Centres != nil {
		if err := c.ComputeTractLengths(); err != nil {
			return err
		}
	}
	if c.TractLengths != nil {
		if err := c.ComputeDelays(); err != nil {
			return err
		}
	}
	c.Undirected = c.IsUndirected()
	return nil
}

// ComputeTractLengths sets the tract lengths as the euclidean distances between the region centres.
func (c *Connectivity) ComputeTractLengths() error {
	if c.Centres == nil {
		return errors.NewDet(class.DatatypeRequired, "region centres are required to compute the tract lengths")
	}
	shape := c.Centres.Shapes()
	if len(shape) != 2 || shape[1] != 3 {
		return errors.NewDetf(class.DatatypeShape, "region centres must have shape (n, 3), is: %v", shape)
	}
	n := shape[0]
	lengths := arrays.NewFloat([]int{n, n})
	for i := 0; i < n; i++ {
		a := c.centre(i)
		for j := i + 1; j < n; j++ {
			d := r3.Norm(r3.Sub(a, c.centre(j)))
			lengths.Values[i*n+j] = d
			lengths.Values[j*n+i] = d
		}
	}
	c.TractLengths = lengths
	return nil
}

// ComputeDelays sets the conduction delays - the tract lengths divided by the conduction speed.
func (c *Connectivity) ComputeDelays() error {
	if c.TractLengths == nil {
		return errors.NewDet(class.DatatypeRequired, "tract lengths are required to compute the delays")
	}
	if c.Speed <= 0 {
		return errors.NewDetf(class.DatatypeRange, "conduction speed must be positive, is: %v", c.Speed)
	}
	delays := arrays.Copy(c.TractLengths)
	floats.Scale(1/c.Speed, delays.Values)
	c.Delays = delays
	return nil
}

// ScaledWeights gets the copy of the weights scaled in provided 'mode' - one of the ScaleTract, ScaleRegion or ScaleNone.
func (c *Connectivity) ScaledWeights(mode string) (*etensor.Float64, error) {
	if c.Weights == nil {
		return nil, errors.NewDet(class.DatatypeRequired, "connectivity has no weights")
	}
	scaled := arrays.Copy(c.Weights)
	var scale float64
	switch mode {
	case ScaleNone, "":
		return scaled, nil
	case ScaleTract:
		for _, w := range scaled.Values {
			scale = math.Max(scale, math.Abs(w))
		}
	case ScaleRegion:
		n := c.Weights.Shapes()[0]
		for i := 0; i < n; i++ {
			scale = math.Max(scale, math.Abs(floats.Sum(scaled.Values[i*n:(i+1)*n])))
		}
	default:
		return nil, errors.NewDetf(class.DatatypeChoice, "unknown weights scaling mode: '%s'", mode).
			SetDetailsf("allowed modes: '%s', '%s', '%s'", ScaleTract, ScaleRegion, ScaleNone)
	}
	if scale == 0 {
		return scaled, nil
	}
	floats.Scale(1/scale, scaled.Values)
	return scaled, nil
}

// BinarizedWeights gets the matrix with 1 where the weights are non zero.
func (c *Connectivity) BinarizedWeights() *etensor.Float64 {
	if c.Weights == nil {
		return nil
	}
	bin := arrays.NewFloat(c.Weights.Shapes())
	for i, w := range c.Weights.Values {
		if w != 0 {
			bin.Values[i] = 1
		}
	}
	return bin
}

// RemoveSelfConnections zeroes the diagonal of the weights and the tract lengths.
func (c *Connectivity) RemoveSelfConnections() {
	for _, t := range []*etensor.Float64{c.Weights, c.TractLengths} {
		if t == nil {
			continue
		}
		n := t.Shapes()[0]
		for i := 0; i < n; i++ {
			if t.Values[i*n+i] != 0 && t == c.Weights {
				c.NumberOfConnections--
			}
			t.Values[i*n+i] = 0
		}
	}
}

// IsUndirected checks if the weights matrix is symmetric.
func (c *Connectivity) IsUndirected() bool {
	if c.Weights == nil {
		return false
	}
	n := c.Weights.Shapes()[0]
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if c.Weights.Values[i*n+j] != c.Weights.Values[j*n+i] {
				return false
			}
		}
	}
	return true
}

// HemisphereOrder gets the region indices ordered by the hemisphere - the left hemisphere regions first.
// Without hemispheres defined the natural order is returned.
func (c *Connectivity) HemisphereOrder() []int {
	order := make([]int, 0, c.NumberOfRegions)
	if len(c.Hemispheres) == 0 {
		for i := 0; i < c.NumberOfRegions; i++ {
			order = append(order, i)
		}
		return order
	}
	for _, right := range []bool{false, true} {
		for i, h := range c.Hemispheres {
			if h == right {
				order = append(order, i)
			}
		}
	}
	return order
}

// SummaryInfo implements traits.Summarizer.
func (c *Connectivity) SummaryInfo() map[string]string {
	info := map[string]string{
		"Number of regions":     fmt.Sprint(c.NumberOfRegions),
		"Number of connections": fmt.Sprint(c.NumberOfConnections),
		"Undirected":            fmt.Sprint(c.Undirected),
	}
	if c.TractLengths != nil {
		var nonZero []float64
		for _, l := range c.TractLengths.Values {
			if l > 0 {
				nonZero = append(nonZero, l)
			}
		}
		if len(nonZero) > 0 {
			min, max, mean := arrays.Stats(nonZero)
			info["Tract lengths (non-zero) [min, max, mean]"] = fmt.Sprintf("[%.4g, %.4g, %.4g]", min, max, mean)
		}
	}
	return info
}

// NumberOfNodes gets the number of regions.
func (c *Connectivity) NumberOfNodes() int {
	return c.NumberOfRegions
}

func (c *Connectivity) centre(i int) r3.Vec {
	return r3.Vec{X: c.Centres.Values[i*3], Y: c.Centres.Values[i*3+1], Z: c.Centres.Values[i*3+2]}
}

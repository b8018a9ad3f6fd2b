package datatypes

import (
	"github.com/emer/etable/etensor"

	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/errors"
	"github.com/neuronlabs/tvb/traits"
)

// RegionMapping maps each vertex of the surface to the region of the connectivity.
type RegionMapping struct {
	traits.Base

	Array        *etensor.Int  `tvb:"name=array_data;label=Region index of each vertex;required;shape=vertices"`
	Connectivity *Connectivity `tvb:"label=Connectivity;required"`
	Surface      Surfacer      `tvb:"label=Surface;required"`
}

// ValidateTraits implements traits.Validator. The mapping must cover all the surface vertices and
// reference existing connectivity regions.
func (m *RegionMapping) ValidateTraits() error {
	if m.Array == nil {
		return nil
	}
	var errs errors.MultiError
	if m.Surface != nil {
		if s := m.Surface.AsSurface(); s.Vertices != nil {
			if nv, n := s.Vertices.Shapes()[0], m.Array.Shapes()[0]; nv != n {
				errs = append(errs, errors.NewDetf(class.DatatypeShape, "region mapping has %d values, while surface has %d vertices", n, nv))
			}
		}
	}
	if m.Connectivity != nil && m.Connectivity.Weights != nil {
		regions := m.Connectivity.Weights.Shapes()[0]
		for i, r := range m.Array.Values {
			if r < 0 || r >= regions {
				errs = append(errs, errors.NewDetf(class.DatatypeValue, "vertex: %d is mapped to region: %d, while connectivity has %d regions", i, r, regions))
				break
			}
		}
	}
	return errs.ErrorOrNil()
}

// RegionVertices gets the vertex indices of each region.
func (m *RegionMapping) RegionVertices(regions int) [][]int {
	out := make([][]int, regions)
	for v, r := range m.Array.Values {
		if r >= 0 && r < regions {
			out[r] = append(out[r], v)
		}
	}
	return out
}

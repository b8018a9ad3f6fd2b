package datatypes

import (
	"fmt"

	"github.com/emer/etable/etensor"

	"github.com/neuronlabs/tvb/traits"
)

// CrossCorrelation is the normalised cross correlation of each pair of the nodes for the time lags.
type CrossCorrelation struct {
	traits.Base

	Source         TimeSeriesData   `tvb:"label=Source time-series;required"`
	Array          *etensor.Float64 `tvb:"name=array_data;label=Cross correlation;required;shape=lags,nodes,nodes,sv,mode"`
	Time           *etensor.Float64 `tvb:"label=Temporal offsets;shape=lags"`
	LabelsOrdering []string         `tvb:"label=Dimension names;default=Offsets,Node,Node,State Variable,Mode"`
}

// SummaryInfo implements traits.Summarizer.
func (c *CrossCorrelation) SummaryInfo() map[string]string {
	info := map[string]string{"Dimension names": fmt.Sprint(c.LabelsOrdering)}
	if c.Time != nil && len(c.Time.Values) > 0 {
		info["Offsets"] = fmt.Sprintf("[%g, %g]", c.Time.Values[0], c.Time.Values[len(c.Time.Values)-1])
	}
	return info
}

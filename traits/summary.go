package traits

import (
	"fmt"
	"math"
	"reflect"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"

	"github.com/neuronlabs/tvb/arrays"
)

// maxSummarySlice is the maximum length of the slice attribute printed in the summary.
const maxSummarySlice = 10

// Summary gets the human readable summary of the datatype. It contains the type, identity, scalar attributes,
// array shapes with their statistics, and the information provided by the Summarizer interface.
func (r *Registry) Summary(dt Datatype) (map[string]string, error) {
	ts, err := r.TypeOf(dt)
	if err != nil {
		return nil, err
	}
	base := dt.TraitsBase()
	summary := map[string]string{
		"Type": ts.tag,
	}
	if base.GID != uuid.Nil {
		summary["GID"] = base.GID.String()
	}
	if base.Title != "" {
		summary["Title"] = base.Title
	}
	if base.Subject != "" {
		summary["Subject"] = base.Subject
	}

	for _, f := range ts.fields {
		label := f.Label()
		switch f.kind {
		case KindAttribute:
			v := f.Value(dt)
			switch {
			case v.Kind() == reflect.Slice && v.Len() > maxSummarySlice:
				summary[label] = fmt.Sprintf("[%d items]", v.Len())
			case v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface || v.Kind() == reflect.Map:
			default:
				summary[label] = fmt.Sprint(v.Interface())
			}
		case KindArray:
			arr := f.Array(dt)
			if arr == nil {
				if h, ok := base.Handle(f.storageName); ok {
					summary[label+" shape"] = formatShape(h.Shape)
				}
				continue
			}
			summary[label+" shape"] = formatShape(arrays.ShapeOf(arr))
			if st, mean, ok := describe(arrays.Floats(arr)); ok {
				summary[label+" [min, median, max]"] = st
				summary[label+" mean"] = fmt.Sprintf("%.4g", mean)
			}
		case KindReference:
			if ref := f.Reference(dt); ref != nil {
				summary[label] = describeReference(r, ref)
			} else if gid, ok := base.Refs[f.storageName]; ok {
				summary[label] = gid.String()
			}
		}
	}

	if s, ok := dt.(Summarizer); ok {
		for k, v := range s.SummaryInfo() {
			summary[k] = v
		}
	}
	return summary, nil
}

func describe(values []float64) (string, float64, bool) {
	finite := make(stats.Float64Data, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return "", 0, false
	}
	min, err := finite.Min()
	if err != nil {
		return "", 0, false
	}
	median, err := finite.Median()
	if err != nil {
		return "", 0, false
	}
	max, err := finite.Max()
	if err != nil {
		return "", 0, false
	}
	mean, err := finite.Mean()
	if err != nil {
		return "", 0, false
	}
	return fmt.Sprintf("[%.4g, %.4g, %.4g]", min, median, max), mean, true
}

func describeReference(r *Registry, ref Datatype) string {
	var tag string
	if ts, err := r.TypeOf(ref); err == nil {
		tag = ts.tag
	}
	b := ref.TraitsBase()
	switch {
	case b.Title != "":
		return tag + " " + b.Title
	case b.GID != uuid.Nil:
		return tag + " " + b.GID.String()
	}
	return tag
}

/*
Package traits is the declarative attribute layer of the tvb datatypes.

Each datatype is a statically typed struct that embeds the traits.Base and describes
its fields with the 'tvb' struct tag:

	type Connectivity struct {
		traits.Base
		Weights      *etensor.Float64 `tvb:"label=Connection strengths;required;shape=regions,regions"`
		RegionLabels []string         `tvb:"label=Region labels;dim=regions"`
		Speed        float64          `tvb:"default=3.0;range=0,1000"`
	}

The types are mapped once into the Registry, which resolves the type tags,
the declared base tags and the field definitions. The registry is then used to set the
default values, validate the values, derive the attributes and summarize the datatypes.
*/
package traits

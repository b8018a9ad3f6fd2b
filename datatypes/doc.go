/*
Package datatypes contains the scientific datatypes of the brain simulations: connectivities, surfaces,
region mappings, sensors, projection matrices, time series and the results of the analyzers.

Each datatype is a struct that embeds the traits.Base and declares its fields with the 'tvb' struct tags.
All the datatypes are registered within the traits.Registry with the Register function:

	r := traits.NewRegistry()
	if err := datatypes.Register(r); err != nil {
		...
	}
	conn := &datatypes.Connectivity{Weights: w, TractLengths: tl}
	if err := r.Configure(conn); err != nil {
		...
	}
*/
package datatypes

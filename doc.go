// Package tvb is the brain network modelling toolkit library. It consists of the following packages:
//
// - traits - the declarative description, defaults and validation of the scientific datatypes
//
// - datatypes - connectivity, surfaces, sensors, projections, time series and the analysis results
//
// - analyzers - the signal analyzers of the time series and the graph measures of the connectivity
//
// - readers - the readers of the external brain data file formats
//
// - repository, store, codec - the persistence of the datatypes and their arrays
//
// - config, log, errors, class - the configuration, logging and classified errors
//
// The Library type wires all of them based on the provided configuration:
//
//	lib, err := tvb.New(cfg)
//	if err != nil {
//		// handle error
//	}
//	defer lib.Close(ctx)
//
//	conn, err := readers.ReadConnectivityZip("connectivity_76.zip")
//	...
//	err = lib.Save(ctx, conn)
package tvb

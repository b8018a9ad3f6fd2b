// Package class contains `github.com/neuronlabs/tvb/errors` classes instances used in tvb.
// The classes are divided into following Majors:
//
// - Common
// - Config
// - Traits - datatype mapping issues
// - Datatype - datatype validation issues
// - Storage - errors used by the stores, codecs and the repository
// - Analyzer
// - Reader - external file format issues
//
package class

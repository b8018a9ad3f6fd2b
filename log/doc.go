// Package log contains default tvb logger interface with it's subcomponents. It is used by all packages to log
// all messages.
// The subcomponents allows to set different logger instance for some tvb components - i.e. the repository
// or the analyzers.
//
// The package wraps around `github.com/neuronlabs/uni-logger` loggers, so that any third-party logger that implements
// one of the unilogger interfaces could be used. By default no logger is set and all messages are discarded.
package log

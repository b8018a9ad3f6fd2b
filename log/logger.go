package log

import (
	"io"

	"github.com/neuronlabs/uni-logger"

	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/errors"
)

// Logging levels.
const (
	LDEBUG3   = unilogger.DEBUG3
	LDEBUG2   = unilogger.DEBUG2
	LDEBUG    = unilogger.DEBUG
	LINFO     = unilogger.INFO
	LWARNING  = unilogger.WARNING
	LERROR    = unilogger.ERROR
	LCRITICAL = unilogger.CRITICAL
	LUNKNOWN  = unilogger.UNKNOWN
)

var (
	logger       unilogger.LeveledLogger
	currentLevel = LINFO
)

// New sets the unilogger.BasicLogger writing to 'out' as the library logger. Each module logger
// gets its own sub logger of the basic logger.
func New(out io.Writer, prefix string, flags int) {
	basic := unilogger.NewBasicLogger(out, prefix, flags)
	basic.SetOutputDepth(4)
	SetLogger(basic)
}

// ParseLevel parses the level name - i.e. 'debug', 'info'. Returns an error for unknown levels.
func ParseLevel(level string) (unilogger.Level, error) {
	lvl := unilogger.ParseLevel(level)
	if lvl == LUNKNOWN {
		return lvl, errors.NewDetf(class.CommonLoggerUnknownLevel, "unknown logger level: '%s'", level)
	}
	return lvl, nil
}

// SetLevelName parses the 'level' name and sets it for the library logger and all the module loggers.
func SetLevelName(level string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	if err = SetLevel(lvl); err != nil {
		Debugf("Setting log level failed: %v", err)
	}
	return SetModulesLevel(lvl)
}

// Debug3f writes the formated LDEBUG3 level log.
func Debug3f(format string, args ...interface{}) {
	if logger == nil || currentLevel > LDEBUG3 {
		return
	}
	if debugLeveled, ok := logger.(unilogger.DebugLeveledLogger); ok {
		debugLeveled.Debug3f(format, args...)
		return
	}
	logger.Debugf(format, args...)
}

// Debugf writes the formated LDEBUG level log.
func Debugf(format string, args ...interface{}) {
	if logger != nil && currentLevel <= LDEBUG {
		logger.Debugf(format, args...)
	}
}

// Debug2f writes the formated LDEBUG2 level log.
func Debug2f(format string, args ...interface{}) {
	if logger == nil || currentLevel > LDEBUG2 {
		return
	}
	if debugLeveled, ok := logger.(unilogger.DebugLeveledLogger); ok {
		debugLeveled.Debug2f(format, args...)
		return
	}
	logger.Debugf(format, args...)
}

// Infof writes the formated LINFO level log.
func Infof(format string, args ...interface{}) {
	if logger != nil && currentLevel <= LINFO {
		logger.Infof(format, args...)
	}
}

// Warningf writes the formated LWARNING level log.
func Warningf(format string, args ...interface{}) {
	if logger != nil && currentLevel <= LWARNING {
		logger.Warningf(format, args...)
	}
}

// Errorf writes the formated LERROR level log.
func Errorf(format string, args ...interface{}) {
	if logger != nil {
		logger.Errorf(format, args...)
	}
}

// Level returns current logger Level.
func Level() unilogger.Level {
	return currentLevel
}

// SetLevel sets the level of the library logger. The module loggers without their own logger follow this level.
func SetLevel(level unilogger.Level) error {
	if level == LUNKNOWN {
		return errors.NewDet(class.CommonLoggerUnknownLevel, "can't set unknown logger level. provided level is not valid")
	}
	currentLevel = level
	for _, m := range modules {
		if m.logger == nil {
			m.currentLevel = currentLevel
		}
	}
	if logger == nil {
		return nil
	}
	setter, ok := logger.(unilogger.LevelSetter)
	if !ok {
		return errors.NewDet(class.CommonLoggerNotImplement, "logger doesn't implement LevelSetter interface")
	}
	setter.SetLevel(currentLevel)
	return nil
}

// SetLogger sets the 'l' as the library logger. The module loggers that have no logger yet get its sub loggers.
func SetLogger(l unilogger.LeveledLogger) {
	logger = l
	if setter, ok := l.(unilogger.LevelSetter); ok {
		setter.SetLevel(currentLevel)
	}
	sub, isSubLogger := l.(unilogger.SubLogger)
	for _, m := range modules {
		if m.logger == nil && isSubLogger {
			m.logger = sub.SubLogger()
			m.initializeLogger()
		}
		m.SetLevel(currentLevel)
	}
}

// SetModulesLevel sets the 'level' for all modules.
func SetModulesLevel(level unilogger.Level) error {
	if level == LUNKNOWN {
		return errors.NewDet(class.CommonLoggerUnknownLevel, "can't set unknown logger level. provided level is not valid")
	}
	for _, module := range modules {
		module.SetLevel(level)
	}
	return nil
}

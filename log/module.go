package log

import (
	"github.com/neuronlabs/uni-logger"
)

var modules = []*ModuleLogger{}

// ModuleLogger is the logger used for getting the specific modules.
type ModuleLogger struct {
	Name           string
	logger         unilogger.LeveledLogger
	isDebugLeveled bool
	isLevelSetter  bool

	levelSetter  unilogger.LevelSetter
	debugLeveled unilogger.DebugLeveledLogger

	currentLevel unilogger.Level
}

// NewModuleLogger creates new module logger for given 'name' of the module and an optional 'logger'.
func NewModuleLogger(name string, moduleLogger ...unilogger.LeveledLogger) *ModuleLogger {
	mLogger := &ModuleLogger{
		Name:         name,
		currentLevel: currentLevel,
	}
	modules = append(modules, mLogger)

	switch {
	case len(moduleLogger) > 0:
		mLogger.logger = moduleLogger[0]
		mLogger.initializeLogger()
		depthGetter, isDepthGetter := mLogger.logger.(unilogger.OutputDepthGetter)
		if isDepthGetter {
			depthSetter, isDepthSetter := mLogger.logger.(unilogger.OutputDepthSetter)
			if isDepthSetter {
				depthSetter.SetOutputDepth(depthGetter.GetOutputDepth() + 1)
			}
		}
	default:
		if sub, ok := logger.(unilogger.SubLogger); ok {
			mLogger.logger = sub.SubLogger()
			mLogger.initializeLogger()
		}
	}
	return mLogger
}

func (m *ModuleLogger) initializeLogger() {
	if m.logger == nil {
		return
	}

	m.debugLeveled, m.isDebugLeveled = m.logger.(unilogger.DebugLeveledLogger)
	lGetter, ok := m.logger.(unilogger.LevelGetter)
	if ok {
		m.currentLevel = lGetter.GetLevel()
	} else {
		m.currentLevel = currentLevel
	}
	m.levelSetter, m.isLevelSetter = m.logger.(unilogger.LevelSetter)
}

// Level gets the module logger level.
func (m *ModuleLogger) Level() unilogger.Level {
	return m.currentLevel
}

// SetLevel sets the moduleLogger level.
func (m *ModuleLogger) SetLevel(level unilogger.Level) {
	m.currentLevel = level
	if m.isLevelSetter {
		m.levelSetter.SetLevel(level)
	}
}

// Debug3f writes the formated debug3 log.
func (m *ModuleLogger) Debug3f(format string, args ...interface{}) {
	if !m.allowed(LDEBUG3) {
		return
	}
	format = m.name() + format
	switch {
	case m.logger == nil:
		Debug3f(format, args...)
	case m.isDebugLeveled:
		m.debugLeveled.Debug3f(format, args...)
	default:
		m.logger.Debugf(format, args...)
	}
}

// Debug2f writes the formated debug2 log.
func (m *ModuleLogger) Debug2f(format string, args ...interface{}) {
	if !m.allowed(LDEBUG2) {
		return
	}
	format = m.name() + format
	switch {
	case m.logger == nil:
		Debug2f(format, args...)
	case m.isDebugLeveled:
		m.debugLeveled.Debug2f(format, args...)
	default:
		m.logger.Debugf(format, args...)
	}
}

// Debugf writes the formated debug log.
func (m *ModuleLogger) Debugf(format string, args ...interface{}) {
	if !m.allowed(LDEBUG) {
		return
	}
	format = m.name() + format
	if m.logger != nil {
		m.logger.Debugf(format, args...)
	} else {
		Debugf(format, args...)
	}
}

// Infof writes the formated info log.
func (m *ModuleLogger) Infof(format string, args ...interface{}) {
	if !m.allowed(LINFO) {
		return
	}
	format = m.name() + format
	if m.logger != nil {
		m.logger.Infof(format, args...)
	} else {
		Infof(format, args...)
	}
}

// Warningf writes the formated warning log.
func (m *ModuleLogger) Warningf(format string, args ...interface{}) {
	if !m.allowed(LWARNING) {
		return
	}
	format = m.name() + format
	if m.logger != nil {
		m.logger.Warningf(format, args...)
	} else {
		Warningf(format, args...)
	}
}

// Errorf writes the formated error log.
func (m *ModuleLogger) Errorf(format string, args ...interface{}) {
	if !m.allowed(LERROR) {
		return
	}
	format = m.name() + format
	if m.logger != nil {
		m.logger.Errorf(format, args...)
	} else {
		Errorf(format, args...)
	}
}

// allowed checks the level only if the logger itself can't filter the messages.
func (m *ModuleLogger) allowed(level unilogger.Level) bool {
	if m.isLevelSetter {
		return true
	}
	return m.currentLevel == LUNKNOWN || m.currentLevel <= level
}

func (m *ModuleLogger) name() string {
	return "[" + m.Name + "] "
}

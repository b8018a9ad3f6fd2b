package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/errors"
)

// TestParseLevel tests the level parsing.
func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, LDEBUG, lvl)

	lvl, err = ParseLevel("warning")
	require.NoError(t, err)
	assert.Equal(t, LWARNING, lvl)

	_, err = ParseLevel("verbose-ish")
	require.Error(t, err)
	assert.True(t, errors.IsClass(err, class.CommonLoggerUnknownLevel))
}

// TestSetLevel tests the logger level setting.
func TestSetLevel(t *testing.T) {
	defer func() {
		logger = nil
		currentLevel = LINFO
	}()

	buf := &bytes.Buffer{}
	New(buf, "", 0)

	require.NoError(t, SetLevel(LWARNING))
	assert.Equal(t, LWARNING, Level())

	Debugf("hidden %s", "message")
	assert.NotContains(t, buf.String(), "hidden message")

	Errorf("visible %s", "message")
	assert.Contains(t, buf.String(), "visible message")

	err := SetLevel(LUNKNOWN)
	require.Error(t, err)
	assert.True(t, errors.IsClass(err, class.CommonLoggerUnknownLevel))
}

// TestModuleLogger tests the module logger.
func TestModuleLogger(t *testing.T) {
	defer func() {
		logger = nil
		currentLevel = LINFO
	}()
	buf := &bytes.Buffer{}
	New(buf, "", 0)
	require.NoError(t, SetLevel(LINFO))

	m := NewModuleLogger("analyzers")
	m.Infof("computing %d segments", 4)
	assert.Contains(t, buf.String(), "computing 4 segments")

	t.Run("NoLogger", func(t *testing.T) {
		logger = nil
		quiet := NewModuleLogger("quiet")
		assert.NotPanics(t, func() {
			quiet.Debugf("nothing")
			quiet.Errorf("nothing")
		})
	})
}

// TestSetLevelName tests setting the level of the library and the module loggers by its name.
func TestSetLevelName(t *testing.T) {
	defer func() {
		logger = nil
		currentLevel = LINFO
	}()
	buf := &bytes.Buffer{}
	New(buf, "", 0)
	m := NewModuleLogger("readers")

	require.NoError(t, SetLevelName("debug"))
	assert.Equal(t, LDEBUG, Level())
	assert.Equal(t, LDEBUG, m.Level())
	m.Debugf("reading %s", "weights")
	assert.Contains(t, buf.String(), "reading weights")

	require.NoError(t, SetLevelName("error"))
	assert.Equal(t, LERROR, m.Level())
	m.Warningf("skipped %s", "line")
	assert.NotContains(t, buf.String(), "skipped line")

	err := SetLevelName("loud")
	require.Error(t, err)
	assert.True(t, errors.IsClass(err, class.CommonLoggerUnknownLevel))
	assert.Equal(t, LERROR, Level())
}

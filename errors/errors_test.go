package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestClass tests the class composition and decomposition.
func TestClass(t *testing.T) {
	mjr := MustNewMajor()
	mnr := MustNewMinor(mjr)
	idx := MustNewIndex(mjr, mnr)

	c := MustNewClass(mjr, mnr, idx)
	assert.Equal(t, mjr, c.Major())
	assert.Equal(t, mnr, c.Minor())
	assert.Equal(t, idx, c.Index())
	assert.Equal(t, fmt.Sprintf("%d.%d.%d", mjr, mnr, idx), c.String())

	t.Run("Unique", func(t *testing.T) {
		other := MustNewClass(mjr, mnr, MustNewIndex(mjr, mnr))
		assert.NotEqual(t, c, other)
		assert.Equal(t, c.Major(), other.Major())
		assert.Equal(t, c.Minor(), other.Minor())
	})

	t.Run("NotRegisteredMinor", func(t *testing.T) {
		_, err := NewIndex(mjr, mnr+100)
		assert.Error(t, err)
	})

	t.Run("NotRegisteredMajor", func(t *testing.T) {
		_, err := NewMinor(Major(maxMajorValue))
		assert.Error(t, err)
	})

	t.Run("MajorClass", func(t *testing.T) {
		mc := MustNewMajorClass(mjr)
		assert.Equal(t, mjr, mc.Major())
		assert.Equal(t, Minor(0), mc.Minor())
		assert.Equal(t, Index(0), mc.Index())
	})
}

// TestDetailed tests the detailed error.
func TestDetailed(t *testing.T) {
	mjr := MustNewMajor()
	c := MustNewMajorClass(mjr)

	err := NewDetf(c, "invalid value: %d", 10)
	assert.Equal(t, "invalid value: 10", err.Error())
	assert.Contains(t, err.Operation, "TestDetailed")
	assert.NotEqual(t, [16]byte{}, [16]byte(err.ID))

	err.WrapDetail("second").WrapDetail("first")
	assert.Equal(t, "first second", err.Details)
	assert.Equal(t, "invalid value: 10: first second", err.Error())

	assert.True(t, IsClass(err, c))
	assert.True(t, HasMajor(err, mjr))
}

// TestIsClass tests the class checks over wrapped and multi errors.
func TestIsClass(t *testing.T) {
	mjr := MustNewMajor()
	mnr := MustNewMinor(mjr)
	c1 := MustNewClass(mjr, mnr, MustNewIndex(mjr, mnr))
	c2 := MustNewClass(mjr, mnr, MustNewIndex(mjr, mnr))

	t.Run("Wrapped", func(t *testing.T) {
		inner := New(c1, "inner")
		outer := Wrap(inner, c2, "outer")
		assert.Equal(t, "outer: inner", outer.Error())
		assert.True(t, IsClass(outer, c1))
		assert.True(t, IsClass(outer, c2))
		assert.True(t, HasMinor(outer, mjr, mnr))
	})

	t.Run("Multi", func(t *testing.T) {
		multi := MultiError{fmt.Errorf("plain"), Newf(c2, "second: %s", "x")}
		assert.True(t, IsClass(multi, c2))
		assert.False(t, IsClass(multi, c1))
		assert.Equal(t, "plain, second: x", multi.Error())
		assert.Equal(t, []Class{c2}, multi.Classes())
	})

	t.Run("ErrorOrNil", func(t *testing.T) {
		var multi MultiError
		require.NoError(t, multi.ErrorOrNil())

		single := New(c1, "single")
		multi = append(multi, single)
		assert.Equal(t, single, multi.ErrorOrNil())
	})

	t.Run("Plain", func(t *testing.T) {
		assert.False(t, IsClass(fmt.Errorf("plain"), c1))
		assert.False(t, IsClass(nil, c1))
	})
}

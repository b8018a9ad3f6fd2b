package errors

import (
	"fmt"
	"sync"
)

const (
	majorBitSize = 7
	minorBitSize = 10
	indexBitSize = 32 - majorBitSize - minorBitSize

	maxIndexValue = (1 << indexBitSize) - 1
	maxMinorValue = (1 << minorBitSize) - 1
	maxMajorValue = (1 << majorBitSize) - 1
)

// Class is the error classification model. It is composed of the major, minor and index
// subclassifications. Each subclassification is a different length number, where
// major is composed of 7, minor 10 and index of 15 bits.
//
// Example:
//  44205263 in a binary form is 00000010101000101000010011001111 which decomposes into:
//	0000001 - major (7 bit) - 1
//		   0101000101 - minor (10 bit) - 325
//					 000010011001111 - index (15 bit) - 1231
//
// Major should be a global scope division like 'Traits', 'Storage', 'Analyzer'.
// Minor should divide the 'major' into subclasses like the traits field tags.
// Index is the most precise classification - i.e. Traits - field tag - unknown key.
type Class uint32

// Major gets the class major value.
func (c Class) Major() Major {
	return Major(uint32(c) >> (32 - majorBitSize))
}

// Minor gets the class minor value.
func (c Class) Minor() Minor {
	return Minor((uint32(c) >> indexBitSize) & maxMinorValue)
}

// Index gets the class index value.
func (c Class) Index() Index {
	return Index(uint32(c) & maxIndexValue)
}

// String implements fmt.Stringer interface.
func (c Class) String() string {
	return fmt.Sprintf("%d.%d.%d", c.Major(), c.Minor(), c.Index())
}

// Major is the 7 bit top level error classification.
type Major uint8

// Minor is the 10 bit mid level error classification, unique within given Major.
type Minor uint16

// Index is the 15 bit lowest level error classification, unique within given Major and Minor.
type Index uint16

type classContainer struct {
	lock       sync.Mutex
	lastMajor  Major
	lastMinors map[Major]Minor
	lastIndex  map[Major]map[Minor]Index
}

var container = &classContainer{
	lastMinors: map[Major]Minor{},
	lastIndex:  map[Major]map[Minor]Index{},
}

// NewMajor creates new Major classification. Returns error if the maximum number of majors is reached.
func NewMajor() (Major, error) {
	container.lock.Lock()
	defer container.lock.Unlock()

	if container.lastMajor >= maxMajorValue {
		return 0, fmt.Errorf("too many majors registered")
	}
	container.lastMajor++
	return container.lastMajor, nil
}

// MustNewMajor creates new Major classification. Panics on error.
func MustNewMajor() Major {
	m, err := NewMajor()
	if err != nil {
		panic(err)
	}
	return m
}

// NewMinor creates new Minor for provided Major 'm'.
func NewMinor(m Major) (Minor, error) {
	container.lock.Lock()
	defer container.lock.Unlock()

	if m == 0 || m > container.lastMajor {
		return 0, fmt.Errorf("major: '%d' is not registered", m)
	}
	minor := container.lastMinors[m]
	if minor >= maxMinorValue {
		return 0, fmt.Errorf("too many minors registered for major: '%d'", m)
	}
	minor++
	container.lastMinors[m] = minor
	return minor, nil
}

// MustNewMinor creates new Minor for provided Major 'm'. Panics on error.
func MustNewMinor(m Major) Minor {
	minor, err := NewMinor(m)
	if err != nil {
		panic(err)
	}
	return minor
}

// NewIndex creates new Index for provided Major 'm' and Minor 'n'.
func NewIndex(m Major, n Minor) (Index, error) {
	container.lock.Lock()
	defer container.lock.Unlock()

	if n == 0 || n > container.lastMinors[m] {
		return 0, fmt.Errorf("minor: '%d' is not registered for major: '%d'", n, m)
	}
	indexes, ok := container.lastIndex[m]
	if !ok {
		indexes = map[Minor]Index{}
		container.lastIndex[m] = indexes
	}
	index := indexes[n]
	if index >= maxIndexValue {
		return 0, fmt.Errorf("too many indexes for major: '%d' and minor: '%d'", m, n)
	}
	index++
	indexes[n] = index
	return index, nil
}

// MustNewIndex creates new Index for provided Major and Minor. Panics on error.
func MustNewIndex(m Major, n Minor) Index {
	index, err := NewIndex(m, n)
	if err != nil {
		panic(err)
	}
	return index
}

// NewClass composes the Class from provided major, minor and index.
func NewClass(m Major, n Minor, i Index) (Class, error) {
	if m > maxMajorValue || m == 0 {
		return 0, fmt.Errorf("major: '%d' out of bounds", m)
	}
	if n > maxMinorValue {
		return 0, fmt.Errorf("minor: '%d' out of bounds", n)
	}
	if i > maxIndexValue {
		return 0, fmt.Errorf("index: '%d' out of bounds", i)
	}
	return Class(uint32(m)<<(32-majorBitSize) | uint32(n)<<indexBitSize | uint32(i)), nil
}

// MustNewClass composes the Class from provided major, minor and index. Panics on error.
func MustNewClass(m Major, n Minor, i Index) Class {
	c, err := NewClass(m, n, i)
	if err != nil {
		panic(err)
	}
	return c
}

// MustNewMinorClass creates new class composed of major 'm', minor 'n' with zero index.
func MustNewMinorClass(m Major, n Minor) Class {
	return MustNewClass(m, n, 0)
}

// MustNewMajorClass creates new class composed of the major 'm' only.
func MustNewMajorClass(m Major) Class {
	return MustNewClass(m, 0, 0)
}

// Package arrays contains helper functions over the `github.com/emer/etable/etensor` tensors used
// as the datatype array attributes. All tensors are row-major.
package arrays

import (
	"fmt"
	"math"

	"github.com/emer/etable/etensor"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// NewFloat creates new float tensor with provided 'shape'. If the 'values' are provided they are copied into
// the tensor and must match the shape size.
func NewFloat(shape []int, values ...float64) *etensor.Float64 {
	t := etensor.NewFloat64(shape, nil, nil)
	if len(values) > 0 {
		if len(values) != len(t.Values) {
			panic(fmt.Sprintf("arrays: %d values doesn't match shape: %v", len(values), shape))
		}
		copy(t.Values, values)
	}
	return t
}

// NewInt creates new int tensor with provided 'shape'. If the 'values' are provided they are copied into
// the tensor and must match the shape size.
func NewInt(shape []int, values ...int) *etensor.Int {
	t := etensor.NewInt(shape, nil, nil)
	if len(values) > 0 {
		if len(values) != len(t.Values) {
			panic(fmt.Sprintf("arrays: %d values doesn't match shape: %v", len(values), shape))
		}
		copy(t.Values, values)
	}
	return t
}

// Size gets the number of elements for given 'shape'.
func Size(shape []int) int {
	if len(shape) == 0 {
		return 0
	}
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// RowSize gets the number of elements of a single first axis row for given 'shape'.
func RowSize(shape []int) int {
	if len(shape) <= 1 {
		return 1
	}
	return Size(shape[1:])
}

// Strides gets the row-major strides for provided 'shape'.
func Strides(shape []int) []int {
	strides := make([]int, len(shape))
	s := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = s
		s *= shape[i]
	}
	return strides
}

// Offset gets the flat row-major offset of the 'idx' within the 'shape'.
func Offset(shape []int, idx ...int) int {
	var off int
	for i, s := range Strides(shape) {
		off += idx[i] * s
	}
	return off
}

// ShapeOf gets the copy of the shape for the float or int tensor. Returns nil for unsupported values.
func ShapeOf(t interface{}) []int {
	var shape []int
	switch tt := t.(type) {
	case *etensor.Float64:
		if tt == nil {
			return nil
		}
		shape = tt.Shapes()
	case *etensor.Int:
		if tt == nil {
			return nil
		}
		shape = tt.Shapes()
	default:
		return nil
	}
	cp := make([]int, len(shape))
	copy(cp, shape)
	return cp
}

// EqualShape checks if the shapes are equal.
func EqualShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Stats gets the minimum, maximum and mean of the finite 'values'. NaN values are skipped.
func Stats(values []float64) (min, max, mean float64) {
	min, max = math.Inf(1), math.Inf(-1)
	var (
		sum float64
		n   int
	)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN(), math.NaN(), math.NaN()
	}
	return min, max, sum / float64(n)
}

// Floats gets the float64 copy of the tensor values - the int tensors are converted.
func Floats(t interface{}) []float64 {
	switch tt := t.(type) {
	case *etensor.Float64:
		cp := make([]float64, len(tt.Values))
		copy(cp, tt.Values)
		return cp
	case *etensor.Int:
		cp := make([]float64, len(tt.Values))
		for i, v := range tt.Values {
			cp[i] = float64(v)
		}
		return cp
	}
	return nil
}

// Rows gets the copy of the first axis rows [start, stop) of the float tensor.
func Rows(t *etensor.Float64, start, stop int) (*etensor.Float64, error) {
	shape := t.Shapes()
	if err := checkRows(shape, start, stop); err != nil {
		return nil, err
	}
	rowShape := append([]int{stop - start}, shape[1:]...)
	rs := RowSize(shape)
	return NewFloat(rowShape, t.Values[start*rs:stop*rs]...), nil
}

// RowsInt gets the copy of the first axis rows [start, stop) of the int tensor.
func RowsInt(t *etensor.Int, start, stop int) (*etensor.Int, error) {
	shape := t.Shapes()
	if err := checkRows(shape, start, stop); err != nil {
		return nil, err
	}
	rowShape := append([]int{stop - start}, shape[1:]...)
	rs := RowSize(shape)
	return NewInt(rowShape, t.Values[start*rs:stop*rs]...), nil
}

func checkRows(shape []int, start, stop int) error {
	if len(shape) == 0 {
		return fmt.Errorf("empty tensor shape")
	}
	if start < 0 || stop > shape[0] || start > stop {
		return fmt.Errorf("rows range: [%d, %d) out of bounds for %d rows", start, stop, shape[0])
	}
	return nil
}

// Dense creates the gonum matrix copy of the 2-D float tensor.
func Dense(t *etensor.Float64) (*mat.Dense, error) {
	shape := t.Shapes()
	if len(shape) != 2 {
		return nil, fmt.Errorf("tensor of shape: %v is not a matrix", shape)
	}
	values := make([]float64, len(t.Values))
	copy(values, t.Values)
	return mat.NewDense(shape[0], shape[1], values), nil
}

// FromDense creates the float tensor from the gonum matrix.
func FromDense(m mat.Matrix) *etensor.Float64 {
	r, c := m.Dims()
	t := NewFloat([]int{r, c})
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			t.Values[i*c+j] = m.At(i, j)
		}
	}
	return t
}

// Copy creates the deep copy of the float tensor.
func Copy(t *etensor.Float64) *etensor.Float64 {
	if t == nil {
		return nil
	}
	return NewFloat(t.Shapes(), t.Values...)
}

// CopyInt creates the deep copy of the int tensor.
func CopyInt(t *etensor.Int) *etensor.Int {
	if t == nil {
		return nil
	}
	return NewInt(t.Shapes(), t.Values...)
}

// Transpose2D gets the transposed copy of the 2-D float tensor.
func Transpose2D(t *etensor.Float64) (*etensor.Float64, error) {
	shape := t.Shapes()
	if len(shape) != 2 {
		return nil, fmt.Errorf("tensor of shape: %v is not a matrix", shape)
	}
	r, c := shape[0], shape[1]
	out := NewFloat([]int{c, r})
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Values[j*r+i] = t.Values[i*c+j]
		}
	}
	return out, nil
}

// Fill sets all the float tensor values to 'v'.
func Fill(t *etensor.Float64, v float64) {
	for i := range t.Values {
		t.Values[i] = v
	}
}

// Norm gets the euclidean norm of the row 'i' of the 2-D tensor with 'cols' columns.
func Norm(values []float64, cols, i int) float64 {
	return floats.Norm(values[i*cols:(i+1)*cols], 2)
}

// ConcatFloat concatenates the float tensors along the first axis. All the tensors must have equal
// row shapes.
func ConcatFloat(parts ...*etensor.Float64) (*etensor.Float64, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("nothing to concatenate")
	}
	base := parts[0].Shapes()
	rows := 0
	for _, p := range parts {
		shape := p.Shapes()
		if len(shape) != len(base) || !EqualShape(shape[1:], base[1:]) {
			return nil, fmt.Errorf("tensor of shape: %v doesn't match the row shape: %v", shape, base[1:])
		}
		rows += shape[0]
	}
	out := NewFloat(append([]int{rows}, base[1:]...))
	off := 0
	for _, p := range parts {
		off += copy(out.Values[off:], p.Values)
	}
	return out, nil
}

// ConcatInt concatenates the int tensors along the first axis.
func ConcatInt(parts ...*etensor.Int) (*etensor.Int, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("nothing to concatenate")
	}
	base := parts[0].Shapes()
	rows := 0
	for _, p := range parts {
		shape := p.Shapes()
		if len(shape) != len(base) || !EqualShape(shape[1:], base[1:]) {
			return nil, fmt.Errorf("tensor of shape: %v doesn't match the row shape: %v", shape, base[1:])
		}
		rows += shape[0]
	}
	out := NewInt(append([]int{rows}, base[1:]...))
	off := 0
	for _, p := range parts {
		off += copy(out.Values[off:], p.Values)
	}
	return out, nil
}

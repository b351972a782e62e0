// Package gomlx adapts the gomlx tensor runtime to Chute's TensorBackend
// interface. Flat buffers are kept on the Go side so splitting stays cheap;
// the gomlx tensor is materialized lazily on first access.
package gomlx

import (
	"fmt"
	"sync"

	"github.com/go-chute/chute"
	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// Tensor is the concrete tensor handle produced by this backend
type Tensor struct {
	dtype chute.Dtype
	dims  []int
	flat  interface{}

	once sync.Once
	raw  *tensors.Tensor
}

// Dtype returns the element Dtype of this Tensor
func (t *Tensor) Dtype() chute.Dtype {
	return t.dtype
}

// Dims returns the dimensions of this Tensor
func (t *Tensor) Dims() []int {
	dims := make([]int, len(t.dims))
	copy(dims, t.dims)
	return dims
}

// NumRows returns the length of this Tensor's leading dimension
func (t *Tensor) NumRows() int {
	if len(t.dims) == 0 {
		return 0
	}
	return t.dims[0]
}

// Flat returns the underlying flat buffer. Must not be mutated.
func (t *Tensor) Flat() interface{} {
	return t.flat
}

// Raw materializes and returns the gomlx tensor for this handle
func (t *Tensor) Raw() *tensors.Tensor {
	t.once.Do(func() {
		t.raw = tensors.FromAnyValue(t.nested())
	})
	return t.raw
}

// nested rebuilds the flat buffer as nested Go slices, which is the shape
// gomlx's FromAnyValue expects
func (t *Tensor) nested() interface{} {
	if len(t.dims) < 2 {
		return t.flat
	}
	switch d := t.flat.(type) {
	case []int32:
		return nest(d, t.dims)
	case []int64:
		return nest(d, t.dims)
	case []float32:
		return nest(d, t.dims)
	case []float64:
		return nest(d, t.dims)
	default:
		return t.flat
	}
}

func nest[T any](flat []T, dims []int) interface{} {
	if len(dims) == 2 {
		out := make([][]T, dims[0])
		for i := 0; i < dims[0]; i++ {
			out[i] = flat[i*dims[1] : (i+1)*dims[1]]
		}
		return out
	}
	// the loader only produces 1-D and 2-D tensors
	return flat
}

// Backend is a chute.TensorBackend backed by gomlx tensors
type Backend struct{}

// CreateBackend is a factory for gomlx Backends
func CreateBackend() chute.TensorBackend {
	return &Backend{}
}

// FromFlatData builds a dense tensor from a flat buffer and its dimensions
func (b *Backend) FromFlatData(dtype chute.Dtype, data interface{}, dims ...int) (chute.Tensor, error) {
	n, err := flatLen(data)
	if err != nil {
		return nil, err
	}
	if !flatMatches(data, dtype) {
		return nil, fmt.Errorf("Buffer %T does not hold %s elements", data, dtype)
	}
	size := 1
	for _, d := range dims {
		if d < 0 {
			return nil, fmt.Errorf("Negative dimension %d", d)
		}
		size *= d
	}
	if size != n {
		return nil, fmt.Errorf("Buffer holds %d elements but dimensions %v require %d", n, dims, size)
	}
	owned := make([]int, len(dims))
	copy(owned, dims)
	return &Tensor{dtype: dtype, dims: owned, flat: data}, nil
}

// Split partitions t into len(sizes) tensors along the given axis. Axis 0
// splits rows; axis 1 splits the columns of a 2-D tensor, and single-column
// results are returned as 1-D tensors.
func (b *Backend) Split(t chute.Tensor, sizes []int, axis int) ([]chute.Tensor, error) {
	tt, ok := t.(*Tensor)
	if !ok {
		return nil, fmt.Errorf("Tensor %T was not produced by this backend", t)
	}
	switch axis {
	case 0:
		return b.splitRows(tt, sizes)
	case 1:
		return b.splitCols(tt, sizes)
	default:
		return nil, fmt.Errorf("Cannot split along axis %d", axis)
	}
}

func (b *Backend) splitRows(t *Tensor, sizes []int) ([]chute.Tensor, error) {
	if len(t.dims) == 0 {
		return nil, fmt.Errorf("Cannot row-split a 0-D tensor")
	}
	total := 0
	for _, s := range sizes {
		total += s
	}
	if total != t.dims[0] {
		return nil, fmt.Errorf("Split sizes cover %d rows but tensor has %d", total, t.dims[0])
	}
	rowWidth := 1
	for _, d := range t.dims[1:] {
		rowWidth *= d
	}
	out := make([]chute.Tensor, len(sizes))
	offset := 0
	for i, s := range sizes {
		part, err := copyRange(t.flat, offset*rowWidth, (offset+s)*rowWidth)
		if err != nil {
			return nil, err
		}
		dims := append([]int{s}, t.dims[1:]...)
		out[i] = &Tensor{dtype: t.dtype, dims: dims, flat: part}
		offset += s
	}
	return out, nil
}

func (b *Backend) splitCols(t *Tensor, sizes []int) ([]chute.Tensor, error) {
	if len(t.dims) != 2 {
		return nil, fmt.Errorf("Cannot column-split a %d-D tensor", len(t.dims))
	}
	total := 0
	for _, s := range sizes {
		total += s
	}
	if total != t.dims[1] {
		return nil, fmt.Errorf("Split sizes cover %d columns but tensor has %d", total, t.dims[1])
	}
	rows, cols := t.dims[0], t.dims[1]
	out := make([]chute.Tensor, len(sizes))
	offset := 0
	for i, s := range sizes {
		part, err := gatherCols(t.flat, rows, cols, offset, s)
		if err != nil {
			return nil, err
		}
		var dims []int
		if s == 1 {
			dims = []int{rows}
		} else {
			dims = []int{rows, s}
		}
		out[i] = &Tensor{dtype: t.dtype, dims: dims, flat: part}
		offset += s
	}
	return out, nil
}

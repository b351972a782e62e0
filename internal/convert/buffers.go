package convert

import (
	"fmt"

	"github.com/go-chute/chute"
)

// segmentLengths builds the per-batch row counts used to slice every tensor
// of a chunk: ceil(rows/batchSize) batches, all of batchSize rows except the
// last, which holds the remainder.
func segmentLengths(rows int, batchSize int) []int {
	n := (rows + batchSize - 1) / batchSize
	sizes := make([]int, n)
	for i := 0; i < n-1; i++ {
		sizes[i] = batchSize
	}
	sizes[n-1] = rows - (n-1)*batchSize
	return sizes
}

func onesSizes(n int) []int {
	sizes := make([]int, n)
	for i := range sizes {
		sizes[i] = 1
	}
	return sizes
}

// stackScalars packs the named scalar columns of a chunk into one row-major
// [rows, len(names)] flat buffer, so the whole group converts to a tensor in
// one call and splits per batch afterwards.
func stackScalars(chunk chute.Frame, names []string, rows int) (interface{}, error) {
	bufs := make([]interface{}, len(names))
	for i, name := range names {
		col, err := chunk.Column(name)
		if err != nil {
			return nil, err
		}
		bufs[i], err = col.Data()
		if err != nil {
			return nil, err
		}
	}
	switch bufs[0].(type) {
	case []int32:
		return stack[int32](bufs, rows)
	case []int64:
		return stack[int64](bufs, rows)
	case []float32:
		return stack[float32](bufs, rows)
	case []float64:
		return stack[float64](bufs, rows)
	default:
		return nil, fmt.Errorf("Unsupported value buffer type %T", bufs[0])
	}
}

func stack[T any](bufs []interface{}, rows int) ([]T, error) {
	n := len(bufs)
	out := make([]T, rows*n)
	for j, b := range bufs {
		data, ok := b.([]T)
		if !ok {
			return nil, fmt.Errorf("Cannot stack %T with %T columns", b, out)
		}
		if len(data) != rows {
			return nil, fmt.Errorf("Scalar column holds %d rows; expected %d", len(data), rows)
		}
		for i := 0; i < rows; i++ {
			out[i*n+j] = data[i]
		}
	}
	return out, nil
}

// sliceVals copies elements [start, stop) of a flat value buffer
func sliceVals(data interface{}, start int64, stop int64) (interface{}, error) {
	switch d := data.(type) {
	case []int32:
		out := make([]int32, stop-start)
		copy(out, d[start:stop])
		return out, nil
	case []int64:
		out := make([]int64, stop-start)
		copy(out, d[start:stop])
		return out, nil
	case []float32:
		out := make([]float32, stop-start)
		copy(out, d[start:stop])
		return out, nil
	case []float64:
		out := make([]float64, stop-start)
		copy(out, d[start:stop])
		return out, nil
	default:
		return nil, fmt.Errorf("Unsupported value buffer type %T", data)
	}
}

// padRows scatters rows [lo, lo+rows) of a flattened list column into a
// zero-filled row-major [rows, maxLen] buffer.
func padRows(values interface{}, offsets []int64, lo int, rows int, maxLen int) (interface{}, error) {
	switch d := values.(type) {
	case []int32:
		return padRowsOf(d, offsets, lo, rows, maxLen), nil
	case []int64:
		return padRowsOf(d, offsets, lo, rows, maxLen), nil
	case []float32:
		return padRowsOf(d, offsets, lo, rows, maxLen), nil
	case []float64:
		return padRowsOf(d, offsets, lo, rows, maxLen), nil
	default:
		return nil, fmt.Errorf("Unsupported value buffer type %T", values)
	}
}

func padRowsOf[T any](d []T, offsets []int64, lo int, rows int, maxLen int) []T {
	out := make([]T, rows*maxLen)
	for i := 0; i < rows; i++ {
		copy(out[i*maxLen:(i+1)*maxLen], d[offsets[lo+i]:offsets[lo+i+1]])
	}
	return out
}

package frame

import (
	"fmt"

	"github.com/go-chute/chute"
)

// bufLen returns the number of elements in a flat value buffer
func bufLen(data interface{}) (int, error) {
	switch d := data.(type) {
	case []int32:
		return len(d), nil
	case []int64:
		return len(d), nil
	case []float32:
		return len(d), nil
	case []float64:
		return len(d), nil
	default:
		return 0, fmt.Errorf("Unsupported value buffer type %T", data)
	}
}

// bufMatches returns true iff a flat value buffer holds elements of the given Dtype
func bufMatches(data interface{}, dtype chute.Dtype) bool {
	switch data.(type) {
	case []int32:
		return dtype == chute.Int32
	case []int64:
		return dtype == chute.Int64
	case []float32:
		return dtype == chute.Float32
	case []float64:
		return dtype == chute.Float64
	default:
		return false
	}
}

// sliceBuf copies elements [start, stop) of a flat value buffer
func sliceBuf(data interface{}, start int64, stop int64) (interface{}, error) {
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

// appendBuf appends the contents of src to dst, allocating dst if nil
func appendBuf(dst interface{}, src interface{}) (interface{}, error) {
	if dst == nil {
		return sliceBuf(src, 0, int64(mustLen(src)))
	}
	switch d := dst.(type) {
	case []int32:
		s, ok := src.([]int32)
		if !ok {
			return nil, fmt.Errorf("Cannot append %T to %T", src, dst)
		}
		return append(d, s...), nil
	case []int64:
		s, ok := src.([]int64)
		if !ok {
			return nil, fmt.Errorf("Cannot append %T to %T", src, dst)
		}
		return append(d, s...), nil
	case []float32:
		s, ok := src.([]float32)
		if !ok {
			return nil, fmt.Errorf("Cannot append %T to %T", src, dst)
		}
		return append(d, s...), nil
	case []float64:
		s, ok := src.([]float64)
		if !ok {
			return nil, fmt.Errorf("Cannot append %T to %T", src, dst)
		}
		return append(d, s...), nil
	default:
		return nil, fmt.Errorf("Unsupported value buffer type %T", dst)
	}
}

// appendRange appends elements [start, stop) of src to dst, allocating dst if nil
func appendRange(dst interface{}, src interface{}, start int64, stop int64) (interface{}, error) {
	part, err := sliceBuf(src, start, stop)
	if err != nil {
		return nil, err
	}
	return appendBuf(dst, part)
}

// gatherRows copies elements of a flat scalar buffer in permutation order
func gatherRows(data interface{}, perm []int) (interface{}, error) {
	switch d := data.(type) {
	case []int32:
		out := make([]int32, len(perm))
		for i, p := range perm {
			out[i] = d[p]
		}
		return out, nil
	case []int64:
		out := make([]int64, len(perm))
		for i, p := range perm {
			out[i] = d[p]
		}
		return out, nil
	case []float32:
		out := make([]float32, len(perm))
		for i, p := range perm {
			out[i] = d[p]
		}
		return out, nil
	case []float64:
		out := make([]float64, len(perm))
		for i, p := range perm {
			out[i] = d[p]
		}
		return out, nil
	default:
		return nil, fmt.Errorf("Unsupported value buffer type %T", data)
	}
}

func mustLen(data interface{}) int {
	n, err := bufLen(data)
	if err != nil {
		return 0
	}
	return n
}

package gomlx

import (
	"fmt"

	"github.com/go-chute/chute"
)

func flatLen(data interface{}) (int, error) {
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

func flatMatches(data interface{}, dtype chute.Dtype) bool {
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

func copyRange(data interface{}, start int, stop int) (interface{}, error) {
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

func gatherCols(data interface{}, rows int, cols int, offset int, width int) (interface{}, error) {
	switch d := data.(type) {
	case []int32:
		return gatherColsOf(d, rows, cols, offset, width), nil
	case []int64:
		return gatherColsOf(d, rows, cols, offset, width), nil
	case []float32:
		return gatherColsOf(d, rows, cols, offset, width), nil
	case []float64:
		return gatherColsOf(d, rows, cols, offset, width), nil
	default:
		return nil, fmt.Errorf("Unsupported value buffer type %T", data)
	}
}

func gatherColsOf[T any](d []T, rows int, cols int, offset int, width int) []T {
	out := make([]T, rows*width)
	for i := 0; i < rows; i++ {
		copy(out[i*width:(i+1)*width], d[i*cols+offset:i*cols+offset+width])
	}
	return out
}

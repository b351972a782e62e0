package convert

import (
	"github.com/go-chute/chute"
	cerrors "github.com/go-chute/chute/errors"
)

// toFixedLength materializes rows [lo, hi) of a flattened list column at a
// fixed width: a zero-filled [rows, maxLen] container plus either a
// row-relative position index (offsets mode) or per-row counts (nnz mode).
// Any row longer than maxLen fails the conversion; there is no truncation
// path.
func (e *Engine) toFixedLength(name string, dtype chute.Dtype, lay *listLayout, lo int, hi int, maxLen int, forceDense bool) (chute.BatchValue, error) {
	rows := hi - lo
	lengths := make([]int, rows)
	observed := 0
	total := 0
	for i := 0; i < rows; i++ {
		var n int64
		if lay.counts != nil {
			n = lay.counts[lo+i]
		} else {
			n = lay.offsets[lo+i+1] - lay.offsets[lo+i]
		}
		lengths[i] = int(n)
		total += int(n)
		if int(n) > observed {
			observed = int(n)
		}
	}
	if observed > maxLen {
		return nil, cerrors.SequenceTooLongError{Name: name, Limit: maxLen, Observed: observed}
	}
	padded, err := padRows(lay.values, lay.offsets, lo, rows, maxLen)
	if err != nil {
		return nil, err
	}
	denseT, err := e.backend.FromFlatData(dtype, padded, rows, maxLen)
	if err != nil {
		return nil, err
	}
	if forceDense {
		return denseT, nil
	}
	var idx []int64
	if e.useNNZ {
		idx = make([]int64, rows)
		for i, n := range lengths {
			idx[i] = int64(n)
		}
	} else {
		idx = make([]int64, 0, total)
		for _, n := range lengths {
			for j := 0; j < n; j++ {
				idx = append(idx, int64(j))
			}
		}
	}
	idxT, err := e.backend.FromFlatData(chute.Int64, idx, len(idx))
	if err != nil {
		return nil, err
	}
	return chute.ListPair{Values: denseT, Index: idxT, Rows: rows}, nil
}

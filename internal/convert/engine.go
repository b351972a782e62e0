// Package convert turns batch-aligned row chunks into ordered sequences of
// per-batch tensor mappings, handling scalar stacking, ragged offset/nnz
// bookkeeping and fixed-length sparse materialization.
package convert

import (
	"fmt"

	"github.com/go-chute/chute"
	cerrors "github.com/go-chute/chute/errors"
)

// dtypeGroup collects the columns sharing one Dtype, split into scalar and
// list members. Groups are resolved once when the Engine is built.
type dtypeGroup struct {
	dtype   chute.Dtype
	scalars []string
	lists   []string
}

// listLayout is the per-chunk flattened representation of one list column
type listLayout struct {
	values  interface{}
	offsets []int64
	counts  []int64
}

// Engine is the tensor conversion engine. It is built once per loader and
// reused for every chunk; all schema dispatch (dtype groups, column classes,
// sparse bounds, label selection) happens at construction.
type Engine struct {
	backend    chute.TensorBackend
	batchSize  int
	useNNZ     bool
	groups     []dtypeGroup
	sparseMax  map[string]int
	forceDense map[string]bool
	labels     []string
	transforms []chute.Transform
}

// NewEngine resolves schema into closed per-column variants and returns an
// Engine converting chunks into batches of at most batchSize rows. When
// useNNZ is set, list columns carry per-row value counts instead of rebased
// offsets.
func NewEngine(schema chute.Schema, backend chute.TensorBackend, batchSize int, useNNZ bool, transforms []chute.Transform) (*Engine, error) {
	if batchSize < 1 {
		return nil, fmt.Errorf("batchSize must be at least 1, got %d", batchSize)
	}
	e := &Engine{
		backend:    backend,
		batchSize:  batchSize,
		useNNZ:     useNNZ,
		sparseMax:  make(map[string]int),
		forceDense: make(map[string]bool),
		labels:     schema.SelectByRole(chute.Label),
		transforms: transforms,
	}
	groupOf := make(map[chute.Dtype]int)
	for _, name := range schema.ColumnNames() {
		col, err := schema.Column(name)
		if err != nil {
			return nil, err
		}
		gi, ok := groupOf[col.Dtype]
		if !ok {
			gi = len(e.groups)
			groupOf[col.Dtype] = gi
			e.groups = append(e.groups, dtypeGroup{dtype: col.Dtype})
		}
		switch col.Class() {
		case chute.Scalar:
			e.groups[gi].scalars = append(e.groups[gi].scalars, name)
		case chute.FixedList:
			e.groups[gi].lists = append(e.groups[gi].lists, name)
			if col.ValueCount == nil || col.ValueCount.Max <= 0 {
				return nil, cerrors.SchemaValidationError{Errs: fmt.Errorf("dense list column %s does not define a max value count", name)}
			}
			e.sparseMax[name] = col.ValueCount.Max
			e.forceDense[name] = true
		case chute.RaggedList:
			e.groups[gi].lists = append(e.groups[gi].lists, name)
			if col.ValueCount != nil && col.ValueCount.Min == col.ValueCount.Max && col.ValueCount.Max > 0 {
				e.sparseMax[name] = col.ValueCount.Max
			}
		}
	}
	return e, nil
}

// Convert slices chunk into ceil(rows/batchSize) batches and materializes
// every column as a tensor, separating the configured label column out of the
// feature mapping.
func (e *Engine) Convert(chunk chute.Frame) ([]chute.Batch, error) {
	rows := chunk.NumRows()
	if rows == 0 {
		return nil, nil
	}
	sizes := segmentLengths(rows, e.batchSize)
	bounds := make([]int, len(sizes)+1)
	for i, s := range sizes {
		bounds[i+1] = bounds[i] + s
	}

	features := make([]map[string]chute.BatchValue, len(sizes))
	for b := range features {
		features[b] = make(map[string]chute.BatchValue)
	}

	// flatten every list column up front; this is the chunk's combined
	// offsets table, with nnz counts computed once if requested
	layouts := make(map[string]*listLayout)
	for _, g := range e.groups {
		for _, name := range g.lists {
			col, err := chunk.Column(name)
			if err != nil {
				return nil, err
			}
			lay, err := flattenList(name, col, rows, e.useNNZ)
			if err != nil {
				return nil, err
			}
			layouts[name] = lay
		}
	}

	for _, g := range e.groups {
		if len(g.scalars) > 0 {
			if err := e.convertScalars(chunk, g, rows, sizes, features); err != nil {
				return nil, err
			}
		}
		for _, name := range g.lists {
			lay := layouts[name]
			limit, sparse := e.sparseMax[name]
			for b := range sizes {
				lo, hi := bounds[b], bounds[b+1]
				var bv chute.BatchValue
				var err error
				if sparse {
					bv, err = e.toFixedLength(name, g.dtype, lay, lo, hi, limit, e.forceDense[name])
				} else {
					bv, err = e.raggedBatch(g.dtype, lay, lo, hi)
				}
				if err != nil {
					return nil, err
				}
				features[b][name] = bv
			}
		}
	}

	batches := make([]chute.Batch, len(sizes))
	for b := range batches {
		feats := features[b]
		var labels chute.BatchValue
		if len(e.labels) > 0 {
			labels = feats[e.labels[0]]
			delete(feats, e.labels[0])
		}
		for _, t := range e.transforms {
			var err error
			feats, err = t.Apply(feats)
			if err != nil {
				return nil, err
			}
		}
		batches[b] = chute.Batch{Features: feats, Labels: labels}
	}
	return batches, nil
}

// convertScalars stacks a dtype group's scalar columns into one
// [rows, nScalar] tensor, splits it per batch, then per column, reusing the
// same split indices for every tensor in the chunk.
func (e *Engine) convertScalars(chunk chute.Frame, g dtypeGroup, rows int, sizes []int, features []map[string]chute.BatchValue) error {
	stacked, err := stackScalars(chunk, g.scalars, rows)
	if err != nil {
		return err
	}
	groupT, err := e.backend.FromFlatData(g.dtype, stacked, rows, len(g.scalars))
	if err != nil {
		return err
	}
	parts, err := e.backend.Split(groupT, sizes, 0)
	if err != nil {
		return err
	}
	ones := onesSizes(len(g.scalars))
	for b, part := range parts {
		colTs, err := e.backend.Split(part, ones, 1)
		if err != nil {
			return err
		}
		for j, name := range g.scalars {
			features[b][name] = colTs[j]
		}
	}
	return nil
}

// raggedBatch slices rows [lo, hi) of a flattened list column: values are cut
// to the batch's extent and the index is rebased to zero-origin offsets, or
// replaced with per-row counts in nnz mode.
func (e *Engine) raggedBatch(dtype chute.Dtype, lay *listLayout, lo int, hi int) (chute.BatchValue, error) {
	start, stop := lay.offsets[lo], lay.offsets[hi]
	vals, err := sliceVals(lay.values, start, stop)
	if err != nil {
		return nil, err
	}
	valT, err := e.backend.FromFlatData(dtype, vals, int(stop-start))
	if err != nil {
		return nil, err
	}
	var idx []int64
	if e.useNNZ {
		idx = append([]int64(nil), lay.counts[lo:hi]...)
	} else {
		idx = make([]int64, hi-lo)
		for i := range idx {
			idx[i] = lay.offsets[lo+i] - start
		}
	}
	idxT, err := e.backend.FromFlatData(chute.Int64, idx, len(idx))
	if err != nil {
		return nil, err
	}
	return chute.ListPair{Values: valT, Index: idxT, Rows: hi - lo}, nil
}

// flattenList pulls apart one list column and validates the offsets shape
func flattenList(name string, col chute.FrameColumn, rows int, useNNZ bool) (*listLayout, error) {
	values, offsets, err := col.ListLayout()
	if err != nil {
		return nil, err
	}
	if len(offsets) != rows+1 {
		return nil, cerrors.LayoutError{Name: name, Reason: fmt.Sprintf("expected %d row boundaries, found %d", rows+1, len(offsets))}
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			return nil, cerrors.LayoutError{Name: name, Reason: "offsets are decreasing"}
		}
	}
	lay := &listLayout{values: values, offsets: offsets}
	if useNNZ {
		lay.counts = make([]int64, rows)
		for i := 0; i < rows; i++ {
			lay.counts[i] = offsets[i+1] - offsets[i]
		}
	}
	return lay, nil
}

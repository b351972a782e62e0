package frame

import (
	"fmt"

	"github.com/go-chute/chute"
)

// columnImpl is Chute's internal implementation of FrameColumn. Columns are
// immutable once built; every Frame operation produces fresh buffers.
type columnImpl struct {
	schema       chute.ColumnSchema
	numRows      int
	data         interface{}
	offsets      []int64
	innerOffsets []int64
}

// Name returns the name of this column
func (c *columnImpl) Name() string {
	return c.schema.Name
}

// Dtype returns the element Dtype of this column
func (c *columnImpl) Dtype() chute.Dtype {
	return c.schema.Dtype
}

// NumRows retrieves the number of rows in this column
func (c *columnImpl) NumRows() int {
	return c.numRows
}

// IsList returns true iff this column holds per-row sequences
func (c *columnImpl) IsList() bool {
	return c.schema.IsList
}

// Data returns the flat value buffer of a scalar column
func (c *columnImpl) Data() (interface{}, error) {
	if c.schema.IsList {
		return nil, fmt.Errorf("Column %s is a list column; use ListLayout", c.schema.Name)
	}
	return c.data, nil
}

// ListLayout decomposes a list column into flattened leaf values and
// row-boundary offsets. For a nested list column the decomposition is applied
// twice: the leaves are returned directly and the outer offsets are composed
// by indexing the inner offsets with the outer ones. Returned buffers must
// not be mutated.
func (c *columnImpl) ListLayout() (interface{}, []int64, error) {
	if !c.schema.IsList {
		return nil, nil, fmt.Errorf("Column %s is not a list column", c.schema.Name)
	}
	if c.innerOffsets == nil {
		return c.data, c.offsets, nil
	}
	composed := make([]int64, len(c.offsets))
	for i, o := range c.offsets {
		composed[i] = c.innerOffsets[o]
	}
	return c.data, composed, nil
}

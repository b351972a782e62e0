package chute

import "math/rand"

// Frame is an in-memory columnar table of rows sharing a Schema. Frames are
// the unit of data handed between the dataset layer, the chunk assembler and
// the tensor conversion engine.
type Frame interface {
	// ID retrieves the ID of this Frame
	ID() string
	// Schema returns the Schema this Frame's columns conform to
	Schema() Schema
	// NumRows retrieves the number of rows in this Frame
	NumRows() int
	// Column retrieves a column of this Frame by name
	Column(name string) (FrameColumn, error)
	// Select produces a new Frame containing only the named columns
	Select(names []string) (Frame, error)
	// Slice produces a new Frame containing rows [start, end), with the row index reset
	Slice(start int, end int) (Frame, error)
	// Shuffle produces a new Frame with rows permuted by the given source of randomness
	Shuffle(r *rand.Rand) (Frame, error)
}

// FrameColumn is one column of a Frame
type FrameColumn interface {
	// Name returns the name of this column
	Name() string
	// Dtype returns the element Dtype of this column
	Dtype() Dtype
	// NumRows retrieves the number of rows in this column
	NumRows() int
	// IsList returns true iff this column holds per-row sequences
	IsList() bool
	// Data returns the flat value buffer of a scalar column, typed
	// []int32, []int64, []float32 or []float64 according to Dtype
	Data() (interface{}, error)
	// ListLayout decomposes a list column into its flattened leaf values and
	// row-boundary offsets. Nested list columns are flattened fully, with the
	// outer offsets composed through the inner offsets.
	ListLayout() (values interface{}, offsets []int64, err error)
}

package chute

// Tensor is an opaque dense tensor handle produced by a TensorBackend.
// Callers type-assert to the backend's concrete tensor type to reach the
// underlying runtime object.
type Tensor interface {
	// Dtype returns the element Dtype of this Tensor
	Dtype() Dtype
	// Dims returns the dimensions of this Tensor
	Dims() []int
	// NumRows returns the length of this Tensor's leading dimension
	NumRows() int
}

// ListPair is the batch representation of a list column: flattened values
// alongside an index structure. In offsets mode Index holds the zero-rebased
// row start offsets for the batch; in counts mode it holds per-row value
// counts (nnz). For fixed-length materializations Values is the padded
// [rows, maxLen] tensor and Index distinguishes padding from data
// (row-relative value positions, or per-row counts in counts mode).
type ListPair struct {
	Values Tensor
	Index  Tensor
	Rows   int
}

// NumRows returns the number of rows represented by this ListPair
func (l ListPair) NumRows() int {
	return l.Rows
}

// BatchValue is either a dense Tensor or a ListPair
type BatchValue interface {
	NumRows() int
}

// Batch is one training-ready unit: a mapping from column names to tensors,
// with the configured label column separated out
type Batch struct {
	Features map[string]BatchValue
	Labels   BatchValue
}

// TensorBackend adapts a numeric tensor runtime. Implementations own the
// concrete tensor type; the conversion engine only relies on these two
// primitives.
type TensorBackend interface {
	// FromFlatData builds a dense tensor from a flat buffer (typed according
	// to dtype) and its dimensions
	FromFlatData(dtype Dtype, data interface{}, dims ...int) (Tensor, error)
	// Split partitions t into len(sizes) tensors along the given axis (0 or 1)
	Split(t Tensor, sizes []int, axis int) ([]Tensor, error)
}

// Transform rewrites the feature mapping of each produced Batch, in order of
// registration, before the Batch reaches the consumer
type Transform interface {
	Apply(features map[string]BatchValue) (map[string]BatchValue, error)
}

package chute

// PartitionStream is a generalized interface for lazily iterating over the
// row-groups of a partitioned Dataset, regardless of where they come from
type PartitionStream interface {
	HasNextRowGroup() bool
	NextRowGroup() (Frame, error)
	OnEnd(onEnd func())
}

// Dataset is a partitioned source of tabular rows. Datasets describe their
// columns via a Schema and serve row-groups through PartitionStreams.
type Dataset interface {
	// Schema returns the Schema shared by every partition of this Dataset
	Schema() Schema
	// NumPartitions returns the total number of partitions in this Dataset
	NumPartitions() int
	// NumRows returns the total number of rows across the given partition indices
	NumRows(indices []int) (int64, error)
	// Iterate produces a PartitionStream serving the given partition indices,
	// in order, repeated for the given number of epochs, restricted to the
	// given columns
	Iterate(indices []int, epochs int, columns []string) (PartitionStream, error)
}

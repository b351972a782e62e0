package chute

// Loader is the consumer-facing pull side of the chunk-batching pipeline.
// A Loader owns exactly one background worker while an epoch is in flight.
type Loader interface {
	// BeginEpoch resets iteration state and starts the pipeline for a new epoch
	BeginEpoch() error
	// NextBatch yields the next Batch, starting an epoch first if none is in
	// flight. Returns errors.NoMoreBatchesError when the epoch is exhausted;
	// a subsequent BeginEpoch (or NextBatch) starts over from row 0.
	NextBatch() (Batch, error)
	// Stop halts the pipeline and resets cached iteration state. Idempotent.
	Stop()
	// NumBatches returns the number of batches one epoch yields for this shard
	NumBatches() (int, error)
	// NumRowsProcessed returns the number of rows yielded since the last BeginEpoch
	NumRowsProcessed() int64
	// Epochs returns a Loader which streams the shard's partitions the given
	// number of times through a single pipeline run
	Epochs(epochs int) Loader
}

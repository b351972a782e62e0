package errors

import (
	"fmt"
)

// ShardConfigurationError occurs when a shard layout cannot cover the partition universe
type ShardConfigurationError struct {
	NumShards     int
	NumPartitions int
}

// Error returns a textual representation of this ShardConfigurationError
func (e ShardConfigurationError) Error() string {
	return fmt.Sprintf("Cannot shard %d partitions across %d shards", e.NumPartitions, e.NumShards)
}

// SchemaValidationError occurs when a Schema cannot serve the loader, discovered at construction
type SchemaValidationError struct{ Errs error }

// Error returns a textual representation of this SchemaValidationError
func (e SchemaValidationError) Error() string {
	return fmt.Sprintf("Schema is not usable by the loader: %v", e.Errs)
}

// SequenceTooLongError occurs when a row of a list column exceeds the column's configured maximum length
type SequenceTooLongError struct {
	Name     string
	Limit    int
	Observed int
}

// Error returns a textual representation of this SequenceTooLongError
func (e SequenceTooLongError) Error() string {
	return fmt.Sprintf("Column %s is configured for sequences of at most %d values but the largest sequence in this batch has %d values", e.Name, e.Limit, e.Observed)
}

// LayoutError occurs when a list column's offsets array is malformed
type LayoutError struct {
	Name   string
	Reason string
}

// Error returns a textual representation of this LayoutError
func (e LayoutError) Error() string {
	return fmt.Sprintf("Offsets for column %s are malformed: %s", e.Name, e.Reason)
}

// IncompatibleFrameError occurs when a Frame's columns do not match an expected Schema
type IncompatibleFrameError struct{ Name string }

// Error returns a textual representation of this IncompatibleFrameError
func (e IncompatibleFrameError) Error() string {
	return fmt.Sprintf("Frame is missing data for column %s", e.Name)
}

// NoMorePartitionsError occurs when there are no more row-groups in a PartitionStream
type NoMorePartitionsError struct{}

// Error returns a textual representation of this NoMorePartitionsError
func (e NoMorePartitionsError) Error() string {
	return "No more partitions"
}

// NoMoreBatchesError occurs when an epoch is exhausted. It is a control-flow
// signal rather than a failure; beginning a new epoch resumes iteration.
type NoMoreBatchesError struct{}

// Error returns a textual representation of this NoMoreBatchesError
func (e NoMoreBatchesError) Error() string {
	return "No more batches in this epoch"
}

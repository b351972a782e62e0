// Package memory provides a Dataset served entirely from Frames already in
// memory. It is the simplest Dataset implementation, useful for tests and for
// feeding rows produced by other Go code.
package memory

import (
	"fmt"
	"sync"

	"github.com/go-chute/chute"
	cerrors "github.com/go-chute/chute/errors"
)

type dataSourceImpl struct {
	schema chute.Schema
	parts  []chute.Frame
}

// CreateDataSource builds a Dataset over the given Frames, one Frame per
// partition. Every Frame must carry the Dataset's columns.
func CreateDataSource(schema chute.Schema, partitions []chute.Frame) (chute.Dataset, error) {
	if len(partitions) == 0 {
		return nil, fmt.Errorf("Cannot create a Dataset with zero partitions")
	}
	for _, p := range partitions {
		for _, name := range schema.ColumnNames() {
			if !p.Schema().HasColumn(name) {
				return nil, cerrors.IncompatibleFrameError{Name: name}
			}
		}
	}
	return &dataSourceImpl{schema: schema, parts: partitions}, nil
}

// Schema returns the Schema shared by every partition of this Dataset
func (d *dataSourceImpl) Schema() chute.Schema {
	return d.schema
}

// NumPartitions returns the total number of partitions in this Dataset
func (d *dataSourceImpl) NumPartitions() int {
	return len(d.parts)
}

// NumRows returns the total number of rows across the given partition indices
func (d *dataSourceImpl) NumRows(indices []int) (int64, error) {
	var total int64
	for _, idx := range indices {
		if idx < 0 || idx >= len(d.parts) {
			return 0, fmt.Errorf("Partition index %d out of range [0, %d)", idx, len(d.parts))
		}
		total += int64(d.parts[idx].NumRows())
	}
	return total, nil
}

// Iterate produces a PartitionStream serving the given partition indices, in
// order, repeated for the given number of epochs
func (d *dataSourceImpl) Iterate(indices []int, epochs int, columns []string) (chute.PartitionStream, error) {
	if epochs < 1 {
		return nil, fmt.Errorf("epochs must be at least 1, got %d", epochs)
	}
	for _, idx := range indices {
		if idx < 0 || idx >= len(d.parts) {
			return nil, fmt.Errorf("Partition index %d out of range [0, %d)", idx, len(d.parts))
		}
	}
	return &partitionStream{
		source:       d,
		indices:      indices,
		epochs:       epochs,
		columns:      columns,
		endListeners: []func(){},
	}, nil
}

type partitionStream struct {
	lock         sync.Mutex
	source       *dataSourceImpl
	indices      []int
	epochs       int
	columns      []string
	pos          int
	endListeners []func()
}

// fireEnd notifies end listeners exactly once. Callers must hold the lock.
func (s *partitionStream) fireEnd() {
	for _, onEnd := range s.endListeners {
		onEnd()
	}
	s.endListeners = []func(){}
}

// HasNextRowGroup returns true iff this PartitionStream will serve more Frames
func (s *partitionStream) HasNextRowGroup() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.pos >= len(s.indices)*s.epochs {
		s.fireEnd()
		return false
	}
	return true
}

// NextRowGroup returns the next Frame of this PartitionStream, restricted to
// the stream's columns, or NoMorePartitionsError at exhaustion
func (s *partitionStream) NextRowGroup() (chute.Frame, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.pos >= len(s.indices)*s.epochs {
		s.fireEnd()
		return nil, cerrors.NoMorePartitionsError{}
	}
	idx := s.indices[s.pos%len(s.indices)]
	s.pos++
	return s.source.parts[idx].Select(s.columns)
}

// OnEnd registers a listener which fires when this PartitionStream runs out
// of Frames
func (s *partitionStream) OnEnd(onEnd func()) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.endListeners = append(s.endListeners, onEnd)
}

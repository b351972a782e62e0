// Package jsonl provides a Dataset reading one JSON-lines file per partition.
// Files ending in .lz4 are decompressed on the fly. Scalar columns map to
// top-level JSON values and list columns to JSON arrays.
package jsonl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pierrec/lz4"
	"github.com/tidwall/gjson"

	"github.com/go-chute/chute"
	cerrors "github.com/go-chute/chute/errors"
	"github.com/go-chute/chute/frame"
)

const maxLineBytes = 1024 * 1024

type dataSourceImpl struct {
	schema chute.Schema
	paths  []string

	lock      sync.Mutex
	rowCounts []int64
}

// CreateDataSource builds a Dataset over the given files, one file per
// partition. Files are not opened until their partition is iterated or
// counted.
func CreateDataSource(schema chute.Schema, paths []string) (chute.Dataset, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("Cannot create a Dataset with zero partitions")
	}
	counts := make([]int64, len(paths))
	for i := range counts {
		counts[i] = -1
	}
	return &dataSourceImpl{schema: schema, paths: paths, rowCounts: counts}, nil
}

// Schema returns the Schema shared by every partition of this Dataset
func (d *dataSourceImpl) Schema() chute.Schema {
	return d.schema
}

// NumPartitions returns the total number of partitions in this Dataset
func (d *dataSourceImpl) NumPartitions() int {
	return len(d.paths)
}

// NumRows returns the total number of rows across the given partition
// indices, counting each file's lines on first use
func (d *dataSourceImpl) NumRows(indices []int) (int64, error) {
	d.lock.Lock()
	defer d.lock.Unlock()
	var total int64
	for _, idx := range indices {
		if idx < 0 || idx >= len(d.paths) {
			return 0, fmt.Errorf("Partition index %d out of range [0, %d)", idx, len(d.paths))
		}
		if d.rowCounts[idx] < 0 {
			n, err := d.countRows(idx)
			if err != nil {
				return 0, err
			}
			d.rowCounts[idx] = n
		}
		total += d.rowCounts[idx]
	}
	return total, nil
}

func (d *dataSourceImpl) countRows(idx int) (int64, error) {
	var n int64
	err := d.scanPartition(idx, func(gjson.Result) error {
		n++
		return nil
	})
	return n, err
}

// scanPartition opens partition idx and invokes fn once per non-empty line
func (d *dataSourceImpl) scanPartition(idx int, fn func(gjson.Result) error) error {
	f, err := os.Open(d.paths[idx])
	if err != nil {
		return err
	}
	defer f.Close()
	var r io.Reader = f
	if strings.HasSuffix(d.paths[idx], ".lz4") {
		r = lz4.NewReader(f)
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if len(text) == 0 {
			continue
		}
		row := gjson.Parse(text)
		if !row.IsObject() {
			return fmt.Errorf("%s:%d is not a JSON object", d.paths[idx], line)
		}
		if err := fn(row); err != nil {
			return fmt.Errorf("%s:%d: %w", d.paths[idx], line, err)
		}
	}
	return scanner.Err()
}

// loadPartition reads partition idx into a Frame holding only the given
// columns
func (d *dataSourceImpl) loadPartition(idx int, columns []string) (chute.Frame, error) {
	sub, err := d.schema.Select(columns)
	if err != nil {
		return nil, err
	}
	builders := make([]*columnBuilder, 0, len(columns))
	for _, name := range columns {
		colSchema, err := sub.Column(name)
		if err != nil {
			return nil, err
		}
		builders = append(builders, newColumnBuilder(colSchema))
	}
	err = d.scanPartition(idx, func(row gjson.Result) error {
		for _, b := range builders {
			if err := b.add(row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	cols := make(map[string]frame.ColumnData, len(builders))
	for _, b := range builders {
		cols[b.schema.Name] = b.finish()
	}
	return frame.CreateFrame(sub, cols)
}

// Iterate produces a PartitionStream serving the given partition indices, in
// order, repeated for the given number of epochs. Each file is read when its
// turn comes, not before.
func (d *dataSourceImpl) Iterate(indices []int, epochs int, columns []string) (chute.PartitionStream, error) {
	if epochs < 1 {
		return nil, fmt.Errorf("epochs must be at least 1, got %d", epochs)
	}
	for _, idx := range indices {
		if idx < 0 || idx >= len(d.paths) {
			return nil, fmt.Errorf("Partition index %d out of range [0, %d)", idx, len(d.paths))
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

// NextRowGroup reads and returns the next partition file as a Frame, or
// NoMorePartitionsError at exhaustion
func (s *partitionStream) NextRowGroup() (chute.Frame, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.pos >= len(s.indices)*s.epochs {
		s.fireEnd()
		return nil, cerrors.NoMorePartitionsError{}
	}
	idx := s.indices[s.pos%len(s.indices)]
	s.pos++
	return s.source.loadPartition(idx, s.columns)
}

// OnEnd registers a listener which fires when this PartitionStream runs out
// of Frames
func (s *partitionStream) OnEnd(onEnd func()) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.endListeners = append(s.endListeners, onEnd)
}

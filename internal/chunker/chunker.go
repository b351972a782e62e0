// Package chunker assembles successive dataset partitions into batch-aligned
// row chunks, carrying the sub-batch remainder ("spill") between rounds.
package chunker

import (
	"fmt"
	"math/rand"

	"github.com/go-chute/chute"
	cerrors "github.com/go-chute/chute/errors"
	"github.com/go-chute/chute/frame"
)

// Assembler pulls row-groups from a PartitionStream, partsPerChunk at a time,
// concatenates them behind any carried spill, and splits the result at the
// largest multiple of batchSize. The aligned head is returned for conversion;
// the tail becomes the next round's spill. The Assembler is the sole owner of
// the spill; no locking is required.
type Assembler struct {
	stream        chute.PartitionStream
	partsPerChunk int
	batchSize     int
	shuffle       bool
	dropLast      bool
	rng           *rand.Rand
	spill         chute.Frame
	exhausted     bool
}

// NewAssembler creates an Assembler over the given stream. rng is only
// consulted when shuffle is set, and only the aligned head of a chunk is
// ever shuffled, never the spill.
func NewAssembler(stream chute.PartitionStream, partsPerChunk int, batchSize int, shuffle bool, dropLast bool, rng *rand.Rand) (*Assembler, error) {
	if partsPerChunk < 1 {
		return nil, fmt.Errorf("partsPerChunk must be at least 1, got %d", partsPerChunk)
	}
	if batchSize < 1 {
		return nil, fmt.Errorf("batchSize must be at least 1, got %d", batchSize)
	}
	return &Assembler{
		stream:        stream,
		partsPerChunk: partsPerChunk,
		batchSize:     batchSize,
		shuffle:       shuffle,
		dropLast:      dropLast,
		rng:           rng,
	}, nil
}

// NextChunk returns the next batch-aligned chunk, looping internally until
// enough rows accumulate. At stream exhaustion a non-empty spill is flushed
// as one final, possibly undersized, chunk unless dropLast was requested;
// after that NextChunk returns NoMorePartitionsError.
func (a *Assembler) NextChunk() (chute.Frame, error) {
	for !a.exhausted {
		parts := make([]chute.Frame, 0, a.partsPerChunk+1)
		if a.spill != nil && a.spill.NumRows() > 0 {
			parts = append(parts, a.spill)
		}
		a.spill = nil
		pulled := 0
		for pulled < a.partsPerChunk && a.stream.HasNextRowGroup() {
			part, err := a.stream.NextRowGroup()
			if err != nil {
				if _, end := err.(cerrors.NoMorePartitionsError); end {
					break
				}
				return nil, err
			}
			parts = append(parts, part)
			pulled++
		}
		if pulled == 0 {
			a.exhausted = true
			if len(parts) > 0 {
				a.spill = parts[0]
			}
			break
		}
		chunk, err := frame.Concat(parts)
		if err != nil {
			return nil, err
		}
		alignedRows := chunk.NumRows() / a.batchSize * a.batchSize
		aligned, err := chunk.Slice(0, alignedRows)
		if err != nil {
			return nil, err
		}
		a.spill, err = chunk.Slice(alignedRows, chunk.NumRows())
		if err != nil {
			return nil, err
		}
		if aligned.NumRows() == 0 {
			// not enough rows for one batch yet; keep accumulating
			continue
		}
		if a.shuffle {
			aligned, err = aligned.Shuffle(a.rng)
			if err != nil {
				return nil, err
			}
		}
		return aligned, nil
	}
	if !a.dropLast && a.spill != nil && a.spill.NumRows() > 0 {
		spill := a.spill
		a.spill = nil
		return spill, nil
	}
	a.spill = nil
	return nil, cerrors.NoMorePartitionsError{}
}

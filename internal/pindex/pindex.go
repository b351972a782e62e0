// Package pindex computes the ordered set of partition indices a shard must
// consume, and deterministic per-epoch permutations of that set.
package pindex

import (
	"encoding/binary"
	"math/rand"

	"github.com/cespare/xxhash/v2"
	cerrors "github.com/go-chute/chute/errors"
)

// Block computes the contiguous block of partition indices owned by shard
// rank out of numShards, clipped to [0, numPartitions). Every shard owns
// ceil(numPartitions/numShards) indices except possibly the last.
func Block(numPartitions int, rank int, numShards int) ([]int, error) {
	if numShards <= 0 || rank < 0 || rank >= numShards || numShards > numPartitions {
		return nil, cerrors.ShardConfigurationError{NumShards: numShards, NumPartitions: numPartitions}
	}
	perShard := (numPartitions + numShards - 1) / numShards
	start := rank * perShard
	end := start + perShard
	if start > numPartitions {
		start = numPartitions
	}
	if end > numPartitions {
		end = numPartitions
	}
	indices := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		indices = append(indices, i)
	}
	return indices, nil
}

// EpochSeed derives a deterministic shuffle seed from the shard coordinates
// and an optional caller-supplied seed source. seedFn, when present, is
// invoked exactly once per call. The loader never reseeds shared RNG state;
// every permutation draws from a private generator seeded here, so external
// RNG sequences are left untouched.
func EpochSeed(rank int, numShards int, seedFn func() int64) int64 {
	var buf [8]byte
	h := xxhash.New()
	binary.LittleEndian.PutUint64(buf[:], uint64(rank))
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(numShards))
	h.Write(buf[:])
	if seedFn != nil {
		binary.LittleEndian.PutUint64(buf[:], uint64(seedFn()))
		h.Write(buf[:])
	}
	return int64(h.Sum64())
}

// Shuffle permutes indices in place. The permutation is uniform and
// reproducible for a given seed.
func Shuffle(indices []int, seed int64) {
	r := rand.New(rand.NewSource(seed))
	r.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
}

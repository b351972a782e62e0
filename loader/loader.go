// Package loader implements Chute's batch iteration controller. A Loader
// owns a single background pipeline worker which assembles partition data
// into chunks and converts them to batches, while the consumer pulls batches
// one at a time from the calling goroutine.
package loader

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/go-chute/chute"
	cerrors "github.com/go-chute/chute/errors"
	"github.com/go-chute/chute/internal/chunker"
	"github.com/go-chute/chute/internal/convert"
	"github.com/go-chute/chute/internal/pindex"
	"github.com/go-chute/chute/schema"
	gomlxbackend "github.com/go-chute/chute/tensor/gomlx"
)

// Config configures a Loader
type Config struct {
	// BatchSize is the number of rows per emitted batch. Required.
	BatchSize int
	// PartsPerChunk is the number of partitions fused into one conversion
	// unit. Defaults to 1.
	PartsPerChunk int
	// Shuffle permutes the shard's partition order each epoch and the rows
	// within each chunk
	Shuffle bool
	// SeedFn supplies epoch seed entropy. It is invoked exactly once per
	// BeginEpoch. Defaults to a time-derived seed.
	SeedFn func() int64
	// GlobalRank and GlobalSize locate this Loader among cooperating
	// shards. GlobalSize defaults to 1.
	GlobalRank int
	GlobalSize int
	// DropLast discards a final batch smaller than BatchSize
	DropLast bool
	// UseNNZ switches list column index tensors from row-relative positions
	// to per-row counts
	UseNNZ bool
	// Backend materializes tensors. Defaults to the gomlx backend.
	Backend chute.TensorBackend
	// Transforms are applied to each batch's feature map, in order, on the
	// pipeline worker
	Transforms []chute.Transform
	// PutWait is how long the worker blocks on a full queue before
	// rechecking for a stop request. Defaults to 1ms.
	PutWait time.Duration
}

type loaderImpl struct {
	dataset       chute.Dataset
	conf          Config
	engine        *convert.Engine
	order         []string
	epochs        int
	pipe          *pipeline
	primed        bool
	cursor        []chute.Batch
	cursorPos     int
	rowsProcessed int64
	numBatches    int
}

// Create builds a Loader over the given Dataset. The Dataset's Schema is
// validated and the conversion plan is resolved up front, so malformed
// schemas fail here rather than mid-stream.
func Create(dataset chute.Dataset, conf Config) (chute.Loader, error) {
	if conf.BatchSize < 1 {
		return nil, fmt.Errorf("BatchSize must be at least 1, got %d", conf.BatchSize)
	}
	if conf.PartsPerChunk == 0 {
		conf.PartsPerChunk = 1
	}
	if conf.GlobalSize == 0 {
		conf.GlobalSize = 1
	}
	if conf.Backend == nil {
		conf.Backend = gomlxbackend.CreateBackend()
	}
	if conf.PutWait <= 0 {
		conf.PutWait = time.Millisecond
	}
	if conf.SeedFn == nil {
		conf.SeedFn = func() int64 { return time.Now().UnixNano() }
	}
	if err := schema.Validate(dataset.Schema()); err != nil {
		return nil, err
	}
	engine, err := convert.NewEngine(dataset.Schema(), conf.Backend, conf.BatchSize, conf.UseNNZ, conf.Transforms)
	if err != nil {
		return nil, err
	}
	return &loaderImpl{
		dataset:    dataset,
		conf:       conf,
		engine:     engine,
		order:      dataset.Schema().ColumnNames(),
		epochs:     1,
		pipe:       &pipeline{queue: newChunkQueue(conf.PutWait)},
		numBatches: -1,
	}, nil
}

// Epochs returns a Loader which streams this shard's partitions the given
// number of times per BeginEpoch. The returned Loader shares the Dataset and
// conversion plan but none of the iteration state.
func (l *loaderImpl) Epochs(epochs int) chute.Loader {
	if epochs < 1 {
		epochs = 1
	}
	if epochs == l.epochs {
		return l
	}
	return &loaderImpl{
		dataset:    l.dataset,
		conf:       l.conf,
		engine:     l.engine,
		order:      l.order,
		epochs:     epochs,
		pipe:       &pipeline{queue: newChunkQueue(l.conf.PutWait)},
		numBatches: -1,
	}
}

// BeginEpoch stops any in-flight iteration, resets the row counter, resolves
// this shard's partition block and starts the pipeline worker over it
func (l *loaderImpl) BeginEpoch() error {
	l.Stop()
	l.primed = false
	l.rowsProcessed = 0
	indices, err := pindex.Block(l.dataset.NumPartitions(), l.conf.GlobalRank, l.conf.GlobalSize)
	if err != nil {
		return err
	}
	seed := pindex.EpochSeed(l.conf.GlobalRank, l.conf.GlobalSize, l.conf.SeedFn)
	if l.conf.Shuffle {
		pindex.Shuffle(indices, seed)
	}
	stream, err := l.dataset.Iterate(indices, l.epochs, l.order)
	if err != nil {
		return err
	}
	stream.OnEnd(func() {
		log.Debug().Int("rank", l.conf.GlobalRank).Msg("partition stream exhausted")
	})
	asm, err := chunker.NewAssembler(stream, l.conf.PartsPerChunk, l.conf.BatchSize, l.conf.Shuffle, l.conf.DropLast, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}
	log.Debug().
		Int("rank", l.conf.GlobalRank).
		Int("partitions", len(indices)).
		Int("epochs", l.epochs).
		Bool("shuffle", l.conf.Shuffle).
		Msg("epoch started")
	l.pipe.start(asm, l.engine)
	l.primed = true
	return nil
}

// NextBatch returns the next batch of the current epoch, starting a new
// epoch first if none is in flight. At exhaustion it returns
// NoMoreBatchesError and resets, so a subsequent call begins a fresh epoch.
func (l *loaderImpl) NextBatch() (chute.Batch, error) {
	if !l.primed {
		if err := l.BeginEpoch(); err != nil {
			return chute.Batch{}, err
		}
	}
	for {
		if l.cursorPos < len(l.cursor) {
			batch := l.cursor[l.cursorPos]
			l.cursorPos++
			l.countRows(batch)
			return batch, nil
		}
		l.cursor = nil
		l.cursorPos = 0
		if l.pipe.finished() && l.pipe.queue.empty() {
			l.Stop()
			l.primed = false
			return chute.Batch{}, cerrors.NoMoreBatchesError{}
		}
		packet, ok := l.pipe.queue.get(l.pipe.done)
		if !ok {
			continue
		}
		if packet.err != nil {
			l.Stop()
			l.primed = false
			return chute.Batch{}, packet.err
		}
		l.cursor = packet.batches
	}
}

// countRows charges the batch's row count to the processed total, taken from
// the first non-empty value in schema column order
func (l *loaderImpl) countRows(b chute.Batch) {
	for _, name := range l.order {
		if v, ok := b.Features[name]; ok && v.NumRows() > 0 {
			l.rowsProcessed += int64(v.NumRows())
			return
		}
	}
	if b.Labels != nil && b.Labels.NumRows() > 0 {
		l.rowsProcessed += int64(b.Labels.NumRows())
	}
}

// Stop halts the pipeline worker and discards undelivered batches. It is
// idempotent and safe to call whether or not an epoch is in flight. The
// processed row count survives until the next BeginEpoch.
func (l *loaderImpl) Stop() {
	l.pipe.stop()
	l.cursor = nil
	l.cursorPos = 0
}

// NumBatches returns the number of batches a full iteration of this shard
// will produce, accounting for the epoch multiplier and DropLast
func (l *loaderImpl) NumBatches() (int, error) {
	if l.numBatches >= 0 {
		return l.numBatches, nil
	}
	indices, err := pindex.Block(l.dataset.NumPartitions(), l.conf.GlobalRank, l.conf.GlobalSize)
	if err != nil {
		return 0, err
	}
	rows, err := l.dataset.NumRows(indices)
	if err != nil {
		return 0, err
	}
	rows *= int64(l.epochs)
	bs := int64(l.conf.BatchSize)
	n := int((rows + bs - 1) / bs)
	if l.conf.DropLast && rows%bs != 0 {
		n--
	}
	l.numBatches = n
	return n, nil
}

// NumRowsProcessed returns the number of rows delivered since the last
// BeginEpoch
func (l *loaderImpl) NumRowsProcessed() int64 {
	return l.rowsProcessed
}

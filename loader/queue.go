package loader

import (
	"sync/atomic"
	"time"

	"github.com/go-chute/chute"
)

// chunkPacket is what crosses the worker boundary: one chunk's batches, or
// the error that ended the worker
type chunkPacket struct {
	batches []chute.Batch
	err     error
}

// chunkQueue is the capacity-1 handoff between the pipeline worker and the
// consumer. It is the only synchronization point in the loader: ownership of
// a chunk's batches transfers fully through it.
type chunkQueue struct {
	out      chan chunkPacket
	putWait  time.Duration
	stopFlag atomic.Bool
}

func newChunkQueue(putWait time.Duration) *chunkQueue {
	return &chunkQueue{out: make(chan chunkPacket, 1), putWait: putWait}
}

// stopped reports whether a stop has been requested
func (q *chunkQueue) stopped() bool {
	return q.stopFlag.Load()
}

// requestStop flags the queue as stopped and discards anything buffered
func (q *chunkQueue) requestStop() {
	q.stopFlag.Store(true)
	q.drain()
}

// reset clears the stop flag and any stale packets before a new epoch
func (q *chunkQueue) reset() {
	q.drain()
	q.stopFlag.Store(false)
}

func (q *chunkQueue) drain() {
	for {
		select {
		case <-q.out:
		default:
			return
		}
	}
}

func (q *chunkQueue) empty() bool {
	return len(q.out) == 0
}

// put blocks until the packet is accepted, rechecking the stop flag every
// putWait so a stop request is observed within one interval even under a
// full queue. Returns true iff the queue was stopped before the packet could
// be enqueued.
func (q *chunkQueue) put(p chunkPacket) bool {
	for {
		if q.stopped() {
			return true
		}
		select {
		case q.out <- p:
			return false
		case <-time.After(q.putWait):
		}
	}
}

// get blocks for the next packet. If the worker exits first, any packet it
// managed to enqueue is still drained; otherwise get reports no packet.
func (q *chunkQueue) get(workerDone <-chan struct{}) (chunkPacket, bool) {
	select {
	case p := <-q.out:
		return p, true
	case <-workerDone:
		select {
		case p := <-q.out:
			return p, true
		default:
			return chunkPacket{}, false
		}
	}
}

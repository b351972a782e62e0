package loader

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	cerrors "github.com/go-chute/chute/errors"
	"github.com/go-chute/chute/internal/chunker"
	"github.com/go-chute/chute/internal/convert"
)

// pipeline drives the chunk assembler and the conversion engine on exactly
// one background worker, pushing each finished chunk's batches onto the
// queue. All pipeline methods are called from the consumer side only.
type pipeline struct {
	queue   *chunkQueue
	group   *errgroup.Group
	done    chan struct{}
	running bool
}

// start clears the stop flag and launches the worker for a fresh stream
func (p *pipeline) start(asm *chunker.Assembler, engine *convert.Engine) {
	p.queue.reset()
	p.done = make(chan struct{})
	p.group = new(errgroup.Group)
	p.running = true
	done := p.done
	p.group.Go(func() error {
		defer close(done)
		return p.run(asm, engine)
	})
}

// run is the assemble, convert, enqueue loop. Any failure ends the worker
// and is enqueued in place of a batch list, which is how errors cross the
// worker boundary.
func (p *pipeline) run(asm *chunker.Assembler, engine *convert.Engine) error {
	for {
		if p.queue.stopped() {
			return nil
		}
		chunk, err := asm.NextChunk()
		if err != nil {
			if _, end := err.(cerrors.NoMorePartitionsError); end {
				return nil
			}
			p.queue.put(chunkPacket{err: err})
			return err
		}
		batches, err := engine.Convert(chunk)
		if err != nil {
			p.queue.put(chunkPacket{err: err})
			return err
		}
		if len(batches) == 0 {
			continue
		}
		log.Debug().Int("rows", chunk.NumRows()).Int("batches", len(batches)).Msg("chunk converted")
		if p.queue.put(chunkPacket{batches: batches}) {
			return nil
		}
	}
}

// stop requests the worker halt, discards buffered chunks and waits for the
// worker to exit. Idempotent.
func (p *pipeline) stop() {
	if !p.running {
		return
	}
	p.queue.requestStop()
	if err := p.group.Wait(); err != nil {
		log.Debug().Err(err).Msg("pipeline worker exited with error")
	}
	p.queue.drain()
	p.running = false
}

// finished reports whether the worker has exited (or was never started)
func (p *pipeline) finished() bool {
	if !p.running {
		return true
	}
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

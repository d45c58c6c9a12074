package source

import (
	"context"
	"image"
	"sync"

	"github.com/example/snapnote/internal/layers"
)

// Result is the outcome of decoding one pending layer.
type Result struct {
	LayerID layers.ID
	Image   *image.RGBA
	Err     error
}

// Queue decodes image data off the caller's goroutine. Results arrive on
// Results in completion order, which may differ from submission order.
type Queue struct {
	ctx     context.Context
	cancel  context.CancelFunc
	results chan Result
	sem     chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
}

// NewQueue starts a queue running at most workers decodes at once.
func NewQueue(workers int) *Queue {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		ctx:     ctx,
		cancel:  cancel,
		results: make(chan Result, 16),
		sem:     make(chan struct{}, workers),
	}
}

// Submit schedules data to be decoded for the layer id. It never blocks on
// the decode itself. Submitting to a closed queue is a no-op.
func (q *Queue) Submit(id layers.ID, data []byte) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		select {
		case q.sem <- struct{}{}:
		case <-q.ctx.Done():
			return
		}
		img, _, err := DecodeBytes(data)
		<-q.sem
		select {
		case q.results <- Result{LayerID: id, Image: img, Err: err}:
		case <-q.ctx.Done():
		}
	}()
}

// Results delivers finished decodes.
func (q *Queue) Results() <-chan Result { return q.results }

// Close abandons outstanding work and closes the results channel.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.cancel()
	q.wg.Wait()
	close(q.results)
}

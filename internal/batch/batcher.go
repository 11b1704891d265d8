package batch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cardwise/cardwise-api/internal/domain"
	"github.com/cardwise/cardwise-api/internal/generation"
)

// ErrClosed is returned for submissions after the batcher has shut down.
var ErrClosed = errors.New("batcher is closed")

// Config holds the batching parameters.
type Config struct {
	// Window is how long a batch accumulates before it is dispatched.
	Window time.Duration

	// MaxSize dispatches a batch early once it holds this many requests.
	MaxSize int
}

// DefaultConfig returns the standard batching parameters: a one-second
// window with at most ten requests per batch.
func DefaultConfig() Config {
	return Config{
		Window:  time.Second,
		MaxSize: 10,
	}
}

// batchResult carries one request's slice of the batch outcome.
type batchResult struct {
	result *generation.Result
	err    error
}

// pendingRequest is one queued submission awaiting dispatch.
type pendingRequest struct {
	ctx    context.Context
	prompt string
	opts   domain.RequestOptions
	done   chan batchResult
}

// Batcher coalesces generation requests into batched dispatches against an
// inner Generator. It is an owned, injectable instance: each Batcher holds
// its own pending queue and timer, so multiple batchers can run isolated in
// the same process. Batcher itself implements generation.Generator, which
// lets it be layered in front of any provider transparently.
type Batcher struct {
	inner  generation.Generator
	config Config
	logger *slog.Logger

	mu      sync.Mutex
	pending []*pendingRequest
	timer   *time.Timer
	closed  bool

	// wg tracks in-flight dispatch goroutines for Close.
	wg sync.WaitGroup
}

// New creates a Batcher over the inner generator. If logger is nil, the
// default logger is used.
func New(inner generation.Generator, config Config, logger *slog.Logger) *Batcher {
	if inner == nil {
		panic("inner generator cannot be nil")
	}
	if config.Window <= 0 {
		config.Window = time.Second
	}
	if config.MaxSize <= 0 {
		config.MaxSize = 10
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Batcher{
		inner:  inner,
		config: config,
		logger: logger.With(slog.String("component", "request_batcher")),
	}
}

// Ensure Batcher implements the generation.Generator interface
var _ generation.Generator = (*Batcher)(nil)

// Generate queues the request for batched dispatch and blocks until its
// slice of the batch outcome is available or ctx is done. Requests
// submitted while a flush is in progress accumulate into the next batch.
func (b *Batcher) Generate(
	ctx context.Context,
	prompt string,
	opts domain.RequestOptions,
) (*generation.Result, error) {
	req := &pendingRequest{
		ctx:    ctx,
		prompt: prompt,
		opts:   opts,
		done:   make(chan batchResult, 1),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrClosed
	}

	b.pending = append(b.pending, req)

	if len(b.pending) >= b.config.MaxSize {
		// Full batch: dispatch immediately instead of waiting for the timer.
		b.flushLocked()
	} else if b.timer == nil {
		b.timer = time.AfterFunc(b.config.Window, b.onTimer)
	}
	b.mu.Unlock()

	select {
	case res := <-req.done:
		return res.result, res.err
	case <-ctx.Done():
		// The batch may still dispatch this request; its result is dropped.
		return nil, ctx.Err()
	}
}

// onTimer fires when the accumulation window elapses.
func (b *Batcher) onTimer() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.timer = nil
	if b.closed || len(b.pending) == 0 {
		return
	}
	b.flushLocked()
}

// flushLocked takes the current queue and dispatches it on a goroutine.
// Callers must hold b.mu. Because the queue is swapped out before dispatch
// begins, new submissions accumulate into the next batch without blocking.
func (b *Batcher) flushLocked() {
	batch := b.pending
	b.pending = nil
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}

	b.wg.Add(1)
	go b.dispatch(batch)
}

// dispatch resolves each queued request against the inner generator. Each
// request's result is routed independently; a request whose own context has
// expired is rejected without a provider call.
func (b *Batcher) dispatch(batch []*pendingRequest) {
	defer b.wg.Done()

	b.logger.Debug("dispatching batch", "size", len(batch))

	for _, req := range batch {
		if err := req.ctx.Err(); err != nil {
			req.done <- batchResult{err: err}
			continue
		}
		result, err := b.inner.Generate(req.ctx, req.prompt, req.opts)
		req.done <- batchResult{result: result, err: err}
	}
}

// Close stops the window timer, rejects all queued requests with ErrClosed,
// and waits for in-flight dispatches to finish. Subsequent submissions
// return ErrClosed.
func (b *Batcher) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	rejected := b.pending
	b.pending = nil
	b.mu.Unlock()

	for _, req := range rejected {
		req.done <- batchResult{err: ErrClosed}
	}

	b.wg.Wait()
}

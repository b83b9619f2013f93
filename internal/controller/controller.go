// Package controller holds the per-screen view state machines. A
// controller never starts goroutines: Submit hands back a run function and
// the host decides where it executes.
package controller

import (
	"context"
	"sync"
)

// Phase is the lifecycle of one submission.
type Phase int

const (
	Idle Phase = iota
	Pending
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Option configures a controller.
type Option func(*base)

// WithContext derives the controller's lifetime from parent.
func WithContext(parent context.Context) Option {
	return func(b *base) { b.parent = parent }
}

// WithNotify registers fn to be called after every state change made by a
// run function. It is called without the controller lock held.
func WithNotify(fn func()) Option {
	return func(b *base) { b.notify = fn }
}

// base is the part shared by every controller: the lock, the pending gate
// and the lifetime context.
type base struct {
	mu     sync.Mutex
	phase  Phase
	closed bool

	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
	notify func()
}

func (b *base) init(opts []Option) {
	for _, opt := range opts {
		opt(b)
	}
	if b.parent == nil {
		b.parent = context.Background()
	}
	b.ctx, b.cancel = context.WithCancel(b.parent)
}

// busy reports whether a submission must be refused. Callers hold mu.
func (b *base) busy() bool {
	return b.closed || b.phase == Pending
}

// settle applies a late update unless the controller was closed meanwhile.
func (b *base) settle(apply func()) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	apply()
	b.mu.Unlock()

	if b.notify != nil {
		b.notify()
	}
}

// Close cancels any in-flight call. Results arriving afterwards are
// discarded and the state is frozen.
func (b *base) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.cancel()
}

// Closed reports whether Close has been called.
func (b *base) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package achan

import (
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lfq"
	"github.com/sirupsen/logrus"
)

// status is the outcome of a single transfer attempt.
type status uint8

const (
	completed status = iota
	parked
	wouldBlock
)

// sendWaiter is a producer's pending value, its result slot and its
// continuation. The core writes err before scheduling resume.
type sendWaiter[T any] struct {
	value  T
	err    error
	resume func()
}

// recvWaiter is a consumer's result slot and its continuation.
// ok=false after completion means end of stream.
type recvWaiter[T any] struct {
	value  T
	ok     bool
	resume func()
}

// core is the shared state of one channel.
//
// The buffer, both waiter lists and freed are guarded by mu. The four
// counters are atomics: increments happen without mu, so a reservation is
// visible before its operation first takes the lock, while decrements and
// every exhaustion decision are made under mu.
type core[T any] struct {
	mu        sync.Mutex
	capacity  int
	size      int
	buf       lfq.SPSC[T]
	producers waitq[*sendWaiter[T]]
	consumers waitq[*recvWaiter[T]]
	freed     bool

	senders   atomix.Uint32
	receivers atomix.Uint32
	sending   atomix.Uint32
	receiving atomix.Uint32
	closed    atomix.Uint32

	serial Serial
	runner Runner
	log    *logrus.Entry
	onFree func()
}

func newCore[T any](capacity int, cfg config) *core[T] {
	c := &core[T]{
		capacity: capacity,
		serial:   nextSerial(),
		runner:   cfg.runner,
		onFree:   cfg.onFree,
	}
	// lfq rings hold at least two slots; occupancy is bounded by capacity.
	c.buf.Init(max(capacity, 2))
	c.senders.Add(1)
	c.receivers.Add(1)
	c.log = cfg.logger.WithFields(logrus.Fields{"chan": c.serial, "name": cfg.name})
	return c
}

// producersDone reports that no value can ever arrive again.
// Caller holds mu.
func (c *core[T]) producersDone() bool {
	return c.sending.Load() == 0 && (c.senders.Load() == 0 || c.closed.Load() != 0)
}

// consumersDone reports that no value can ever be taken again.
// Caller holds mu.
func (c *core[T]) consumersDone() bool {
	return c.receivers.Load() == 0 && c.receiving.Load() == 0
}

// unreferenced reports that no handle and no operation can reach the core.
// Caller holds mu.
func (c *core[T]) unreferenced() bool {
	return c.senders.Load() == 0 && c.sending.Load() == 0 &&
		c.receivers.Load() == 0 && c.receiving.Load() == 0
}

func (c *core[T]) isClosed() bool {
	return c.closed.Load() != 0
}

// markClosed sets closed and reports whether this call did it.
// Caller holds mu.
func (c *core[T]) markClosed() bool {
	if c.closed.Load() != 0 {
		return false
	}
	c.closed.Add(1)
	return true
}

func (c *core[T]) push(v T) {
	if err := c.buf.Enqueue(&v); err != nil {
		invariant(c.serial, "buffer rejected a value below capacity")
	}
	c.size++
}

func (c *core[T]) pop() T {
	v, err := c.buf.Dequeue()
	if err != nil {
		invariant(c.serial, "buffer empty with a positive length")
	}
	c.size--
	return v
}

// check panics with *InvariantError when the guarded state is impossible.
// Caller holds mu.
func (c *core[T]) check() {
	switch {
	case c.size < 0 || c.size > c.capacity:
		invariant(c.serial, "buffer length out of bounds")
	case c.producers.Len() > 0 && c.consumers.Len() > 0:
		invariant(c.serial, "senders and receivers parked at once")
	case c.size > 0 && c.consumers.Len() > 0:
		invariant(c.serial, "receivers parked on a non-empty buffer")
	case c.producers.Len() > 0 && c.size < c.capacity:
		invariant(c.serial, "senders parked on a buffer with room")
	}
}

// trySend transfers w.value, parks w, or (park=false) reports wouldBlock
// leaving the channel untouched. The caller holds a sending reservation.
func (c *core[T]) trySend(w *sendWaiter[T], park bool) status {
	var zero T
	c.mu.Lock()
	if c.freed {
		invariant(c.serial, "send on a freed channel")
	}
	if c.consumersDone() {
		c.mu.Unlock()
		w.err = ErrDropped
		return completed
	}
	if c.closed.Load() != 0 {
		c.mu.Unlock()
		w.err = ErrClosed
		return completed
	}
	if c.size == c.capacity {
		if !park {
			c.mu.Unlock()
			return wouldBlock
		}
		c.producers.Push(w)
		c.check()
		c.mu.Unlock()
		return parked
	}
	if c.size == 0 {
		if r, ok := c.consumers.Pop(); ok {
			// Direct hand-off to the oldest parked receiver.
			r.value, r.ok = w.value, true
			w.value, w.err = zero, nil
			c.check()
			c.mu.Unlock()
			c.runner.Schedule(r.resume)
			return completed
		}
	}
	c.push(w.value)
	w.value, w.err = zero, nil
	c.check()
	c.mu.Unlock()
	return completed
}

// tryReceive fills w from the buffer, resolves it with end of stream, parks
// it, or (park=false) reports wouldBlock. The caller holds a receiving
// reservation.
func (c *core[T]) tryReceive(w *recvWaiter[T], park bool) status {
	var zero T
	c.mu.Lock()
	if c.freed {
		invariant(c.serial, "receive on a freed channel")
	}
	if c.size == 0 {
		if c.producersDone() {
			c.mu.Unlock()
			w.value, w.ok = zero, false
			return completed
		}
		if !park {
			c.mu.Unlock()
			return wouldBlock
		}
		c.consumers.Push(w)
		c.check()
		c.mu.Unlock()
		return parked
	}
	wasFull := c.size == c.capacity
	v := c.pop()
	var wake func()
	if wasFull {
		if p, ok := c.producers.Pop(); ok {
			// Refill the freed slot on behalf of the oldest parked sender.
			c.push(p.value)
			p.value, p.err = zero, nil
			wake = p.resume
		}
	}
	c.check()
	c.mu.Unlock()
	w.value, w.ok = v, true
	if wake != nil {
		c.runner.Schedule(wake)
	}
	return completed
}

// outcome collects the work a locked section hands to the unlocked tail:
// continuations to schedule, whether to free, and what to log.
type outcome struct {
	wake    []func()
	free    bool
	reason  string
	dropped int
}

// settle applies the closing protocol to the current counters.
// Caller holds mu.
func (c *core[T]) settle(out *outcome) {
	var zero T
	if c.unreferenced() {
		if c.freed {
			invariant(c.serial, "channel freed twice")
		}
		if c.producers.Len() > 0 || c.consumers.Len() > 0 {
			invariant(c.serial, "freed with parked waiters")
		}
		c.freed = true
		for c.size > 0 {
			c.pop()
		}
		out.free = true
		return
	}
	if c.producersDone() {
		if c.markClosed() && out.reason == "" {
			out.reason = "senders gone"
		}
		for _, r := range c.consumers.PopAll() {
			r.value, r.ok = zero, false
			out.wake = append(out.wake, r.resume)
		}
	}
	if c.consumersDone() {
		if c.markClosed() && out.reason == "" {
			out.reason = "receivers gone"
		}
		for _, p := range c.producers.PopAll() {
			p.value, p.err = zero, ErrDropped
			out.wake = append(out.wake, p.resume)
			out.dropped++
		}
	}
}

// finish runs the unlocked tail of a release or close.
func (c *core[T]) finish(out *outcome) {
	if out.reason != "" {
		c.log.WithField("reason", out.reason).Debug("achan: channel closed")
	}
	if out.dropped > 0 {
		c.log.WithField("dropped", out.dropped).Debug("achan: parked sends resolved without delivery")
	}
	for _, resume := range out.wake {
		c.runner.Schedule(resume)
	}
	if out.free {
		c.log.Debug("achan: channel freed")
		if c.onFree != nil {
			c.onFree()
		}
	}
}

// release drops one unit of n, one of the four counters, and runs the
// closing protocol.
func (c *core[T]) release(n *atomix.Uint32) {
	var out outcome
	c.mu.Lock()
	if n.Load() == 0 {
		invariant(c.serial, "counter released below zero")
	}
	n.Add(^uint32(0))
	c.settle(&out)
	c.check()
	c.mu.Unlock()
	c.finish(&out)
}

// close is the receiver's unilateral close: parked sends fail with
// ErrClosed, buffered values stay available to receivers.
func (c *core[T]) close() {
	var zero T
	var out outcome
	c.mu.Lock()
	if c.markClosed() {
		out.reason = "closed by receiver"
	}
	for _, p := range c.producers.PopAll() {
		p.value, p.err = zero, ErrClosed
		out.wake = append(out.wake, p.resume)
		out.dropped++
	}
	c.settle(&out)
	c.check()
	c.mu.Unlock()
	c.finish(&out)
}

func (c *core[T]) length() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

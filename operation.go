// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package achan

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
)

// SendOp is a single in-flight attempt to transfer one value.
//
// A SendOp holds a sending reservation from the moment Sender.Send returns
// it. The reservation is released exactly once: right after a synchronous
// completion, right before the parked continuation runs, or by Discard if
// the operation was never started. A SendOp is not reusable.
type SendOp[T any] struct {
	c      *core[T]
	w      sendWaiter[T]
	ticket atomix.Uint32
	done   atomix.Uint32
}

// Start attempts the transfer. It reports whether the operation parked.
//
// When Start returns false the result is already available through Err
// and resume is not called. When it returns true, resume is invoked exactly
// once through the channel's Runner after the result has been delivered.
// resume may be nil. Start panics if called twice or after Discard.
func (op *SendOp[T]) Start(resume func()) bool {
	if op.ticket.Add(1) != 1 {
		panic("achan: SendOp started twice or after Discard")
	}
	op.w.resume = func() {
		op.finish()
		if resume != nil {
			resume()
		}
	}
	if op.c.trySend(&op.w, true) == parked {
		return true
	}
	op.finish()
	return false
}

func (op *SendOp[T]) finish() {
	op.c.release(&op.c.sending)
	op.done.Add(1)
}

// Done reports whether the result has been delivered.
func (op *SendOp[T]) Done() bool {
	return op.done.Load() != 0
}

// Err returns the result of a completed operation: nil when the value was
// buffered or handed to a receiver, ErrDropped when no receiver can take
// it, ErrClosed when the receiving side closed the channel first.
func (op *SendOp[T]) Err() error {
	if !op.Done() {
		panic("achan: SendOp result read before completion")
	}
	return op.w.err
}

// Wait starts the operation if needed and blocks the calling goroutine,
// backing off adaptively, until the result is delivered.
func (op *SendOp[T]) Wait() error {
	if op.ticket.Load() == 0 {
		op.Start(nil)
	}
	var bo iox.Backoff
	for !op.Done() {
		bo.Wait()
	}
	return op.w.err
}

// Discard gives up an operation that was never started, releasing its
// reservation. It is a no-op on a started operation; a parked operation
// is still resumed later.
func (op *SendOp[T]) Discard() {
	if op.ticket.Add(1) == 1 {
		op.c.release(&op.c.sending)
		op.w.err = ErrDropped
		op.done.Add(1)
	}
}

// RecvOp is a single in-flight attempt to receive one value.
// Its reservation follows the same rules as SendOp's.
type RecvOp[T any] struct {
	c      *core[T]
	w      recvWaiter[T]
	ticket atomix.Uint32
	done   atomix.Uint32
}

// Start attempts the receive. It reports whether the operation parked;
// see SendOp.Start for the resume contract.
func (op *RecvOp[T]) Start(resume func()) bool {
	if op.ticket.Add(1) != 1 {
		panic("achan: RecvOp started twice or after Discard")
	}
	op.w.resume = func() {
		op.finish()
		if resume != nil {
			resume()
		}
	}
	if op.c.tryReceive(&op.w, true) == parked {
		return true
	}
	op.finish()
	return false
}

func (op *RecvOp[T]) finish() {
	op.c.release(&op.c.receiving)
	op.done.Add(1)
}

// Done reports whether the result has been delivered.
func (op *RecvOp[T]) Done() bool {
	return op.done.Load() != 0
}

// Value returns the received value, or ok=false at end of stream.
func (op *RecvOp[T]) Value() (v T, ok bool) {
	if !op.Done() {
		panic("achan: RecvOp result read before completion")
	}
	return op.w.value, op.w.ok
}

// Wait starts the operation if needed and blocks the calling goroutine
// until a value or end of stream is delivered.
func (op *RecvOp[T]) Wait() (v T, ok bool) {
	if op.ticket.Load() == 0 {
		op.Start(nil)
	}
	var bo iox.Backoff
	for !op.Done() {
		bo.Wait()
	}
	return op.w.value, op.w.ok
}

// Discard gives up an operation that was never started.
func (op *RecvOp[T]) Discard() {
	if op.ticket.Add(1) == 1 {
		op.c.release(&op.c.receiving)
		op.done.Add(1)
	}
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package achan

import (
	"fmt"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
)

// New creates a channel buffering up to capacity values and returns its
// first Sender and Receiver. Each handle counts as one live producer or
// consumer until released.
func New[T any](capacity int, opts ...Option) (*Sender[T], *Receiver[T], error) {
	if capacity <= 0 {
		return nil, nil, fmt.Errorf("%w: got %d", ErrCapacity, capacity)
	}
	c := newCore[T](capacity, parseConfig(opts))
	c.log.WithField("capacity", capacity).Debug("achan: channel created")
	return &Sender[T]{c: c}, &Receiver[T]{c: c}, nil
}

// Sender is a producer handle. Handles are reference counted: Clone adds
// a live producer, Release removes one. When every Sender is released and
// no send is in flight, receivers observe end of stream.
type Sender[T any] struct {
	c        *core[T]
	released atomix.Uint32
}

func (s *Sender[T]) live() *core[T] {
	if s.released.Load() != 0 {
		panic("achan: use of released Sender")
	}
	return s.c
}

// Clone returns a new handle on the same channel.
func (s *Sender[T]) Clone() *Sender[T] {
	c := s.live()
	c.senders.Add(1)
	return &Sender[T]{c: c}
}

// Release drops this handle. Further calls are no-ops. Any other method
// called afterwards panics, except Serial and Stats.
func (s *Sender[T]) Release() {
	if s.released.Add(1) != 1 {
		return
	}
	s.c.release(&s.c.senders)
}

// Send reserves an operation that will transfer v when started.
// It returns ErrClosed when the channel is already known to be closed;
// a send racing with the close still resolves with ErrClosed or
// ErrDropped when started.
func (s *Sender[T]) Send(v T) (*SendOp[T], error) {
	c := s.live()
	if c.isClosed() {
		return nil, ErrClosed
	}
	c.sending.Add(1)
	return &SendOp[T]{c: c, w: sendWaiter[T]{value: v}}, nil
}

// SendWait sends v and blocks the calling goroutine until the value is
// buffered, handed off, or rejected.
func (s *Sender[T]) SendWait(v T) error {
	op, err := s.Send(v)
	if err != nil {
		return err
	}
	return op.Wait()
}

// TrySend transfers v only if that needs no parking. It returns
// iox.ErrWouldBlock, leaving the channel unchanged, when the buffer is full.
func (s *Sender[T]) TrySend(v T) error {
	c := s.live()
	if c.isClosed() {
		return ErrClosed
	}
	c.sending.Add(1)
	w := sendWaiter[T]{value: v}
	st := c.trySend(&w, false)
	c.release(&c.sending)
	if st == wouldBlock {
		return iox.ErrWouldBlock
	}
	return w.err
}

// Cap returns the channel capacity.
func (s *Sender[T]) Cap() int { return s.live().capacity }

// Len returns the number of buffered values.
func (s *Sender[T]) Len() int { return s.live().length() }

// IsClosed reports whether the channel has been closed, explicitly or
// because one side is gone.
func (s *Sender[T]) IsClosed() bool { return s.live().isClosed() }

// Serial returns the channel's serial number. It stays valid after
// Release.
func (s *Sender[T]) Serial() Serial { return s.c.serial }

// Stats returns a snapshot of the channel state. It stays valid after
// Release, so a collector can report a channel its owner has dropped.
func (s *Sender[T]) Stats() Stats { return s.c.stats() }

// Receiver is a consumer handle, reference counted like Sender. When every
// Receiver is released and no receive is in flight, parked senders are
// resolved with ErrDropped and further sends fail.
type Receiver[T any] struct {
	c        *core[T]
	released atomix.Uint32
}

func (r *Receiver[T]) live() *core[T] {
	if r.released.Load() != 0 {
		panic("achan: use of released Receiver")
	}
	return r.c
}

// Clone returns a new handle on the same channel.
func (r *Receiver[T]) Clone() *Receiver[T] {
	c := r.live()
	c.receivers.Add(1)
	return &Receiver[T]{c: c}
}

// Release drops this handle. Further calls are no-ops. As with Sender,
// only Serial and Stats remain usable afterwards.
func (r *Receiver[T]) Release() {
	if r.released.Add(1) != 1 {
		return
	}
	r.c.release(&r.c.receivers)
}

// Receive reserves an operation that will take one value when started.
// Its result is a value, or end of stream once no sender can supply one.
func (r *Receiver[T]) Receive() *RecvOp[T] {
	c := r.live()
	c.receiving.Add(1)
	return &RecvOp[T]{c: c}
}

// Recv receives one value, blocking the calling goroutine while the
// channel is empty. ok is false at end of stream.
func (r *Receiver[T]) Recv() (v T, ok bool) {
	return r.Receive().Wait()
}

// TryRecv receives one value only if that needs no parking. It returns
// iox.ErrWouldBlock when the buffer is empty and a sender may still send.
func (r *Receiver[T]) TryRecv() (v T, ok bool, err error) {
	c := r.live()
	c.receiving.Add(1)
	var w recvWaiter[T]
	st := c.tryReceive(&w, false)
	c.release(&c.receiving)
	if st == wouldBlock {
		return v, false, iox.ErrWouldBlock
	}
	return w.value, w.ok, nil
}

// Close rejects further sends. Parked sends resolve with ErrClosed;
// values already buffered remain available to receivers, which then
// observe end of stream.
func (r *Receiver[T]) Close() {
	r.live().close()
}

// Cap returns the channel capacity.
func (r *Receiver[T]) Cap() int { return r.live().capacity }

// Len returns the number of buffered values.
func (r *Receiver[T]) Len() int { return r.live().length() }

// IsClosed reports whether the channel has been closed.
func (r *Receiver[T]) IsClosed() bool { return r.live().isClosed() }

// Serial returns the channel's serial number. It stays valid after
// Release.
func (r *Receiver[T]) Serial() Serial { return r.c.serial }

// Stats returns a snapshot of the channel state. It stays valid after
// Release.
func (r *Receiver[T]) Stats() Stats { return r.c.stats() }

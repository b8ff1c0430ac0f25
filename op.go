// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package achan

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// Delivery is the result of a Send effect.
// Err is nil when the value was buffered or handed to a receiver,
// ErrDropped or ErrClosed otherwise.
type Delivery struct {
	Err error
}

// Delivered reports whether the value reached the channel.
func (d Delivery) Delivered() bool { return d.Err == nil }

// Item is the result of a Recv effect. OK is false at end of stream.
type Item[T any] struct {
	Value T
	OK    bool
}

// channelDispatcher is the structural interface for channel effects.
//
// With a non-nil resume, DispatchChannel may park the operation: it then
// returns iox.ErrWouldBlock and calls resume with the result exactly once,
// from the channel's Runner. With a nil resume it never parks, and
// iox.ErrWouldBlock means the channel was left unchanged.
type channelDispatcher interface {
	DispatchChannel(resume func(kont.Resumed)) (kont.Resumed, error)
}

// Send is the effect operation for sending a value of type T on To.
// Perform(Send[T]{To: s, Value: v}) resumes with a Delivery.
type Send[T any] struct {
	kont.Phantom[Delivery]
	To    *Sender[T]
	Value T
}

// DispatchChannel handles Send on the channel behind To.
func (s Send[T]) DispatchChannel(resume func(kont.Resumed)) (kont.Resumed, error) {
	if resume == nil {
		err := s.To.TrySend(s.Value)
		if iox.IsWouldBlock(err) {
			return nil, err
		}
		return Delivery{Err: err}, nil
	}
	op, err := s.To.Send(s.Value)
	if err != nil {
		return Delivery{Err: err}, nil
	}
	if op.Start(func() { resume(Delivery{Err: op.w.err}) }) {
		return nil, iox.ErrWouldBlock
	}
	return Delivery{Err: op.w.err}, nil
}

// Recv is the effect operation for receiving a value of type T from From.
// Perform(Recv[T]{From: r}) resumes with an Item.
type Recv[T any] struct {
	kont.Phantom[Item[T]]
	From *Receiver[T]
}

// DispatchChannel handles Recv on the channel behind From.
func (r Recv[T]) DispatchChannel(resume func(kont.Resumed)) (kont.Resumed, error) {
	if resume == nil {
		v, ok, err := r.From.TryRecv()
		if err != nil {
			return nil, err
		}
		return Item[T]{Value: v, OK: ok}, nil
	}
	op := r.From.Receive()
	if op.Start(func() { resume(Item[T]{Value: op.w.value, OK: op.w.ok}) }) {
		return nil, iox.ErrWouldBlock
	}
	return Item[T]{Value: op.w.value, OK: op.w.ok}, nil
}

// Close is the effect operation for closing a channel from its receiving
// side. Perform(Close[T]{From: r}) never parks.
type Close[T any] struct {
	kont.Phantom[struct{}]
	From *Receiver[T]
}

// DispatchChannel handles Close. Never blocks.
func (c Close[T]) DispatchChannel(func(kont.Resumed)) (kont.Resumed, error) {
	c.From.Close()
	return struct{}{}, nil
}

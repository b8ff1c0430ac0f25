// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package achan

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// channelErrorHandler handles both channel and error effects.
// Channel ops wait out parking. Error ops short-circuit on Throw.
type channelErrorHandler[E, A any] struct {
	errCtx *kont.ErrorContext[E]
}

// Dispatch implements kont.Handler for the composed Channel+Error handler.
// Dispatch order: Channel → Error.
func (h channelErrorHandler[E, A]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	if cd, ok := op.(channelDispatcher); ok {
		return dispatchWait(cd), true
	}
	if eop, ok := op.(interface {
		DispatchError(ctx *kont.ErrorContext[E]) (kont.Resumed, bool)
	}); ok {
		v, _ := eop.DispatchError(h.errCtx)
		if h.errCtx.HasErr {
			return kont.Left[E, A](h.errCtx.Err), false
		}
		return v, true
	}
	panic("achan: unhandled effect in channelErrorHandler")
}

// ExecError runs a channel protocol with error handling on the calling
// goroutine. Returns Right on success, Left on Throw.
func ExecError[E, R any](protocol kont.Eff[R]) kont.Either[E, R] {
	wrapped := kont.Map[kont.Resumed, R, kont.Either[E, R]](protocol, func(r R) kont.Either[E, R] {
		return kont.Right[E, R](r)
	})
	var errCtx kont.ErrorContext[E]
	h := channelErrorHandler[E, R]{errCtx: &errCtx}
	return kont.Handle(wrapped, h)
}

// ExecErrorExpr runs an Expr channel protocol with error handling.
// Returns Right on success, Left on Throw.
func ExecErrorExpr[E, R any](protocol kont.Expr[R]) kont.Either[E, R] {
	wrapped := kont.ExprMap(protocol, func(r R) kont.Either[E, R] {
		return kont.Right[E, R](r)
	})
	var errCtx kont.ErrorContext[E]
	h := channelErrorHandler[E, R]{errCtx: &errCtx}
	return kont.HandleExpr(wrapped, h)
}

// RunError is Run with error handling on both sides.
// A side that throws completes with Left and releases its handle.
func RunError[E, T, A, B any](capacity int, producer func(*Sender[T]) kont.Eff[A], consumer func(*Receiver[T]) kont.Eff[B], opts ...Option) (kont.Either[E, A], kont.Either[E, B], error) {
	return RunErrorExpr[E](capacity,
		func(s *Sender[T]) kont.Expr[A] { return kont.Reify(producer(s)) },
		func(r *Receiver[T]) kont.Expr[B] { return kont.Reify(consumer(r)) },
		opts...)
}

// RunErrorExpr is RunExpr with error handling on both sides.
// Results travel inside Either, so A and B may be nil interfaces.
func RunErrorExpr[E, T, A, B any](capacity int, producer func(*Sender[T]) kont.Expr[A], consumer func(*Receiver[T]) kont.Expr[B], opts ...Option) (kont.Either[E, A], kont.Either[E, B], error) {
	s, r, err := New[T](capacity, opts...)
	if err != nil {
		var a kont.Either[E, A]
		var b kont.Either[E, B]
		return a, b, err
	}
	resultA, suspA := StepError[E](producer(s))
	if suspA == nil {
		s.Release()
	}
	resultB, suspB := StepError[E](consumer(r))
	if suspB == nil {
		r.Release()
	}
	var bo iox.Backoff
	for suspA != nil || suspB != nil {
		progress := false
		if suspA != nil {
			var err error
			resultA, suspA, err = AdvanceError[E](suspA)
			if err == nil {
				progress = true
				if suspA == nil {
					s.Release()
				}
			}
		}
		if suspB != nil {
			var err error
			resultB, suspB, err = AdvanceError[E](suspB)
			if err == nil {
				progress = true
				if suspB == nil {
					r.Release()
				}
			}
		}
		if !progress {
			bo.Wait()
		} else {
			bo.Reset()
		}
	}
	return resultA, resultB, nil
}

// StepError evaluates a channel protocol with error support until the
// first effect suspension. Returns (Either[E, R], nil) on completion or
// error, or (zero, suspension) if pending. R may be an interface type
// with a nil result.
func StepError[E, R any](protocol kont.Expr[R]) (kont.Either[E, R], *kont.Suspension[kont.Either[E, R]]) {
	wrapped := kont.ExprMap(protocol, func(r R) kont.Either[E, R] {
		return kont.Right[E, R](r)
	})
	return kont.StepExpr(wrapped)
}

// AdvanceError dispatches the suspended operation. Channel ops never park
// (iox.ErrWouldBlock). Error ops are eager: Throw discards the suspension
// and returns Left.
func AdvanceError[E, R any](susp *kont.Suspension[kont.Either[E, R]]) (kont.Either[E, R], *kont.Suspension[kont.Either[E, R]], error) {
	if cd, ok := susp.Op().(channelDispatcher); ok {
		v, err := cd.DispatchChannel(nil)
		if err != nil {
			var zero kont.Either[E, R]
			return zero, susp, err
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	if eop, ok := susp.Op().(interface {
		DispatchError(ctx *kont.ErrorContext[E]) (kont.Resumed, bool)
	}); ok {
		var ctx kont.ErrorContext[E]
		v, _ := eop.DispatchError(&ctx)
		if ctx.HasErr {
			susp.Discard()
			return kont.Left[E, R](ctx.Err), nil, nil
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	panic("achan: unhandled effect in AdvanceError")
}

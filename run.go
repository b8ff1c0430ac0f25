// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package achan

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// boxed carries a protocol result through kont's stepping, which converts
// the final value back with a type assertion and so rejects nil interfaces.
type boxed[R any] struct {
	v R
}

// reifyBoxed reifies m with its result boxed.
func reifyBoxed[R any](m kont.Eff[R]) kont.Expr[boxed[R]] {
	return kont.Reify(kont.Map[kont.Resumed, R, boxed[R]](m, func(v R) boxed[R] {
		return boxed[R]{v: v}
	}))
}

// Run creates a channel, runs a Cont-world producer and consumer on it,
// and returns both results. See RunExpr. Results of interface type may
// be nil.
func Run[T, A, B any](capacity int, producer func(*Sender[T]) kont.Eff[A], consumer func(*Receiver[T]) kont.Eff[B], opts ...Option) (A, B, error) {
	a, b, err := RunExpr(capacity,
		func(s *Sender[T]) kont.Expr[boxed[A]] { return reifyBoxed(producer(s)) },
		func(r *Receiver[T]) kont.Expr[boxed[B]] { return reifyBoxed(consumer(r)) },
		opts...)
	return a.v, b.v, err
}

// RunExpr creates a channel, runs an Expr-world producer and consumer on
// it, and returns both results. Both sides are interleaved on the calling
// goroutine with adaptive backoff (iox.Backoff) when neither can make
// progress; operations never park, so the Runner is not used. Each side's
// handle is released as soon as its protocol completes, which is how the
// consumer observes end of stream.
//
// The error is non-nil only when the channel cannot be created.
// A and B must not be interface types whose protocols may return nil;
// use Run, or return a struct such as Delivery.
func RunExpr[T, A, B any](capacity int, producer func(*Sender[T]) kont.Expr[A], consumer func(*Receiver[T]) kont.Expr[B], opts ...Option) (A, B, error) {
	s, r, err := New[T](capacity, opts...)
	if err != nil {
		var a A
		var b B
		return a, b, err
	}
	resultA, suspA := Step(producer(s))
	if suspA == nil {
		s.Release()
	}
	resultB, suspB := Step(consumer(r))
	if suspB == nil {
		r.Release()
	}
	var bo iox.Backoff
	for suspA != nil || suspB != nil {
		progress := false
		if suspA != nil {
			var err error
			resultA, suspA, err = Advance(suspA)
			if err == nil {
				progress = true
				if suspA == nil {
					s.Release()
				}
			}
		}
		if suspB != nil {
			var err error
			resultB, suspB, err = Advance(suspB)
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

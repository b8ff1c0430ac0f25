// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package achan

import (
	"code.hybscloud.com/kont"
)

// Loop runs a recursive channel protocol (Cont-world).
// step returns Left(nextState) to continue or Right(result) to finish.
func Loop[S, A any](initial S, step func(S) kont.Eff[kont.Either[S, A]]) kont.Eff[A] {
	return kont.Bind(step(initial), func(e kont.Either[S, A]) kont.Eff[A] {
		if left, ok := e.GetLeft(); ok {
			return Loop(left, step)
		}
		right, _ := e.GetRight()
		return kont.Pure(right)
	})
}

// ExprLoop runs a recursive channel protocol (Expr-world).
// step returns Left(nextState) to continue or Right(result) to finish.
func ExprLoop[S, A any](initial S, step func(S) kont.Expr[kont.Either[S, A]]) kont.Expr[A] {
	m := step(initial)
	if _, ok := m.Frame.(kont.ReturnFrame); ok {
		if left, ok := m.Value.GetLeft(); ok {
			return ExprLoop(left, step)
		}
		right, _ := m.Value.GetRight()
		return kont.ExprReturn(right)
	}
	bf := kont.AcquireBindFrame()
	bf.F = func(a kont.Erased) kont.Expr[kont.Erased] {
		e := a.(kont.Either[S, A])
		if left, ok := e.GetLeft(); ok {
			result := ExprLoop(left, step)
			return kont.Expr[kont.Erased]{Value: kont.Erased(result.Value), Frame: result.Frame}
		}
		right, _ := e.GetRight()
		return kont.Expr[kont.Erased]{Value: kont.Erased(right), Frame: kont.ReturnFrame{}}
	}
	bf.Next = kont.ReturnFrame{}
	var zero A
	return kont.Expr[A]{
		Value: zero,
		Frame: kont.ChainFrames(m.Frame, bf),
	}
}

// Drain receives from r until end of stream, folding every value into
// the state with f.
func Drain[T, S any](r *Receiver[T], init S, f func(S, T) S) kont.Eff[S] {
	return Loop(init, func(acc S) kont.Eff[kont.Either[S, S]] {
		return RecvBind(r, func(v T, ok bool) kont.Eff[kont.Either[S, S]] {
			if !ok {
				return kont.Pure(kont.Right[S, S](acc))
			}
			return kont.Pure(kont.Left[S, S](f(acc, v)))
		})
	})
}

// ExprDrain is the Expr-world Drain.
func ExprDrain[T, S any](r *Receiver[T], init S, f func(S, T) S) kont.Expr[S] {
	return ExprLoop(init, func(acc S) kont.Expr[kont.Either[S, S]] {
		return ExprRecvBind(r, func(v T, ok bool) kont.Expr[kont.Either[S, S]] {
			if !ok {
				return kont.ExprReturn(kont.Right[S, S](acc))
			}
			return kont.ExprReturn(kont.Left[S, S](f(acc, v)))
		})
	})
}

// Feed sends values in order and returns how many were delivered.
// It stops at the first value the channel rejects.
func Feed[T any](s *Sender[T], values []T) kont.Eff[int] {
	return Loop(0, func(i int) kont.Eff[kont.Either[int, int]] {
		if i == len(values) {
			return kont.Pure(kont.Right[int, int](i))
		}
		return SendBind(s, values[i], func(err error) kont.Eff[kont.Either[int, int]] {
			if err != nil {
				return kont.Pure(kont.Right[int, int](i))
			}
			return kont.Pure(kont.Left[int, int](i + 1))
		})
	})
}

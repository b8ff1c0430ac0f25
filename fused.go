// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package achan

import (
	"code.hybscloud.com/kont"
)

// SendThen sends v on s and then continues with next, whatever the
// delivery outcome. Fuses Perform(Send[T]{...}) + Then.
func SendThen[T, B any](s *Sender[T], v T, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Send[T]{To: s, Value: v}), next)
}

// SendBind sends v on s and passes the delivery error (nil on success) to f.
func SendBind[T, B any](s *Sender[T], v T, f func(error) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Send[T]{To: s, Value: v}), func(d Delivery) kont.Eff[B] {
		return f(d.Err)
	})
}

// SendOrThrow sends v on s and continues with next, or throws the delivery
// error through the Error effect. Run it with ExecError[error].
func SendOrThrow[T, B any](s *Sender[T], v T, next kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Send[T]{To: s, Value: v}), func(d Delivery) kont.Eff[B] {
		if d.Err != nil {
			return kont.ThrowError[error, B](d.Err)
		}
		return next
	})
}

// RecvBind receives from r and passes the value to f; ok is false at end
// of stream. Fuses Perform(Recv[T]{...}) + Bind.
func RecvBind[T, B any](r *Receiver[T], f func(v T, ok bool) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Recv[T]{From: r}), func(it Item[T]) kont.Eff[B] {
		return f(it.Value, it.OK)
	})
}

// CloseDone closes r's channel and returns a.
// Fuses Perform(Close[T]{...}) + Then + Pure.
func CloseDone[T, A any](r *Receiver[T], a A) kont.Eff[A] {
	return kont.Then(kont.Perform(Close[T]{From: r}), kont.Pure(a))
}

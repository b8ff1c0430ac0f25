// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package achan

import (
	"code.hybscloud.com/kont"
)

var exprReturnFrame kont.Frame = kont.ReturnFrame{}

// identityResume is the identity resume function for EffectFrame construction.
func identityResume(v kont.Erased) kont.Erased { return v }

// ExprSendThen sends v on s and then continues with next.
// Fuses ExprPerform(Send[T]{...}) + ExprThen.
func ExprSendThen[T, B any](s *Sender[T], v T, next kont.Expr[B]) kont.Expr[B] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = Send[T]{To: s, Value: v}
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[B](ef)
}

func sendBindUnwind[B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func(error) kont.Expr[B])
	result := f(current.(Delivery).Err)
	return kont.Erased(result.Value), result.Frame
}

// ExprSendBind sends v on s and passes the delivery error to f.
func ExprSendBind[T, B any](s *Sender[T], v T, f func(error) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = sendBindUnwind[B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Send[T]{To: s, Value: v}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

func recvBindUnwind[T, B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func(T, bool) kont.Expr[B])
	it := current.(Item[T])
	result := f(it.Value, it.OK)
	return kont.Erased(result.Value), result.Frame
}

// ExprRecvBind receives from r and passes the value to f.
// Fuses ExprPerform(Recv[T]{...}) + ExprBind.
func ExprRecvBind[T, B any](r *Receiver[T], f func(v T, ok bool) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = recvBindUnwind[T, B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Recv[T]{From: r}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

// ExprCloseDone closes r's channel and returns a.
func ExprCloseDone[T, A any](r *Receiver[T], a A) kont.Expr[A] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(a), Frame: exprReturnFrame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = Close[T]{From: r}
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[A](ef)
}

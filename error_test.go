// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package achan_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/achan"
	"code.hybscloud.com/kont"
)

func TestExecErrorSuccess(t *testing.T) {
	s, r := mustNew[int](t, 1)
	defer s.Release()
	defer r.Release()

	result := achan.ExecError[error](achan.SendOrThrow(s, 42, kont.Pure("ok")))
	if !result.IsRight() {
		t.Fatalf("expected Right, got Left")
	}
	v, _ := result.GetRight()
	if v != "ok" {
		t.Fatalf("got %q, want %q", v, "ok")
	}
	if got, ok := r.Recv(); !ok || got != 42 {
		t.Fatalf("Recv: got (%d, %v)", got, ok)
	}
}

func TestExecErrorThrowOnClosed(t *testing.T) {
	s, r := mustNew[int](t, 1)
	defer s.Release()
	defer r.Release()
	r.Close()

	result := achan.ExecError[error](achan.SendOrThrow(s, 42, kont.Pure("ok")))
	if !result.IsLeft() {
		t.Fatalf("expected Left, got Right")
	}
	err, _ := result.GetLeft()
	if !errors.Is(err, achan.ErrClosed) {
		t.Fatalf("got %v, want ErrClosed", err)
	}
}

func TestExecErrorCatchRecovery(t *testing.T) {
	s, r := mustNew[string](t, 1)
	defer s.Release()
	defer r.Release()

	protocol := kont.Bind(
		kont.CatchError(
			kont.ThrowError[string, string]("fail"),
			func(e string) kont.Eff[string] {
				return kont.Pure("recovered: " + e)
			},
		),
		func(v string) kont.Eff[string] {
			return achan.SendThen(s, v, kont.Pure(v))
		},
	)
	result := achan.ExecError[string](protocol)
	if !result.IsRight() {
		t.Fatalf("expected Right, got Left")
	}
	if v, ok := r.Recv(); !ok || v != "recovered: fail" {
		t.Fatalf("Recv: got (%q, %v)", v, ok)
	}
}

func TestExecErrorExpr(t *testing.T) {
	s, r := mustNew[int](t, 2)
	defer s.Release()
	defer r.Release()

	result := achan.ExecErrorExpr[string](achan.ExprSendThen(s, 7, kont.ExprReturn(7)))
	if v, ok := result.GetRight(); !ok || v != 7 {
		t.Fatalf("got (%d, %v), want Right 7", v, ok)
	}
	result = achan.ExecErrorExpr[string](kont.Reify(achan.SendThen(s, 8, kont.ThrowError[string, int]("full"))))
	if e, ok := result.GetLeft(); !ok || e != "full" {
		t.Fatalf("got (%q, %v), want Left full", e, ok)
	}
}

func TestStepAdvanceError(t *testing.T) {
	s, r := mustNew[int](t, 1)
	defer s.Release()
	defer r.Release()
	r.Close()

	protocol := kont.Reify(achan.SendOrThrow(s, 1, kont.Pure("ok")))
	result, susp := achan.StepError[error](protocol)
	steps := 0
	for susp != nil {
		var err error
		result, susp, err = achan.AdvanceError[error](susp)
		if err != nil {
			t.Fatalf("AdvanceError: %v", err)
		}
		steps++
	}
	if steps != 2 {
		t.Fatalf("took %d steps, want 2 (send, throw)", steps)
	}
	err, ok := result.GetLeft()
	if !ok || !errors.Is(err, achan.ErrClosed) {
		t.Fatalf("got (%v, %v), want Left ErrClosed", err, ok)
	}
}

func TestRunErrorProducerThrows(t *testing.T) {
	producer := func(s *achan.Sender[int]) kont.Eff[int] {
		return achan.Loop(0, func(i int) kont.Eff[kont.Either[int, int]] {
			if i == 10 {
				return kont.Pure(kont.Right[int, int](i))
			}
			return achan.SendOrThrow(s, i, kont.Pure(kont.Left[int, int](i+1)))
		})
	}
	consumer := func(r *achan.Receiver[int]) kont.Eff[int] {
		return achan.RecvBind(r, func(v int, _ bool) kont.Eff[int] {
			return achan.CloseDone(r, v)
		})
	}

	free, frees := freeCounter()
	a, b, err := achan.RunError[error](1, producer, consumer, free)
	if err != nil {
		t.Fatal(err)
	}
	if e, ok := a.GetLeft(); !ok || !errors.Is(e, achan.ErrClosed) {
		t.Fatalf("producer: got (%v, %v), want Left ErrClosed", e, ok)
	}
	if v, ok := b.GetRight(); !ok || v != 0 {
		t.Fatalf("consumer: got (%d, %v), want Right 0", v, ok)
	}
	if frees() != 1 {
		t.Fatalf("free hook: got %d calls, want 1", frees())
	}
}

func TestRunErrorExprSuccess(t *testing.T) {
	a, b, err := achan.RunErrorExpr[string](2,
		func(s *achan.Sender[int]) kont.Expr[string] {
			return achan.ExprSendThen(s, 20, achan.ExprSendThen(s, 22, kont.ExprReturn("ok")))
		},
		func(r *achan.Receiver[int]) kont.Expr[int] {
			return achan.ExprDrain(r, 0, func(acc, v int) int { return acc + v })
		})
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := a.GetRight(); !ok || v != "ok" {
		t.Fatalf("producer: got (%q, %v)", v, ok)
	}
	if v, ok := b.GetRight(); !ok || v != 42 {
		t.Fatalf("consumer: got (%d, %v)", v, ok)
	}
}

func TestExecErrorUnhandledEffectPanics(t *testing.T) {
	type foreign struct {
		kont.Phantom[int]
	}
	mustPanic(t, "ExecError", func() {
		achan.ExecError[error](kont.Perform(foreign{}))
	})
}

func TestRunErrorNilErrorResult(t *testing.T) {
	a, b, err := achan.RunError[string](1, sendOne, countValues)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := a.GetRight(); !ok || v != nil {
		t.Fatalf("producer: got (%v, %v), want Right nil", v, ok)
	}
	if v, ok := b.GetRight(); !ok || v != 1 {
		t.Fatalf("consumer: got (%d, %v), want Right 1", v, ok)
	}
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package achan_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/achan"
)

func TestDiscardReleasesReservation(t *testing.T) {
	free, frees := freeCounter()
	s, r := mustNew[int](t, 1, free)

	send, _ := s.Send(1)
	recv := r.Receive()
	if st := s.Stats(); st.Sending != 1 || st.Receiving != 1 {
		t.Fatalf("stats: got %+v, want one reservation each", st)
	}
	send.Discard()
	recv.Discard()
	send.Discard() // no-op
	if st := s.Stats(); st.Sending != 0 || st.Receiving != 0 {
		t.Fatalf("stats after Discard: %+v", st)
	}
	if !errors.Is(send.Err(), achan.ErrDropped) {
		t.Fatalf("discarded send: got %v, want ErrDropped", send.Err())
	}
	if _, ok := recv.Value(); ok {
		t.Fatal("discarded receive reported a value")
	}
	mustPanic(t, "Start after Discard", func() { send.Start(nil) })
	mustPanic(t, "Start after Discard", func() { recv.Start(nil) })

	s.Release()
	r.Release()
	if frees() != 1 {
		t.Fatalf("free hook: got %d calls, want 1", frees())
	}
}

func TestDiscardAfterStartIsNoop(t *testing.T) {
	s, r := mustNew[int](t, 1)
	defer s.Release()
	defer r.Release()

	recv := r.Receive()
	if !recv.Start(nil) {
		t.Fatal("receive did not park")
	}
	recv.Discard()
	if recv.Done() {
		t.Fatal("Discard resolved a parked receive")
	}
	if err := s.TrySend(3); err != nil {
		t.Fatal(err)
	}
	if v, ok := recv.Value(); !ok || v != 3 {
		t.Fatalf("Value: got (%d, %v), want (3, true)", v, ok)
	}
}

func TestStartTwicePanics(t *testing.T) {
	s, r := mustNew[int](t, 2)
	defer s.Release()
	defer r.Release()

	send, _ := s.Send(1)
	if send.Start(nil) {
		t.Fatal("send parked on an empty buffer")
	}
	mustPanic(t, "SendOp.Start twice", func() { send.Start(nil) })

	recv := r.Receive()
	recv.Start(nil)
	mustPanic(t, "RecvOp.Start twice", func() { recv.Start(nil) })
}

func TestResultBeforeCompletionPanics(t *testing.T) {
	s, r := mustNew[int](t, 1)
	defer s.Release()
	defer r.Release()

	send, _ := s.Send(1)
	mustPanic(t, "SendOp.Err", func() { _ = send.Err() })
	send.Discard()

	recv := r.Receive()
	mustPanic(t, "RecvOp.Value", func() { recv.Value() })
	recv.Discard()
}

func TestWaitStartsOperation(t *testing.T) {
	s, r := mustNew[int](t, 1)
	defer s.Release()
	defer r.Release()

	send, _ := s.Send(4)
	if err := send.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	v, ok := r.Receive().Wait()
	if !ok || v != 4 {
		t.Fatalf("Wait: got (%d, %v), want (4, true)", v, ok)
	}
}

func TestSendWaitAcrossGoroutines(t *testing.T) {
	skipRace(t)
	s, r := mustNew[int](t, 1, achan.WithRunner(achan.Spawn))
	defer r.Release()

	const n = 100
	go func() {
		defer s.Release()
		for i := range n {
			if err := s.SendWait(i); err != nil {
				t.Errorf("SendWait(%d): %v", i, err)
				return
			}
		}
	}()
	for want := range n {
		v, ok := r.Recv()
		if !ok || v != want {
			t.Fatalf("Recv: got (%d, %v), want (%d, true)", v, ok, want)
		}
	}
	if _, ok := r.Recv(); ok {
		t.Fatal("want end of stream")
	}
}

func TestReceiverLeavesMidStream(t *testing.T) {
	skipRace(t)
	s, r := mustNew[int](t, 2, achan.WithRunner(achan.Spawn))
	defer s.Release()

	done := make(chan error)
	go func() {
		for i := 0; ; i++ {
			if err := s.SendWait(i); err != nil {
				done <- err
				return
			}
		}
	}()
	for range 10 {
		if _, ok := r.Recv(); !ok {
			t.Fatal("unexpected end of stream")
		}
	}
	r.Release()
	err := <-done
	if !errors.Is(err, achan.ErrClosed) && !errors.Is(err, achan.ErrDropped) {
		t.Fatalf("producer: got %v, want ErrClosed or ErrDropped", err)
	}
}

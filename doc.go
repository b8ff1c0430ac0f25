// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package achan provides a bounded multi-producer multi-consumer channel
// whose operations suspend instead of blocking a thread.
//
// A send or receive that cannot complete is parked together with its
// continuation. The counterpart that later makes room or supplies a value
// hands the continuation to a [Runner], which decides where it resumes.
//
// # Architecture
//
//   - Core: a ring buffer of [code.hybscloud.com/lfq] guarded by one mutex, two FIFO lists of parked
//     waiters, and four [code.hybscloud.com/atomix] counters: live senders, live receivers, sends in
//     flight and receives in flight.
//   - Handles: [New] returns a [Sender] and a [Receiver]. Handles are cloned and released explicitly;
//     when one side is exhausted the channel closes, parked receivers see end of stream and parked
//     senders resolve with [ErrDropped].
//   - Operations: [Sender.Send] and [Receiver.Receive] reserve a [SendOp] or [RecvOp]. Start runs it
//     once, Wait blocks on it with [code.hybscloud.com/iox.Backoff], Discard gives it up.
//   - Non-blocking: [Sender.TrySend] and [Receiver.TryRecv] return [code.hybscloud.com/iox.ErrWouldBlock]
//     instead of parking.
//   - Scheduling: [Immediate], [Spawn] and [Pool] resume continuations inline, on a new goroutine, or
//     on a bounded worker set.
//
// # Effects
//
// The same operations are exposed as [code.hybscloud.com/kont] effects:
// [Send], [Recv] and [Close], with fused constructors ([SendThen], [SendBind], [RecvBind],
// [CloseDone] and their Expr-world twins) and recursive helpers ([Loop], [Drain], [Feed]).
//
//   - Blocking: [Exec] and [ExecError] wait out parked operations.
//   - Asynchronous: [Async] continues the protocol inside the parked operation's continuation.
//   - Stepping: [Step] and [Advance] never park, for integration with an event loop.
//   - Pairs: [Run] and [RunError] interleave a producer and a consumer on the calling goroutine.
//
// # Example
//
//	s, r, _ := achan.New[int](4)
//	go func() {
//		defer s.Release()
//		for i := range 10 {
//			if s.SendWait(i) != nil {
//				return
//			}
//		}
//	}()
//	for v, ok := r.Recv(); ok; v, ok = r.Recv() {
//		fmt.Println(v)
//	}
//	r.Release()
package achan

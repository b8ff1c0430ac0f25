// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package achan

import (
	"code.hybscloud.com/kont"
)

// Async runs a Cont-world channel protocol without blocking.
// See AsyncExpr. R may be an interface type with a nil result.
func Async[R any](protocol kont.Eff[R], done func(R)) {
	AsyncExpr(reifyBoxed(protocol), func(r boxed[R]) {
		if done != nil {
			done(r.v)
		}
	})
}

// AsyncExpr runs an Expr-world channel protocol without blocking.
//
// The protocol advances on the calling goroutine until an operation parks.
// AsyncExpr then returns, and the protocol continues inside the parked
// operation's continuation, on whatever goroutine the channel's Runner
// uses. done, if non-nil, receives the result exactly once.
// R must not be an interface type whose protocol may return nil; use Async
// for those.
func AsyncExpr[R any](protocol kont.Expr[R], done func(R)) {
	result, susp := kont.StepExpr(protocol)
	drive(result, susp, done)
}

func drive[R any](result R, susp *kont.Suspension[R], done func(R)) {
	for susp != nil {
		cd, ok := susp.Op().(channelDispatcher)
		if !ok {
			panic("achan: unhandled effect in Async")
		}
		s := susp
		v, err := cd.DispatchChannel(func(r kont.Resumed) {
			next, nsusp := s.Resume(r)
			drive(next, nsusp, done)
		})
		if err != nil {
			return
		}
		result, susp = susp.Resume(v)
	}
	if done != nil {
		done(result)
	}
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package achan

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// channelHandler dispatches channel effects, waiting out parked operations.
type channelHandler[R any] struct{}

// Dispatch implements kont.Handler for channel operations.
func (channelHandler[R]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	cd, ok := op.(channelDispatcher)
	if !ok {
		panic("achan: unhandled effect in channelHandler")
	}
	return dispatchWait(cd), true
}

// dispatchWait starts the operation and, if it parks, backs off with
// iox.Backoff until its continuation has delivered the result.
func dispatchWait(cd channelDispatcher) kont.Resumed {
	var done atomix.Uint32
	var out kont.Resumed
	v, err := cd.DispatchChannel(func(r kont.Resumed) {
		out = r
		done.Add(1)
	})
	if err == nil {
		return v
	}
	var bo iox.Backoff
	for done.Load() == 0 {
		bo.Wait()
	}
	return out
}

// Exec runs a Cont-world channel protocol on the calling goroutine.
// A parked operation is resumed through its channel's Runner while Exec
// waits with adaptive backoff.
func Exec[R any](protocol kont.Eff[R]) R {
	return kont.Handle(protocol, channelHandler[R]{})
}

// ExecExpr runs an Expr-world channel protocol on the calling goroutine.
func ExecExpr[R any](protocol kont.Expr[R]) R {
	return kont.HandleExpr(protocol, channelHandler[R]{})
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package achan

import (
	"code.hybscloud.com/kont"
)

// Step evaluates a channel protocol until the first effect suspension.
// Returns (result, nil) on completion, or (zero, suspension) if pending.
//
// kont converts the final value back to R with a type assertion, so R must
// not be an interface type whose protocol may return nil. Wrap such results
// in a struct, as Delivery wraps a send error.
func Step[R any](protocol kont.Expr[R]) (R, *kont.Suspension[R]) {
	return kont.StepExpr(protocol)
}

// Advance dispatches the suspended channel operation without parking.
//
// On success (nil error), the suspension is consumed and the protocol
// advances to the next effect or completion.
// On iox.ErrWouldBlock the channel is unchanged and the suspension is
// unconsumed; retry it after the other side has made progress.
// R is restricted as for Step.
func Advance[R any](susp *kont.Suspension[R]) (R, *kont.Suspension[R], error) {
	cd, ok := susp.Op().(channelDispatcher)
	if !ok {
		panic("achan: unhandled effect in Advance")
	}
	v, err := cd.DispatchChannel(nil)
	if err != nil {
		var zero R
		return zero, susp, err
	}
	result, next := susp.Resume(v)
	return result, next, nil
}

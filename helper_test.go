// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package achan_test

import (
	"testing"

	"code.hybscloud.com/achan"
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/kont"
)

// mustNew creates a channel or fails the test.
func mustNew[T any](tb testing.TB, capacity int, opts ...achan.Option) (*achan.Sender[T], *achan.Receiver[T]) {
	tb.Helper()
	s, r, err := achan.New[T](capacity, opts...)
	if err != nil {
		tb.Fatalf("New(%d): %v", capacity, err)
	}
	return s, r
}

// freeCounter returns a free hook and a function reporting how often it ran.
func freeCounter() (achan.Option, func() uint32) {
	var n atomix.Uint32
	return achan.WithFreeHook(func() { n.Add(1) }), n.Load
}

// stepAll drives a protocol with Step+Advance until it completes or an
// Advance would block; the pending suspension is returned in that case.
func stepAll[R any](protocol kont.Expr[R]) (R, *kont.Suspension[R]) {
	result, susp := achan.Step(protocol)
	for susp != nil {
		var err error
		result, susp, err = achan.Advance(susp)
		if err != nil {
			return result, susp
		}
	}
	return result, nil
}

// mustPanic fails the test unless f panics.
func mustPanic(tb testing.TB, name string, f func()) {
	tb.Helper()
	defer func() {
		if recover() == nil {
			tb.Fatalf("%s: expected panic", name)
		}
	}()
	f()
}

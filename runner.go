// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package achan

// Runner resumes parked operations.
// Schedule must invoke resume exactly once, eventually. The channel never
// holds its lock while calling Schedule, so resume may run synchronously
// and re-enter the same channel.
type Runner interface {
	Schedule(resume func())
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(resume func())

// Schedule calls f(resume).
func (f RunnerFunc) Schedule(resume func()) { f(resume) }

var (
	// Immediate resumes on the calling goroutine before Schedule returns.
	// It is the default Runner and makes single-goroutine tests deterministic.
	Immediate Runner = RunnerFunc(func(resume func()) { resume() })

	// Spawn resumes every continuation on its own goroutine.
	Spawn Runner = RunnerFunc(func(resume func()) { go resume() })
)

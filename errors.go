// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package achan

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed reports a send on a channel whose receiving side has closed it.
	// Callers typically stop producing.
	ErrClosed = errors.New("achan: channel closed")

	// ErrDropped reports a send whose value was not delivered because no
	// receiver exists or can ever exist to take it.
	ErrDropped = errors.New("achan: value dropped, no receiver left")

	// ErrCapacity reports a non-positive capacity passed to New.
	ErrCapacity = errors.New("achan: capacity must be positive")
)

// InvariantError describes an impossible internal state of a channel.
// It is raised with panic and indicates a defect in this package,
// never a caller error; recovering from it and continuing is unsafe.
type InvariantError struct {
	Serial Serial
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("achan: invariant violated on channel %d: %s", e.Serial, e.Reason)
}

func invariant(s Serial, reason string) {
	panic(&InvariantError{Serial: s, Reason: reason})
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package achan

// Stats is a consistent snapshot of a channel, taken under its lock.
type Stats struct {
	Serial          Serial
	Capacity        int
	Len             int
	ParkedSenders   int
	ParkedReceivers int
	Senders         uint32 // live Sender handles
	Receivers       uint32 // live Receiver handles
	Sending         uint32 // send operations in flight
	Receiving       uint32 // receive operations in flight
	Closed          bool
	Freed           bool
}

func (c *core[T]) stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Serial:          c.serial,
		Capacity:        c.capacity,
		Len:             c.size,
		ParkedSenders:   c.producers.Len(),
		ParkedReceivers: c.consumers.Len(),
		Senders:         c.senders.Load(),
		Receivers:       c.receivers.Load(),
		Sending:         c.sending.Load(),
		Receiving:       c.receiving.Load(),
		Closed:          c.closed.Load() != 0,
		Freed:           c.freed,
	}
}

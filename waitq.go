// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package achan

const minWaitq = 4

// waitq is a growable FIFO ring of parked waiters.
// Not safe for concurrent use; the channel core guards it with its lock.
type waitq[T any] struct {
	data         []T
	offset, size int
}

func (q *waitq[T]) Len() int {
	return q.size
}

// Push appends v at the tail.
func (q *waitq[T]) Push(v T) {
	if q.size == len(q.data) {
		q.grow()
	}
	q.data[(q.offset+q.size)%len(q.data)] = v
	q.size++
}

// Pop removes and returns the head.
func (q *waitq[T]) Pop() (T, bool) {
	var zero T
	if q.size == 0 {
		return zero, false
	}
	v := q.data[q.offset]
	q.data[q.offset] = zero
	q.offset = (q.offset + 1) % len(q.data)
	q.size--
	return v, true
}

// PopAll empties the queue and returns its contents in FIFO order.
func (q *waitq[T]) PopAll() []T {
	if q.size == 0 {
		return nil
	}
	out := make([]T, 0, q.size)
	for {
		v, ok := q.Pop()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

func (q *waitq[T]) grow() {
	n := len(q.data) << 1
	if n < minWaitq {
		n = minWaitq
	}
	data := make([]T, n)
	end := q.offset + q.size
	if end <= len(q.data) {
		copy(data, q.data[q.offset:end])
	} else {
		copied := copy(data, q.data[q.offset:])
		copy(data[copied:], q.data[:q.size-copied])
	}
	q.data = data
	q.offset = 0
}

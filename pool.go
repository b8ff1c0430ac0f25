// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package achan

import (
	"sync"

	"code.hybscloud.com/atomix"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// task is a queued continuation. Tasks are recycled through taskPool.
type task struct {
	resume func()
	next   *task
}

var taskPool = sync.Pool{New: func() any { return new(task) }}

// Pool is a Runner that resumes continuations on a bounded set of worker
// goroutines. Schedule never blocks: continuations queue in FIFO order and
// workers are started on demand, up to the bound.
type Pool struct {
	name    string
	sem     *semaphore.Weighted
	mu      sync.Mutex
	head    *task
	tail    *task
	workers atomix.Uint32

	log     logrus.FieldLogger
	onPanic func(any)
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithPoolLogger sets the logger used to report recovered panics.
func WithPoolLogger(l logrus.FieldLogger) PoolOption {
	return func(p *Pool) {
		if l != nil {
			p.log = l
		}
	}
}

// WithPanicHandler sets f to receive the value of every recovered panic.
func WithPanicHandler(f func(any)) PoolOption {
	return func(p *Pool) {
		p.onPanic = f
	}
}

// NewPool creates a Pool running at most workers continuations at once.
// workers below 1 is treated as 1.
func NewPool(name string, workers int, opts ...PoolOption) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{
		name: name,
		sem:  semaphore.NewWeighted(int64(workers)),
		log:  discardLogger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the pool name.
func (p *Pool) Name() string {
	return p.name
}

// Workers returns the number of running worker goroutines.
func (p *Pool) Workers() int {
	return int(p.workers.Load())
}

// Schedule queues resume and starts a worker if the bound allows.
func (p *Pool) Schedule(resume func()) {
	t := taskPool.Get().(*task)
	t.resume = resume
	p.mu.Lock() // Critical Zone: update task queue
	if p.head == nil {
		p.head = t
		p.tail = t
	} else {
		p.tail.next = t
		p.tail = t
	}
	p.mu.Unlock()
	if p.sem.TryAcquire(1) {
		p.workers.Add(1)
		go p.work()
	}
}

func (p *Pool) pop() func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	t := p.head
	if t == nil {
		return nil
	}
	p.head = t.next
	if p.head == nil {
		p.tail = nil
	}
	resume := t.resume
	t.resume, t.next = nil, nil
	taskPool.Put(t)
	return resume
}

func (p *Pool) empty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.head == nil
}

// work drains the queue. Before exiting it gives its slot back and
// re-checks the queue, so a task queued while the slot was held is not
// stranded.
func (p *Pool) work() {
	for {
		for resume := p.pop(); resume != nil; resume = p.pop() {
			p.run(resume)
		}
		p.workers.Add(^uint32(0))
		p.sem.Release(1)
		if p.empty() || !p.sem.TryAcquire(1) {
			return
		}
		p.workers.Add(1)
	}
}

func (p *Pool) run(resume func()) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if ie, ok := r.(*InvariantError); ok {
			panic(ie)
		}
		p.log.WithFields(logrus.Fields{"pool": p.name, "panic": r}).Error("achan: continuation panicked")
		if p.onPanic != nil {
			p.onPanic(r)
		}
	}()
	resume()
}

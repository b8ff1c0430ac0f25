// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package achan_test

import (
	"fmt"
	"sync"
	"testing"

	"code.hybscloud.com/achan"
)

// manyToMany runs producers × consumers over one channel and checks that
// every value arrives exactly once and that each consumer observes each
// producer's values in send order.
func manyToMany(t *testing.T, runner achan.Runner, capacity, producers, consumers, perProducer int) {
	t.Helper()
	free, frees := freeCounter()
	s, r := mustNew[int](t, capacity, achan.WithRunner(runner), free)

	var wg sync.WaitGroup
	for p := range producers {
		ps := s.Clone()
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer ps.Release()
			for i := range perProducer {
				if err := ps.SendWait(p*perProducer + i); err != nil {
					t.Errorf("producer %d: %v", p, err)
					return
				}
			}
		}()
	}
	s.Release()

	got := make([][]int, consumers)
	for c := range consumers {
		cr := r.Clone()
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer cr.Release()
			for v, ok := cr.Recv(); ok; v, ok = cr.Recv() {
				got[c] = append(got[c], v)
			}
		}()
	}
	r.Release()
	wg.Wait()

	seen := make([]bool, producers*perProducer)
	for c, vs := range got {
		last := make([]int, producers)
		for i := range last {
			last[i] = -1
		}
		for _, v := range vs {
			if seen[v] {
				t.Fatalf("value %d received twice", v)
			}
			seen[v] = true
			p, i := v/perProducer, v%perProducer
			if i <= last[p] {
				t.Fatalf("consumer %d: producer %d value %d after %d", c, p, i, last[p])
			}
			last[p] = i
		}
	}
	for v, ok := range seen {
		if !ok {
			t.Fatalf("value %d lost", v)
		}
	}
	if frees() != 1 {
		t.Fatalf("free hook: got %d calls, want 1", frees())
	}
}

func TestManyToManyPool(t *testing.T) {
	skipRace(t)
	for _, tc := range []struct{ producers, consumers int }{
		{1, 1}, {2, 1}, {2, 2}, {20, 31},
	} {
		t.Run(fmt.Sprintf("%d:%d", tc.producers, tc.consumers), func(t *testing.T) {
			pool := achan.NewPool("test", 4)
			manyToMany(t, pool, 3, tc.producers, tc.consumers, 200)
		})
	}
}

func TestManyToManySpawn(t *testing.T) {
	skipRace(t)
	manyToMany(t, achan.Spawn, 1, 4, 4, 500)
}

func TestManyToManyImmediate(t *testing.T) {
	skipRace(t)
	manyToMany(t, achan.Immediate, 8, 3, 2, 500)
}

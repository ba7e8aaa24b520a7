// Package pool provides a fixed set of worker goroutines for candidate
// searches, such as hunting for probable primes, where many independent
// draws race and the first winners count.
package pool

import (
	"io"
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a fixed group of workers accepting jobs from a shared channel.
//
// A nil *Pool is valid everywhere: the work then runs on the calling
// goroutine. This lets library functions take an optional pool without
// special-casing the serial path.
type Pool struct {
	jobs chan func()
	size int
}

// NewPool starts a pool with the given number of workers. A count of zero
// or less uses runtime.NumCPU().
func NewPool(count int) *Pool {
	if count <= 0 {
		count = runtime.NumCPU()
	}
	p := &Pool{
		jobs: make(chan func()),
		size: count,
	}
	for i := 0; i < count; i++ {
		go func() {
			for job := range p.jobs {
				job()
			}
		}()
	}
	return p
}

// TearDown stops the workers. The pool must not be used afterwards.
func (p *Pool) TearDown() {
	if p == nil {
		return
	}
	close(p.jobs)
}

// Search evaluates f repeatedly across the workers until count attempts
// have succeeded, then returns those results. f reports a failed attempt
// by returning nil.
//
// Once the final success lands, the remaining workers notice through a
// shared counter and abandon the search after at most one more attempt.
// Concurrent Search calls on the same pool do not interfere: each call
// carries its own counter and completion channel.
func (p *Pool) Search(count int, f func() interface{}) []interface{} {
	if p == nil {
		return searchAlone(count, f)
	}

	var (
		remaining = int64(count)
		mu        sync.Mutex
		out       = make([]interface{}, 0, count)
		done      = make(chan struct{})
	)
	hunt := func() {
		for atomic.LoadInt64(&remaining) > 0 {
			res := f()
			if res == nil {
				continue
			}
			if atomic.AddInt64(&remaining, -1) < 0 {
				// A competing attempt already completed the search.
				return
			}
			mu.Lock()
			out = append(out, res)
			if len(out) == count {
				close(done)
			}
			mu.Unlock()
		}
	}
	for i := 0; i < p.size; i++ {
		p.jobs <- hunt
	}
	<-done
	return out
}

// Parallelize returns [f(0), f(1), …, f(count-1)], evaluated across the
// workers.
func (p *Pool) Parallelize(count int, f func(int) interface{}) []interface{} {
	if p == nil {
		return parallelizeAlone(count, f)
	}

	out := make([]interface{}, count)
	var wg sync.WaitGroup
	wg.Add(count)
	for i := 0; i < count; i++ {
		i := i
		p.jobs <- func() {
			out[i] = f(i)
			wg.Done()
		}
	}
	wg.Wait()
	return out
}

func searchAlone(count int, f func() interface{}) []interface{} {
	out := make([]interface{}, 0, count)
	for len(out) < count {
		if res := f(); res != nil {
			out = append(out, res)
		}
	}
	return out
}

func parallelizeAlone(count int, f func(int) interface{}) []interface{} {
	out := make([]interface{}, count)
	for i := range out {
		out[i] = f(i)
	}
	return out
}

// LockedReader serializes reads of an underlying io.Reader so that a single
// random source can feed many workers. Concurrent readers race for which
// bytes they get, never for the bytes themselves.
type LockedReader struct {
	reader io.Reader
	mu     sync.Mutex
}

// NewLockedReader wraps r. The zero mutex is ready to use.
func NewLockedReader(r io.Reader) *LockedReader {
	return &LockedReader{reader: r}
}

// Read implements io.Reader.
func (r *LockedReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reader.Read(p)
}

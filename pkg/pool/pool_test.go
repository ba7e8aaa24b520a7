package pool

import (
	"crypto/rand"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSearchFindsCount(t *testing.T) {
	p := NewPool(4)
	defer p.TearDown()

	var attempts int64
	results := p.Search(3, func() interface{} {
		// succeed every fourth attempt
		if atomic.AddInt64(&attempts, 1)%4 == 0 {
			return struct{}{}
		}
		return nil
	})
	require.Len(t, results, 3)
	for _, r := range results {
		require.NotNil(t, r)
	}
}

func TestSearchNilPool(t *testing.T) {
	var p *Pool
	n := 0
	results := p.Search(2, func() interface{} {
		n++
		if n%3 == 0 {
			return n
		}
		return nil
	})
	require.Equal(t, []interface{}{3, 6}, results)
}

func TestConcurrentSearches(t *testing.T) {
	p := NewPool(2)
	defer p.TearDown()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results := p.Search(2, func() interface{} { return 1 })
			require.Len(t, results, 2)
		}()
	}
	wg.Wait()
}

func TestParallelize(t *testing.T) {
	p := NewPool(3)
	defer p.TearDown()

	results := p.Parallelize(10, func(i int) interface{} { return i * i })
	require.Len(t, results, 10)
	for i, r := range results {
		require.Equal(t, i*i, r)
	}
}

func TestParallelizeNilPool(t *testing.T) {
	var p *Pool
	results := p.Parallelize(4, func(i int) interface{} { return i })
	require.Equal(t, []interface{}{0, 1, 2, 3}, results)
}

func TestLockedReader(t *testing.T) {
	r := NewLockedReader(rand.Reader)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf := make([]byte, 32)
			for j := 0; j < 100; j++ {
				n, err := r.Read(buf)
				require.NoError(t, err)
				require.Equal(t, len(buf), n)
			}
		}()
	}
	wg.Wait()
}

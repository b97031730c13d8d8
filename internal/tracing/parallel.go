package tracing

import (
	"context"
	"sync"
)

// TraceFunc integrates the i-th trajectory of an ensemble. Implementations
// must not share stateful stopping criteria between indices.
type TraceFunc func(i int) (*Result, error)

// TraceMany runs n trajectories concurrently on at most workers goroutines
// and returns their results in index order. The first trace error cancels
// the remaining work and is returned; trajectories skipped because the
// caller's context was cancelled report the context's error instead.
func TraceMany(ctx context.Context, n, workers int, trace TraceFunc) ([]*Result, error) {
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]*Result, n)
	idx := make(chan int)

	var (
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		mu.Unlock()
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range idx {
				if err := ctx.Err(); err != nil {
					fail(err)
					continue
				}
				res, err := trace(i)
				if err != nil {
					fail(err)
					continue
				}
				results[i] = res
			}
		}()
	}

	for i := 0; i < n; i++ {
		idx <- i
	}
	close(idx)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

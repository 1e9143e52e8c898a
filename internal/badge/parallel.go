package badge

import (
	"runtime"
	"sync"
)

// forEach calls fn for every index in [0, n) using a bounded worker pool.
// If any invocation returns an error, remaining work is skipped and the
// first error is returned.
func forEach(n, workers int, fn func(i int) error) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if n == 0 {
		return nil
	}
	// Don't create more workers than jobs.
	if workers > n {
		workers = n
	}

	jobs := make(chan int, n)
	errCh := make(chan error, 1) // buffered so the first error doesn't block
	var once sync.Once
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				select {
				case <-stop:
					return
				default:
				}
				if err := fn(i); err != nil {
					once.Do(func() {
						errCh <- err
						close(stop)
					})
					return
				}
			}
		}()
	}

	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	close(errCh)

	if err, ok := <-errCh; ok {
		return err
	}
	return nil
}

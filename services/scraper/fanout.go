package scraper

import "sync"

// ForEachLimit calls fn for every index in [0, n), keeping at most limit
// calls in flight at once. limit <= 0 falls back to the default fanout.
// It returns once every call has finished.
func ForEachLimit(n, limit int, fn func(i int)) {
	if limit <= 0 {
		limit = defaultFanout
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, limit)
	for i := 0; i < n; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			fn(i)
		}(i)
	}
	wg.Wait()
}

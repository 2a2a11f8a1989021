package systems

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum row count worth splitting across goroutines.
const parallelThreshold = 32

// forRows calls fn(j0, j1) over [0, rows) split into contiguous chunks.
// When parallel is false, or rows is small, fn runs once on the caller's goroutine.
// fn must only write state owned by its rows.
func forRows(rows int, parallel bool, fn func(j0, j1 int)) {
	workers := runtime.GOMAXPROCS(0)
	if !parallel || rows < parallelThreshold || workers < 2 {
		fn(0, rows)
		return
	}
	if workers > rows {
		workers = rows
	}
	chunk := (rows + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < rows; start += chunk {
		end := start + chunk
		if end > rows {
			end = rows
		}
		wg.Add(1)
		go func(j0, j1 int) {
			defer wg.Done()
			fn(j0, j1)
		}(start, end)
	}
	wg.Wait()
}

// Package parallel splits index ranges across goroutines for the CPU kernels.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls how Range splits work.
type Config struct {
	// Workers is the maximum number of goroutines; values below 2 run serially.
	Workers int
	// MinChunk is the smallest range handed to one goroutine.
	MinChunk int
}

// DefaultConfig uses one worker per schedulable CPU and chunks large enough
// that goroutine start-up is negligible next to an element-wise loop.
func DefaultConfig() Config {
	return Config{
		Workers:  runtime.GOMAXPROCS(0),
		MinChunk: 1 << 14,
	}
}

// Serial is a Config that never spawns goroutines.
var Serial = Config{Workers: 1}

// Range calls f on disjoint sub-ranges [lo, hi) covering [0, n) and returns
// once every call has returned. Small n, or a serial config, runs f(0, n) on
// the calling goroutine.
func Range(n int, cfg Config, f func(lo, hi int)) {
	if n <= 0 {
		return
	}
	chunk := max((n+cfg.Workers-1)/max(cfg.Workers, 1), cfg.MinChunk, 1)
	if cfg.Workers < 2 || chunk >= n {
		f(0, n)
		return
	}

	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		wg.Add(1)
		go func() {
			defer wg.Done()
			f(lo, hi)
		}()
	}
	wg.Wait()
}

// Package seed fixes the random state of the process.
//
// Set returns a generator seeded with n that callers thread explicitly into
// whatever needs randomness (row sampling in the CLI). It also reseeds the
// package-level generator behind Rand for code that cannot take one as an
// argument. Reseeding replaces all previous state; the same seed always
// yields the same sequence.
package seed

import (
	"math/rand"
	"slices"
	"sync"
)

// Default is the seed used when none is configured.
const Default int64 = 42

var (
	mu     sync.Mutex
	shared = rand.New(rand.NewSource(Default))
)

// Set seeds the shared generator with n and returns a new, independent
// generator seeded with the same value.
func Set(n int64) *rand.Rand {
	mu.Lock()
	shared = rand.New(rand.NewSource(n))
	mu.Unlock()
	return rand.New(rand.NewSource(n))
}

// Rand returns the shared generator last seeded by Set (Default until then).
// The returned value is not safe for concurrent use.
func Rand() *rand.Rand {
	mu.Lock()
	defer mu.Unlock()
	return shared
}

// Sample returns k distinct indexes from [0, n) in ascending order, drawn
// with r. When k >= n every index is returned.
func Sample(r *rand.Rand, n, k int) []int {
	if k >= n {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	if k <= 0 {
		return nil
	}
	out := append([]int(nil), r.Perm(n)[:k]...)
	slices.Sort(out)
	return out
}

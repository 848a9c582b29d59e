// Package random provides the injectable randomness used by rack
// generation and bot selection.
package random

import (
	"math/rand"
	"sync"

	"lukechampine.com/frand"
)

// Source is the subset of random number operations the engine needs.
// *math/rand.Rand satisfies it.
type Source interface {
	// Intn returns a uniform int in [0, n). It panics if n <= 0.
	Intn(n int) int
	// Float64 returns a uniform float64 in [0.0, 1.0)
	Float64() float64
}

// cryptoSource draws from frand's package-level generator, which is safe
// for concurrent use
type cryptoSource struct{}

// New returns a cryptographically seeded source for production use
func New() Source {
	return cryptoSource{}
}

func (cryptoSource) Intn(n int) int {
	return frand.Intn(n)
}

func (cryptoSource) Float64() float64 {
	return frand.Float64()
}

// NewSeeded returns a deterministic source. It is not safe for concurrent use.
func NewSeeded(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// lockedSource serializes access to a source that is not concurrency safe
type lockedSource struct {
	mu  sync.Mutex
	src Source
}

// Locked wraps src so it can be shared between goroutines
func Locked(src Source) Source {
	return &lockedSource{src: src}
}

func (l *lockedSource) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Intn(n)
}

func (l *lockedSource) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

// Shuffle permutes n elements in place using swap
func Shuffle(src Source, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		swap(i, j)
	}
}

// Pick returns k distinct indices drawn uniformly from [0, n)
func Pick(src Source, n, k int) []int {
	if k > n {
		k = n
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + src.Intn(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:k]
}

// Between returns a uniform float64 in [lo, hi)
func Between(src Source, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + src.Float64()*(hi-lo)
}

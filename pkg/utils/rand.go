package utils

import (
	"math/rand"
	"time"
)

// RandSource is a seeded random number generator owned by a single
// generation run. It is not safe for concurrent use.
type RandSource struct {
	seed int64
	rng  *rand.Rand
}

// ResolveSeed returns seed unchanged, or a time-derived seed when seed is 0.
func ResolveSeed(seed int64) int64 {
	if seed == 0 {
		return time.Now().UnixNano()
	}
	return seed
}

// NewRandSource creates a new random source with the given seed.
// A zero seed is replaced by a time-derived one (see ResolveSeed).
func NewRandSource(seed int64) *RandSource {
	seed = ResolveSeed(seed)
	return &RandSource{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed the source was created with
func (r *RandSource) Seed() int64 {
	return r.seed
}

// Intn returns a random int in [0, n)
func (r *RandSource) Intn(n int) int {
	return r.rng.Intn(n)
}

// Int63n returns a random int64 in [0, n)
func (r *RandSource) Int63n(n int64) int64 {
	return r.rng.Int63n(n)
}

// Sample returns k distinct indices from [0, n) in selection order.
// k is clamped to n.
func (r *RandSource) Sample(n, k int) []int {
	if k > n {
		k = n
	}
	if k <= 0 {
		return []int{}
	}
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	// Partial Fisher-Yates: the first k slots hold the selection.
	for i := 0; i < k; i++ {
		j := i + r.rng.Intn(n-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}

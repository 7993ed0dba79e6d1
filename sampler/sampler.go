// Package sampler implements the two candidate-selection strategies: a
// full scan of the keyspace, and a random-k sample without replacement.
package sampler

import (
	"math/rand"
	"time"
)

// Sampler narrows the full keyspace down to the candidates an eviction
// Policy ranks. It must be deterministic given its input and random
// source, so tests can inject one.
type Sampler interface {
	Sample(keys []string) []string
}

// Full returns every key unmodified. It is the default sampler and makes
// eviction exact at the cost of scanning the whole keyspace.
type Full struct{}

func (Full) Sample(keys []string) []string {
	return keys
}

// Random returns up to K keys chosen uniformly without replacement; a K
// of zero or less returns a copy of every key. The
// random source is injectable (Rand) so results are reproducible in
// tests; a nil Rand falls back to a package-level source seeded from the
// runtime.
type Random struct {
	K    int
	Rand *rand.Rand
}

// NewRandom returns a Random sampler selecting up to k keys using rnd. A
// nil rnd uses a default, non-deterministic source.
func NewRandom(k int, rnd *rand.Rand) Random {
	return Random{K: k, Rand: rnd}
}

func (r Random) Sample(keys []string) []string {
	if r.K <= 0 || len(keys) <= r.K {
		out := make([]string, len(keys))
		copy(out, keys)
		return out
	}

	rnd := r.Rand
	if rnd == nil {
		rnd = defaultRand
	}

	// Partial Fisher-Yates: shuffle only the first K positions of a
	// working copy, leaving the rest of the permutation untouched.
	pool := make([]string, len(keys))
	copy(pool, keys)
	for i := 0; i < r.K; i++ {
		j := i + rnd.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:r.K]
}

var defaultRand = rand.New(rand.NewSource(time.Now().UnixNano()))

// Package sampler draws random question subsets from the unified pool.
package sampler

import (
	"lawhealth/internal/apperr"
	"lawhealth/internal/model"
	"lawhealth/internal/pool"
	"math/rand/v2"
	"sync"
	"time"
)

// Sampler draws questions without replacement. Safe for concurrent use;
// concurrent draws are independent and may overlap.
type Sampler struct {
	pool *pool.Pool

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Sampler
type Option func(*Sampler)

// WithSeed makes draws reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Sampler) {
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithRand sets the randomness source.
func WithRand(rng *rand.Rand) Option {
	return func(s *Sampler) {
		s.rng = rng
	}
}

// New creates a sampler over p.
func New(p *pool.Pool, opts ...Option) *Sampler {
	s := &Sampler{pool: p}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		now := uint64(time.Now().UnixNano())
		s.rng = rand.New(rand.NewPCG(now, rand.Uint64()))
	}
	return s
}

// Draw returns count distinct questions in random order. A count larger than
// the pool returns the whole pool, shuffled.
func (s *Sampler) Draw(count int) ([]*model.PoolQuestion, error) {
	if count < 0 {
		return nil, apperr.Validation("count must not be negative, got %d", count)
	}

	all := s.pool.All()
	n := len(all)
	if count > n {
		count = n
	}

	// Partial Fisher-Yates: position i receives a uniform pick from [i, n).
	s.mu.Lock()
	for i := 0; i < count; i++ {
		j := i + s.rng.IntN(n-i)
		all[i], all[j] = all[j], all[i]
	}
	s.mu.Unlock()

	return all[:count:count], nil
}

// Pool returns the pool the sampler draws from.
func (s *Sampler) Pool() *pool.Pool {
	return s.pool
}

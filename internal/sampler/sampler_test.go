package sampler

import (
	"fmt"
	"lawhealth/internal/apperr"
	"lawhealth/internal/model"
	"lawhealth/internal/pool"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildPool(t *testing.T, size int) *pool.Pool {
	t.Helper()
	questions := make([]model.Question, size)
	for i := range questions {
		questions[i] = model.Question{
			ID:            fmt.Sprintf("q%02d", i),
			Text:          "question",
			Weight:        1,
			SanctionToken: model.SanctionNone,
			Body:          model.BinaryBody{CorrectAnswer: "yes"},
		}
	}
	p, err := pool.Build([]model.DomainBank{{
		Domain:    model.Domain{ID: "d", Name: "D"},
		Questions: questions,
	}})
	require.NoError(t, err)
	return p
}

func ids(qs []*model.PoolQuestion) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func TestDrawBoundaries(t *testing.T) {
	s := New(buildPool(t, 10), WithSeed(1))

	empty, err := s.Draw(0)
	require.NoError(t, err)
	assert.Empty(t, empty)

	all, err := s.Draw(25)
	require.NoError(t, err)
	assert.Len(t, all, 10)
	assert.ElementsMatch(t, ids(s.Pool().All()), ids(all))

	exact, err := s.Draw(10)
	require.NoError(t, err)
	assert.Len(t, exact, 10)
}

func TestDrawRejectsNegativeCount(t *testing.T) {
	s := New(buildPool(t, 3))
	_, err := s.Draw(-1)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestDrawHasNoDuplicates(t *testing.T) {
	s := New(buildPool(t, 30), WithSeed(7))
	for i := 0; i < 100; i++ {
		qs, err := s.Draw(12)
		require.NoError(t, err)
		seen := map[string]bool{}
		for _, q := range qs {
			assert.False(t, seen[q.ID], "duplicate %s", q.ID)
			seen[q.ID] = true
		}
	}
}

func TestDrawIsReproducibleWithSeed(t *testing.T) {
	p := buildPool(t, 20)
	a, err := New(p, WithSeed(42)).Draw(5)
	require.NoError(t, err)
	b, err := New(p, WithSeed(42)).Draw(5)
	require.NoError(t, err)
	assert.Equal(t, ids(a), ids(b))
}

func TestDrawUniformity(t *testing.T) {
	const (
		size   = 20
		count  = 5
		rounds = 20000
	)
	s := New(buildPool(t, size), WithSeed(2024))

	freq := map[string]int{}
	first := map[string]int{}
	for i := 0; i < rounds; i++ {
		qs, err := s.Draw(count)
		require.NoError(t, err)
		for _, q := range qs {
			freq[q.ID]++
		}
		first[qs[0].ID]++
	}

	expected := float64(count) / float64(size)
	for id, n := range freq {
		got := float64(n) / rounds
		assert.InDelta(t, expected, got, 0.02, "inclusion frequency of %s", id)
	}
	assert.Len(t, freq, size)

	expectedFirst := 1.0 / size
	for id, n := range first {
		assert.InDelta(t, expectedFirst, float64(n)/rounds, 0.015, "first-position frequency of %s", id)
	}
}

func TestRetakeFidelity(t *testing.T) {
	p := buildPool(t, 40)
	s := New(p, WithSeed(3))

	drawn, err := s.Draw(20)
	require.NoError(t, err)

	again := p.ByIDs(ids(drawn))
	require.Len(t, again, 20)
	for i := range drawn {
		assert.Equal(t, drawn[i].ID, again[i].ID)
		assert.Equal(t, drawn[i].Question, again[i].Question)
	}
}

func TestConcurrentDraws(t *testing.T) {
	s := New(buildPool(t, 50))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				qs, err := s.Draw(10)
				assert.NoError(t, err)
				assert.Len(t, qs, 10)
			}
		}()
	}
	wg.Wait()
}

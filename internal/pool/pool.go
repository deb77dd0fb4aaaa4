// Package pool merges the per-domain question banks into one addressable
// question pool with a shared severity scale.
package pool

import (
	"fmt"
	"lawhealth/internal/model"
)

// DomainCount is the number of pool questions contributed by one domain
type DomainCount struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats summarises the pool for reporting and UI
type Stats struct {
	Total    int           `json:"total"`
	ByDomain []DomainCount `json:"byDomain"`
}

// Pool is the immutable unified question pool. It is safe for concurrent use.
type Pool struct {
	questions []*model.PoolQuestion
	byID      map[string]*model.PoolQuestion
	domains   []model.Domain
	domainIdx map[string]int
	stats     Stats
}

// Build decorates every bank question with its source domain and normalized
// severity. Duplicate question ids, duplicate domains and sanction tokens
// missing from the domain mapping are rejected.
func Build(banks []model.DomainBank) (*Pool, error) {
	p := &Pool{
		byID:      make(map[string]*model.PoolQuestion),
		domainIdx: make(map[string]int, len(banks)),
	}

	for _, b := range banks {
		d := b.Domain
		if _, dup := p.domainIdx[d.ID]; dup {
			return nil, fmt.Errorf("pool: duplicate domain %s", d.ID)
		}
		p.domainIdx[d.ID] = len(p.domains)
		p.domains = append(p.domains, d)

		count := 0
		for _, q := range b.Questions {
			if prev, dup := p.byID[q.ID]; dup {
				return nil, fmt.Errorf("pool: question id %s defined in both %s and %s", q.ID, prev.SourceCategory, d.ID)
			}
			sev, ok := d.Normalize(q.SanctionToken)
			if !ok {
				return nil, fmt.Errorf("pool: question %s: sanction %q has no mapping in domain %s", q.ID, q.SanctionToken, d.ID)
			}
			pq := &model.PoolQuestion{
				Question:           q,
				SourceCategory:     d.ID,
				SourceCategoryName: d.Name,
				Severity:           sev,
			}
			p.questions = append(p.questions, pq)
			p.byID[q.ID] = pq
			count++
		}
		p.stats.ByDomain = append(p.stats.ByDomain, DomainCount{ID: d.ID, Name: d.Name, Count: count})
	}
	p.stats.Total = len(p.questions)

	return p, nil
}

// Size returns the number of questions in the pool.
func (p *Pool) Size() int {
	return len(p.questions)
}

// All returns every question in bank order. The slice is a copy; the
// questions themselves are shared and must not be mutated.
func (p *Pool) All() []*model.PoolQuestion {
	out := make([]*model.PoolQuestion, len(p.questions))
	copy(out, p.questions)
	return out
}

// Get returns a question by id.
func (p *Pool) Get(id string) (*model.PoolQuestion, bool) {
	q, ok := p.byID[id]
	return q, ok
}

// ByIDs resolves ids in the caller's order. Unknown ids and repeated ids are
// dropped.
func (p *Pool) ByIDs(ids []string) []*model.PoolQuestion {
	out := make([]*model.PoolQuestion, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		q, ok := p.byID[id]
		if !ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, q)
	}
	return out
}

// Stats returns the total and per-domain question counts.
func (p *Pool) Stats() Stats {
	s := Stats{Total: p.stats.Total, ByDomain: make([]DomainCount, len(p.stats.ByDomain))}
	copy(s.ByDomain, p.stats.ByDomain)
	return s
}

// Domains returns domain metadata in bank order.
func (p *Pool) Domains() []model.Domain {
	out := make([]model.Domain, len(p.domains))
	copy(out, p.domains)
	return out
}

// Domain returns one domain's metadata.
func (p *Pool) Domain(id string) (*model.Domain, bool) {
	i, ok := p.domainIdx[id]
	if !ok {
		return nil, false
	}
	return &p.domains[i], true
}

// Breakdown returns the question count per domain id.
func (s Stats) Breakdown() map[string]int {
	m := make(map[string]int, len(s.ByDomain))
	for _, d := range s.ByDomain {
		m[d.ID] = d.Count
	}
	return m
}

package repository

import (
	"context"
	"fmt"
	"lawhealth/internal/model"
	"sort"
	"sync"
)

// MemoryAssessmentRepo is an in-process AssessmentRepo for tests and local runs
type MemoryAssessmentRepo struct {
	mu          sync.RWMutex
	assessments map[string]*model.Assessment
}

// NewMemoryAssessmentRepo creates an empty in-memory repository
func NewMemoryAssessmentRepo() *MemoryAssessmentRepo {
	return &MemoryAssessmentRepo{assessments: make(map[string]*model.Assessment)}
}

func (r *MemoryAssessmentRepo) Create(_ context.Context, a *model.Assessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.assessments[a.ID]; exists {
		return fmt.Errorf("assessment %s already exists", a.ID)
	}
	stored := *a
	r.assessments[a.ID] = &stored
	return nil
}

func (r *MemoryAssessmentRepo) GetByID(_ context.Context, id, subjectID string) (*model.Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.assessments[id]
	if !ok || a.SubjectID != subjectID {
		return nil, nil
	}
	out := *a
	return &out, nil
}

func (r *MemoryAssessmentRepo) History(_ context.Context, subjectID string, limit int) ([]*model.Assessment, error) {
	r.mu.RLock()
	var out []*model.Assessment
	for _, a := range r.assessments {
		if a.SubjectID == subjectID {
			cp := *a
			out = append(out, &cp)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

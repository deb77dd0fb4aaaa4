package service

import (
	"context"
	"lawhealth/internal/apperr"
	"lawhealth/internal/cache"
	"lawhealth/internal/evaluator"
	"lawhealth/internal/metrics"
	"lawhealth/internal/model"
	"lawhealth/internal/pool"
	"lawhealth/internal/report"
	"lawhealth/internal/repository"
	"lawhealth/internal/sampler"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ComplianceOptions bounds request sizes
type ComplianceOptions struct {
	DefaultCount int // questions per draw when the client sends no count
	MaxCount     int // largest count a client may request
	HistoryLimit int // assessments returned by GetHistory
}

// QuestionSet is a drawn set of questions as served to clients
type QuestionSet struct {
	Questions             []model.QuestionView `json:"questions"`
	TotalPoolSize         int                  `json:"totalPoolSize"`
	PoolBreakdownByDomain map[string]int       `json:"poolBreakdownByDomain"`
	SelectionID           string               `json:"selectionId,omitempty"`
}

// EvaluateInput is one assessment submission. SelectionID, when set, names
// the drawn selection the answers belong to; it is dropped once stored.
type EvaluateInput struct {
	Answers     model.Answers
	QuestionIDs []string
	Subject     model.SubjectContext
	SelectionID string
}

// DomainSummary is domain metadata with its pool size, for the UI
type DomainSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Icon          string `json:"icon"`
	Color         string `json:"color"`
	QuestionCount int    `json:"questionCount"`
}

// ComplianceService runs Law Health Check assessments
type ComplianceService struct {
	pool       *pool.Pool
	sampler    *sampler.Sampler
	evaluator  *evaluator.Evaluator
	formatter  *report.Formatter
	repo       repository.AssessmentRepo
	selections cache.SelectionCache
	opts       ComplianceOptions
	log        *slog.Logger

	broadcaster Broadcaster
	metrics     *metrics.Metrics

	now   func() time.Time
	newID func() string
}

// NewComplianceService creates a new compliance service. selections may be
// nil, in which case draws are not remembered.
func NewComplianceService(
	p *pool.Pool,
	s *sampler.Sampler,
	f *report.Formatter,
	repo repository.AssessmentRepo,
	selections cache.SelectionCache,
	opts ComplianceOptions,
	log *slog.Logger,
) *ComplianceService {
	return &ComplianceService{
		pool:       p,
		sampler:    s,
		evaluator:  evaluator.New(p.Domains()),
		formatter:  f,
		repo:       repo,
		selections: selections,
		opts:       opts,
		log:        log,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// SetBroadcaster sets the WebSocket broadcaster
func (s *ComplianceService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetMetrics sets the metrics sink
func (s *ComplianceService) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// DefaultCount is the draw size used when a client does not ask for one.
func (s *ComplianceService) DefaultCount() int {
	return s.opts.DefaultCount
}

// GetQuestions draws count random questions and remembers the selection.
func (s *ComplianceService) GetQuestions(ctx context.Context, count int) (*QuestionSet, error) {
	if s.opts.MaxCount > 0 && count > s.opts.MaxCount {
		return nil, apperr.Validation("count must be at most %d, got %d", s.opts.MaxCount, count)
	}

	questions, err := s.sampler.Draw(count)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveDraw(len(questions))

	return s.questionSet(ctx, questions), nil
}

// GetSelection serves a previously drawn selection again.
func (s *ComplianceService) GetSelection(ctx context.Context, selectionID string) (*QuestionSet, error) {
	if s.selections == nil {
		return nil, apperr.NotFound("selection not found")
	}
	sel, err := s.selections.GetSelection(ctx, selectionID)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "failed to load selection")
	}
	if sel == nil {
		return nil, apperr.NotFound("selection not found")
	}

	set := s.baseSet(s.pool.ByIDs(sel.QuestionIDs))
	set.SelectionID = sel.ID
	return set, nil
}

// RetakeQuestions serves the question set of a past assessment under a new
// selection.
func (s *ComplianceService) RetakeQuestions(ctx context.Context, assessmentID, subjectID string) (*QuestionSet, error) {
	a, err := s.GetByID(ctx, assessmentID, subjectID)
	if err != nil {
		return nil, err
	}
	questions := s.pool.ByIDs(a.QuestionIDs)
	if len(questions) == 0 {
		return nil, apperr.Validation("none of the questions of assessment %s are available anymore", assessmentID)
	}
	return s.questionSet(ctx, questions), nil
}

// Evaluate scores a submission, stores it and returns the stored assessment.
// Nothing is stored when validation or persistence fails.
func (s *ComplianceService) Evaluate(ctx context.Context, subjectID string, in EvaluateInput) (*model.Assessment, error) {
	start := s.now()

	if len(in.Answers) == 0 {
		return nil, apperr.Validation("answers must not be empty")
	}
	if len(in.QuestionIDs) == 0 {
		return nil, apperr.Validation("questionIds must not be empty")
	}
	questions := s.pool.ByIDs(in.QuestionIDs)
	if len(questions) == 0 {
		return nil, apperr.Validation("none of the submitted question ids are known")
	}

	ev := s.evaluator.Evaluate(in.Answers, questions, in.Subject.SizeTier)
	result := s.formatter.Format(ev, in.Subject)

	ids := make([]string, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}

	a := &model.Assessment{
		ID:          s.newID(),
		SubjectID:   subjectID,
		Subject:     in.Subject,
		Answers:     in.Answers,
		QuestionIDs: ids,
		Report:      result,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		s.log.ErrorContext(ctx, "failed to store assessment", "subject_id", subjectID, "error", err)
		return nil, apperr.Wrap(err, apperr.CodeInternal, "failed to store assessment")
	}

	s.releaseSelection(ctx, in.SelectionID)

	s.metrics.IncrementAssessment(result.GradeLabel)
	for _, v := range result.Violations {
		s.metrics.AddViolation(string(v.Severity))
	}
	s.metrics.ObserveEvaluateLatency(s.now().Sub(start))

	s.log.InfoContext(ctx, "assessment stored",
		"assessment_id", a.ID,
		"subject_id", subjectID,
		"questions", len(ids),
		"answered", result.AnsweredCount,
		"percentage", result.Percentage,
		"grade", result.GradeLabel,
		"violations", len(result.Violations),
	)

	if s.broadcaster != nil {
		s.broadcaster.NotifySubject(subjectID, MsgAssessmentCompleted, a.Summary())
	}
	return a, nil
}

// releaseSelection drops a selection consumed by a stored assessment. The
// assessment itself now carries the question ids for retakes.
func (s *ComplianceService) releaseSelection(ctx context.Context, selectionID string) {
	if selectionID == "" || s.selections == nil {
		return
	}
	if err := s.selections.DeleteSelection(ctx, selectionID); err != nil {
		s.log.WarnContext(ctx, "failed to drop selection", "selection_id", selectionID, "error", err)
	}
}

// GetHistory returns the subject's most recent assessments, newest first.
func (s *ComplianceService) GetHistory(ctx context.Context, subjectID string) ([]*model.Assessment, error) {
	history, err := s.repo.History(ctx, subjectID, s.opts.HistoryLimit)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "failed to load history")
	}
	if history == nil {
		history = []*model.Assessment{}
	}
	return history, nil
}

// GetByID returns one of the subject's assessments.
func (s *ComplianceService) GetByID(ctx context.Context, assessmentID, subjectID string) (*model.Assessment, error) {
	a, err := s.repo.GetByID(ctx, assessmentID, subjectID)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "failed to load assessment")
	}
	if a == nil {
		return nil, apperr.NotFound("assessment not found")
	}
	return a, nil
}

// Domains lists the legal domains in the pool.
func (s *ComplianceService) Domains() []DomainSummary {
	counts := s.pool.Stats().Breakdown()
	domains := s.pool.Domains()
	out := make([]DomainSummary, len(domains))
	for i, d := range domains {
		out[i] = DomainSummary{
			ID:            d.ID,
			Name:          d.Name,
			Icon:          d.Icon,
			Color:         d.Color,
			QuestionCount: counts[d.ID],
		}
	}
	return out
}

func (s *ComplianceService) baseSet(questions []*model.PoolQuestion) *QuestionSet {
	stats := s.pool.Stats()
	return &QuestionSet{
		Questions:             model.Views(questions),
		TotalPoolSize:         stats.Total,
		PoolBreakdownByDomain: stats.Breakdown(),
	}
}

// questionSet remembers the selection when a cache is configured. A cache
// failure only costs the selection id.
func (s *ComplianceService) questionSet(ctx context.Context, questions []*model.PoolQuestion) *QuestionSet {
	set := s.baseSet(questions)
	if s.selections == nil || len(questions) == 0 {
		return set
	}

	ids := make([]string, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	sel := &model.Selection{ID: s.newID(), QuestionIDs: ids, CreatedAt: s.now().UTC()}
	if err := s.selections.SetSelection(ctx, sel); err != nil {
		s.log.WarnContext(ctx, "failed to cache selection", "error", err)
		return set
	}
	set.SelectionID = sel.ID
	return set
}

// Package evaluator scores submitted answers against pool questions.
//
// Evaluate is a pure function of its inputs; one Evaluator may be shared by
// any number of goroutines.
package evaluator

import (
	"fmt"
	"lawhealth/internal/model"
	"math"
	"strings"
)

const (
	partialFactor      = 0.5  // BINARY "partial" penalty, share of weight
	undeterminedFactor = 0.25 // BINARY unrecognized answer penalty, share of weight
	uncheckedFactor    = 0.5  // MULTI_CHECK penalty per unchecked weight unit
)

// Messages for findings that carry no question-specific text.
const (
	MsgInvalidAnswer = "invalid answer"
	MsgInvalidFormat = "invalid format"
)

// Evaluation is the raw result of scoring one submission, before grading
type Evaluation struct {
	RawScore        float64
	MaxScore        float64
	Violations      []model.Violation
	Recommendations []model.Recommendation // in finding order, not deduplicated
	Breakdown       map[string]model.CategoryScore
	Findings        map[string]model.Finding // by question id, skipped questions absent
	AnsweredCount   int
	SkippedCount    int
}

// Evaluator scores answers for a fixed set of domains
type Evaluator struct {
	domains []model.Domain
	byID    map[string]*model.Domain
}

// New creates an evaluator that knows the given domains. Every known domain
// appears in each breakdown, even with no answered questions.
func New(domains []model.Domain) *Evaluator {
	e := &Evaluator{
		domains: domains,
		byID:    make(map[string]*model.Domain, len(domains)),
	}
	for i := range e.domains {
		e.byID[e.domains[i].ID] = &e.domains[i]
	}
	return e
}

// Evaluate scores answers for questions. Questions without an answer, or
// answered with a not-applicable sentinel, are excluded from every total.
// tier selects size-specific penalty texts where a domain defines them.
func (e *Evaluator) Evaluate(answers model.Answers, questions []*model.PoolQuestion, tier model.SizeTier) *Evaluation {
	ev := &Evaluation{
		Breakdown: make(map[string]model.CategoryScore, len(e.domains)),
		Findings:  make(map[string]model.Finding, len(questions)),
	}
	for _, d := range e.domains {
		ev.Breakdown[d.ID] = model.CategoryScore{Name: d.Name}
	}

	for _, q := range questions {
		answer, ok := answers[q.ID]
		if !ok || answer.IsSkip() {
			ev.SkippedCount++
			continue
		}
		ev.AnsweredCount++

		cat, ok := ev.Breakdown[q.SourceCategory]
		if !ok {
			cat = model.CategoryScore{Name: q.SourceCategoryName}
		}
		cat.MaxScore += q.Weight
		cat.TotalAnswered++
		ev.MaxScore += q.Weight

		f := e.Score(q, answer, tier)
		ev.Findings[q.ID] = f
		cat.Score += f.Score
		ev.RawScore += f.Score

		if !f.IsCompliant {
			cat.ViolationCount++
			ev.Violations = append(ev.Violations, model.Violation{
				QuestionID:         q.ID,
				QuestionText:       q.Text,
				LegalReference:     q.LegalReference,
				DomainCategory:     q.DomainCategory,
				SourceCategory:     q.SourceCategory,
				SourceCategoryName: q.SourceCategoryName,
				Message:            f.Message,
				Severity:           q.Severity,
			})
			if q.RecommendationText != "" {
				ev.Recommendations = append(ev.Recommendations, model.Recommendation{
					Text:               q.RecommendationText,
					SourceCategory:     q.SourceCategory,
					SourceCategoryName: q.SourceCategoryName,
				})
			}
		}
		ev.Breakdown[q.SourceCategory] = cat
	}

	for id, cat := range ev.Breakdown {
		cat.Percentage = Percentage(cat.Score, cat.MaxScore)
		ev.Breakdown[id] = cat
	}
	return ev
}

// Score returns the finding for a single answered question.
func (e *Evaluator) Score(q *model.PoolQuestion, answer model.AnswerValue, tier model.SizeTier) model.Finding {
	switch body := q.Body.(type) {
	case model.BinaryBody:
		return e.scoreBinary(q, body, answer, tier)
	case model.ChoiceBody:
		return e.scoreChoice(q, body, answer, tier)
	case model.MultiCheckBody:
		return e.scoreMultiCheck(q, body, answer, tier)
	default:
		panic(fmt.Sprintf("evaluator: question %s has unsupported body %T", q.ID, q.Body))
	}
}

// Percentage is round(score/max*100) clamped to [0, 100]; 0 when max is 0.
func Percentage(score, max float64) int {
	if max == 0 {
		return 0
	}
	return clamp(int(math.Round(score / max * 100)))
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func normalizeBinary(token string) string {
	t := strings.ToLower(strings.TrimSpace(token))
	switch t {
	case "true":
		return "yes"
	case "false":
		return "no"
	}
	return t
}

func (e *Evaluator) scoreBinary(q *model.PoolQuestion, body model.BinaryBody, answer model.AnswerValue, tier model.SizeTier) model.Finding {
	correct := normalizeBinary(body.CorrectAnswer)
	given := ""
	if answer.Kind == model.AnswerToken {
		given = normalizeBinary(answer.Token)
	}

	switch given {
	case correct:
		return model.Finding{IsCompliant: true, Score: q.Weight, Message: compliantText(q)}
	case "yes", "no":
		return model.Finding{
			Score:   -q.Weight,
			Message: nonCompliantText(q) + " " + e.severityClause(q, tier),
		}
	case "partial", "partially":
		return model.Finding{
			Score:   -q.Weight * partialFactor,
			Message: withReference("Partially compliant", q) + "; the requirement is only partly met.",
		}
	}
	// Unrecognized input is penalized lightly rather than rejected.
	return model.Finding{
		Score:   -q.Weight * undeterminedFactor,
		Message: withReference("Compliance could not be determined", q) + " from the given answer.",
	}
}

func (e *Evaluator) scoreChoice(q *model.PoolQuestion, body model.ChoiceBody, answer model.AnswerValue, tier model.SizeTier) model.Finding {
	if answer.Kind == model.AnswerToken {
		for _, o := range body.Options {
			if o.Value != answer.Token {
				continue
			}
			if o.IsCorrect {
				return model.Finding{IsCompliant: true, Score: q.Weight, Message: compliantText(q)}
			}
			return model.Finding{
				Score:   -q.Weight,
				Message: fmt.Sprintf("%s Selected: %q. %s", nonCompliantText(q), o.Text, e.severityClause(q, tier)),
			}
		}
	}
	// An unknown option scores 0 while its weight still counts toward the
	// maximum. BINARY penalizes unrecognized input instead; the two rules
	// disagree and both are kept until scoring is revisited as a whole.
	return model.Finding{Score: 0, Message: MsgInvalidAnswer}
}

func (e *Evaluator) scoreMultiCheck(q *model.PoolQuestion, body model.MultiCheckBody, answer model.AnswerValue, tier model.SizeTier) model.Finding {
	if answer.Kind != model.AnswerChecklist {
		return model.Finding{Score: 0, Message: MsgInvalidFormat}
	}

	total := body.TotalWeight()
	earned := 0.0
	met := 0
	for _, item := range body.Items {
		if answer.Checks[item.ID] {
			earned += item.Weight
			met++
		}
	}
	score := earned - (total-earned)*uncheckedFactor

	switch {
	case met == len(body.Items):
		return model.Finding{
			IsCompliant: true,
			Score:       score,
			Message:     fmt.Sprintf("%s: all %d requirements are met.", withReference("Fully compliant", q), met),
		}
	case earned >= total*0.5:
		return model.Finding{
			Score:   score,
			Message: fmt.Sprintf("%s: %d of %d requirements are met.", withReference("Partially compliant", q), met, len(body.Items)),
		}
	default:
		return model.Finding{
			Score:   score,
			Message: fmt.Sprintf("%s: only %d of %d requirements are met. %s", withReference("Mostly non-compliant", q), met, len(body.Items), e.severityClause(q, tier)),
		}
	}
}

func withReference(prefix string, q *model.PoolQuestion) string {
	if q.LegalReference == "" {
		return prefix
	}
	return prefix + " with " + q.LegalReference
}

func compliantText(q *model.PoolQuestion) string {
	return withReference("Compliant", q) + "."
}

func nonCompliantText(q *model.PoolQuestion) string {
	return withReference("Not compliant", q) + "."
}

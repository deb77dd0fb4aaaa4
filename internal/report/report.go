// Package report turns raw evaluations into graded assessment results.
package report

import (
	"lawhealth/internal/evaluator"
	"lawhealth/internal/model"
	"strings"
)

const companyPlaceholder = "{company}"

// Formatter grades evaluations with a fixed tier configuration
type Formatter struct {
	grading model.Grading
}

// NewFormatter creates a formatter. Tiers must be ordered by descending
// minimum, as returned by bank.ParseGrading.
func NewFormatter(grading model.Grading) *Formatter {
	return &Formatter{grading: grading}
}

// Format builds the persisted result for ev.
func (f *Formatter) Format(ev *evaluator.Evaluation, subject model.SubjectContext) model.AssessmentResult {
	pct := evaluator.Percentage(ev.RawScore, ev.MaxScore)
	label := f.Grade(pct)

	violations := ev.Violations
	if violations == nil {
		violations = []model.Violation{}
	}

	return model.AssessmentResult{
		RawScore:          ev.RawScore,
		MaxScore:          ev.MaxScore,
		Percentage:        pct,
		GradeLabel:        label,
		GradeDescription:  f.Describe(label, subject.DisplayName),
		Violations:        violations,
		Recommendations:   Dedupe(ev.Recommendations),
		CategoryBreakdown: ev.Breakdown,
		AnsweredCount:     ev.AnsweredCount,
		SkippedCount:      ev.SkippedCount,
	}
}

// Grade returns the label of the first tier whose minimum pct reaches, or the
// lowest tier when none does.
func (f *Formatter) Grade(pct int) string {
	tiers := f.grading.Tiers
	if len(tiers) == 0 {
		return ""
	}
	for _, t := range tiers {
		if pct >= t.Min {
			return t.Label
		}
	}
	return tiers[len(tiers)-1].Label
}

// Describe renders the grade description for a subject.
func (f *Formatter) Describe(label, displayName string) string {
	tmpl, ok := f.grading.Descriptions[label]
	if !ok {
		return ""
	}
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = f.grading.DefaultDisplayName
	}
	return strings.ReplaceAll(tmpl, companyPlaceholder, name)
}

// Dedupe keeps the first recommendation for each distinct text, in order.
func Dedupe(recs []model.Recommendation) []model.Recommendation {
	out := make([]model.Recommendation, 0, len(recs))
	seen := make(map[string]struct{}, len(recs))
	for _, r := range recs {
		if _, ok := seen[r.Text]; ok {
			continue
		}
		seen[r.Text] = struct{}{}
		out = append(out, r)
	}
	return out
}

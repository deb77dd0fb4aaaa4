package evaluator

import "lawhealth/internal/model"

const noPenaltyClause = "No statutory penalty is prescribed, but non-compliance can still harm the business, its employees or its customers."

var genericClauses = map[model.Severity]string{
	model.SeverityHigh:   "High risk: this violation can lead to significant penalties.",
	model.SeverityMedium: "Medium risk: this violation can lead to moderate penalties.",
	model.SeverityLow:    "Low risk: this violation can lead to minor penalties.",
}

// severityClause describes the consequence of a violation of q. A domain
// penalty for the question's original token and the subject's size tier
// takes precedence over the generic text.
func (e *Evaluator) severityClause(q *model.PoolQuestion, tier model.SizeTier) string {
	if q.Severity == model.SeverityNone {
		return noPenaltyClause
	}
	if d, ok := e.byID[q.SourceCategory]; ok {
		if text, ok := d.PenaltyText(q.SanctionToken, tier); ok {
			return "Possible penalty: " + text
		}
	}
	if text, ok := genericClauses[q.Severity]; ok {
		return text
	}
	return genericClauses[model.SeverityMedium]
}

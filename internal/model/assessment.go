package model

import "time"

// Finding is the scoring outcome for one answered question
type Finding struct {
	IsCompliant bool    `json:"isCompliant"`
	Score       float64 `json:"score"`
	Message     string  `json:"message"`
}

// Violation records a non-compliant finding
type Violation struct {
	QuestionID         string   `json:"questionId" bson:"questionId"`
	QuestionText       string   `json:"questionText" bson:"questionText"`
	LegalReference     string   `json:"legalReference" bson:"legalReference"`
	DomainCategory     string   `json:"domainCategory" bson:"domainCategory"`
	SourceCategory     string   `json:"sourceCategory" bson:"sourceCategory"`
	SourceCategoryName string   `json:"sourceCategoryName" bson:"sourceCategoryName"`
	Message            string   `json:"message" bson:"message"`
	Severity           Severity `json:"severity" bson:"severity"`
}

// Recommendation is remediation text attributed to the domain it came from
type Recommendation struct {
	Text               string `json:"text" bson:"text"`
	SourceCategory     string `json:"sourceCategory" bson:"sourceCategory"`
	SourceCategoryName string `json:"sourceCategoryName" bson:"sourceCategoryName"`
}

// CategoryScore is the per-domain breakdown of one assessment
type CategoryScore struct {
	Name           string  `json:"name" bson:"name"`
	Score          float64 `json:"score" bson:"score"`
	MaxScore       float64 `json:"maxScore" bson:"maxScore"`
	Percentage     int     `json:"percentage" bson:"percentage"`
	ViolationCount int     `json:"violationCount" bson:"violationCount"`
	TotalAnswered  int     `json:"totalAnswered" bson:"totalAnswered"`
}

// AssessmentResult is the final, persisted report of one evaluation
type AssessmentResult struct {
	RawScore          float64                  `json:"rawScore" bson:"rawScore"`
	MaxScore          float64                  `json:"maxScore" bson:"maxScore"`
	Percentage        int                      `json:"percentage" bson:"percentage"`
	GradeLabel        string                   `json:"gradeLabel" bson:"gradeLabel"`
	GradeDescription  string                   `json:"gradeDescription" bson:"gradeDescription"`
	Violations        []Violation              `json:"violations" bson:"violations"`
	Recommendations   []Recommendation         `json:"recommendations" bson:"recommendations"`
	CategoryBreakdown map[string]CategoryScore `json:"categoryBreakdown" bson:"categoryBreakdown"`
	AnsweredCount     int                      `json:"answeredCount" bson:"answeredCount"`
	SkippedCount      int                      `json:"skippedCount" bson:"skippedCount"`
}

// SubjectContext describes who was assessed
type SubjectContext struct {
	DisplayName string   `json:"displayName" bson:"displayName"`
	SizeTier    SizeTier `json:"sizeTier,omitempty" bson:"sizeTier,omitempty"`
}

// Assessment is one immutable, persisted LHC run
type Assessment struct {
	ID          string           `json:"id" bson:"_id"`
	SubjectID   string           `json:"subjectId" bson:"subjectId"`
	Subject     SubjectContext   `json:"subject" bson:"subject"`
	Answers     Answers          `json:"answers" bson:"answers"`
	QuestionIDs []string         `json:"questionIds" bson:"questionIds"`
	Report      AssessmentResult `json:"report" bson:"report"`
	CreatedAt   time.Time        `json:"createdAt" bson:"createdAt"`
}

// AssessmentSummary is the history-list projection of an Assessment
type AssessmentSummary struct {
	ID             string    `json:"id"`
	Percentage     int       `json:"percentage"`
	GradeLabel     string    `json:"gradeLabel"`
	ViolationCount int       `json:"violationCount"`
	QuestionCount  int       `json:"questionCount"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Summary projects the assessment for history lists.
func (a *Assessment) Summary() AssessmentSummary {
	return AssessmentSummary{
		ID:             a.ID,
		Percentage:     a.Report.Percentage,
		GradeLabel:     a.Report.GradeLabel,
		ViolationCount: len(a.Report.Violations),
		QuestionCount:  len(a.QuestionIDs),
		CreatedAt:      a.CreatedAt,
	}
}

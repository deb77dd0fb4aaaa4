package model

// QuestionType defines the type of compliance question
type QuestionType string

const (
	QuestionTypeBinary     QuestionType = "BINARY"      // yes/no, with partial answers
	QuestionTypeChoice     QuestionType = "CHOICE"      // single select from options
	QuestionTypeMultiCheck QuestionType = "MULTI_CHECK" // independent checklist items
)

// Severity is the normalized sanction scale shared by all domains
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
	SeverityNone   Severity = "none"
)

// SanctionNone is the literal token every domain shares for "no statutory penalty".
const SanctionNone = "none"

// Valid reports whether s is one of the four normalized levels.
func (s Severity) Valid() bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow, SeverityNone:
		return true
	}
	return false
}

// Option is one selectable answer of a CHOICE question
type Option struct {
	Value     string `json:"value" yaml:"value"`
	Text      string `json:"text" yaml:"text"`
	IsCorrect bool   `json:"isCorrect" yaml:"isCorrect"`
}

// ChecklistItem is one independently satisfiable item of a MULTI_CHECK question
type ChecklistItem struct {
	ID     string  `json:"id" yaml:"id"`
	Label  string  `json:"label" yaml:"label"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// QuestionBody is the type-specific payload of a question. The set of
// implementations is closed: BinaryBody, ChoiceBody and MultiCheckBody.
type QuestionBody interface {
	Type() QuestionType
	sealed()
}

// BinaryBody holds the compliant answer of a BINARY question ("yes" or "no").
type BinaryBody struct {
	CorrectAnswer string
}

// ChoiceBody holds the ordered options of a CHOICE question.
type ChoiceBody struct {
	Options []Option
}

// MultiCheckBody holds the checklist of a MULTI_CHECK question.
type MultiCheckBody struct {
	Items []ChecklistItem
}

func (BinaryBody) Type() QuestionType     { return QuestionTypeBinary }
func (ChoiceBody) Type() QuestionType     { return QuestionTypeChoice }
func (MultiCheckBody) Type() QuestionType { return QuestionTypeMultiCheck }

func (BinaryBody) sealed()     {}
func (ChoiceBody) sealed()     {}
func (MultiCheckBody) sealed() {}

// TotalWeight is the sum of all checklist item weights.
func (b MultiCheckBody) TotalWeight() float64 {
	total := 0.0
	for _, item := range b.Items {
		total += item.Weight
	}
	return total
}

// Question is a compliance question as authored in a domain bank
type Question struct {
	ID                 string
	DomainCategory     string // free-form category within the domain, e.g. "recruitment"
	Text               string
	LegalReference     string
	Weight             float64
	SanctionToken      string // domain-specific severity token
	RecommendationText string
	Body               QuestionBody
}

// Type returns the question type derived from its body.
func (q *Question) Type() QuestionType {
	if q.Body == nil {
		return ""
	}
	return q.Body.Type()
}

// PoolQuestion is a Question decorated with its source domain and normalized severity
type PoolQuestion struct {
	Question
	SourceCategory     string   // domain id
	SourceCategoryName string   // domain display name
	Severity           Severity // normalized sanction level
}

// QuestionView is the client-facing projection of a question. It never carries
// correct answers, option correctness or checklist weights.
type QuestionView struct {
	ID                 string              `json:"id"`
	Text               string              `json:"text"`
	LegalReference     string              `json:"legalReference"`
	Type               QuestionType        `json:"type"`
	Category           string              `json:"category"`
	Options            []OptionView        `json:"options,omitempty"`
	ChecklistItems     []ChecklistItemView `json:"checklistItems,omitempty"`
	SourceCategory     string              `json:"sourceCategory"`
	SourceCategoryName string              `json:"sourceCategoryName"`
}

// OptionView is an Option without its correctness flag
type OptionView struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

// ChecklistItemView is a ChecklistItem without its weight
type ChecklistItemView struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// View projects the question for clients.
func (q *PoolQuestion) View() QuestionView {
	v := QuestionView{
		ID:                 q.ID,
		Text:               q.Text,
		LegalReference:     q.LegalReference,
		Type:               q.Type(),
		Category:           q.DomainCategory,
		SourceCategory:     q.SourceCategory,
		SourceCategoryName: q.SourceCategoryName,
	}
	switch body := q.Body.(type) {
	case ChoiceBody:
		v.Options = make([]OptionView, len(body.Options))
		for i, o := range body.Options {
			v.Options[i] = OptionView{Value: o.Value, Text: o.Text}
		}
	case MultiCheckBody:
		v.ChecklistItems = make([]ChecklistItemView, len(body.Items))
		for i, item := range body.Items {
			v.ChecklistItems[i] = ChecklistItemView{ID: item.ID, Label: item.Label}
		}
	}
	return v
}

// Views projects a list of questions.
func Views(questions []*PoolQuestion) []QuestionView {
	views := make([]QuestionView, len(questions))
	for i, q := range questions {
		views[i] = q.View()
	}
	return views
}

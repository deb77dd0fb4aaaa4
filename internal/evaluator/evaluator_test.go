package evaluator

import (
	"lawhealth/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDomains = []model.Domain{
	{
		ID:          "a",
		Name:        "Domain A",
		SanctionMap: map[string]model.Severity{"sanction1": model.SeverityHigh, "sanction2": model.SeverityLow},
		Penalties: map[string]map[string]string{
			"sanction1": {"micro": "fine of 500 EUR", "default": "fine of 2000 EUR"},
		},
	},
	{
		ID:          "b",
		Name:        "Domain B",
		SanctionMap: map[string]model.Severity{"tier_a": model.SeverityMedium},
	},
	{ID: "c", Name: "Domain C"},
}

func question(id, domain string, weight float64, severity model.Severity, body model.QuestionBody) *model.PoolQuestion {
	token := "sanction1"
	if severity == model.SeverityNone {
		token = model.SanctionNone
	}
	return &model.PoolQuestion{
		Question: model.Question{
			ID:             id,
			Text:           "text " + id,
			LegalReference: "Art. " + id,
			Weight:         weight,
			SanctionToken:  token,
			Body:           body,
		},
		SourceCategory:     domain,
		SourceCategoryName: "Domain " + domain,
		Severity:           severity,
	}
}

func binaryQ(id, domain string, weight float64, correct string) *model.PoolQuestion {
	return question(id, domain, weight, model.SeverityHigh, model.BinaryBody{CorrectAnswer: correct})
}

func choiceQ(id string) *model.PoolQuestion {
	return question(id, "b", 2, model.SeverityMedium, model.ChoiceBody{Options: []model.Option{
		{Value: "a", Text: "Always", IsCorrect: true},
		{Value: "b", Text: "Never"},
	}})
}

func multiQ(id string) *model.PoolQuestion {
	return question(id, "a", 3, model.SeverityHigh, model.MultiCheckBody{Items: []model.ChecklistItem{
		{ID: "x", Weight: 1},
		{ID: "y", Weight: 1},
		{ID: "z", Weight: 1},
	}})
}

func TestBinaryPerfectCompliance(t *testing.T) {
	e := New(testDomains)
	q := binaryQ("q1", "a", 1, "yes")

	ev := e.Evaluate(model.Answers{"q1": model.TokenAnswer("yes")}, []*model.PoolQuestion{q}, "")

	f := ev.Findings["q1"]
	assert.True(t, f.IsCompliant)
	assert.Equal(t, 1.0, f.Score)
	assert.Equal(t, 100, Percentage(ev.RawScore, ev.MaxScore))
	assert.Empty(t, ev.Violations)
}

func TestBinaryViolation(t *testing.T) {
	e := New(testDomains)
	q := binaryQ("q1", "a", 1, "yes")

	ev := e.Evaluate(model.Answers{"q1": model.TokenAnswer("no")}, []*model.PoolQuestion{q}, "")

	f := ev.Findings["q1"]
	assert.False(t, f.IsCompliant)
	assert.Equal(t, -1.0, f.Score)
	assert.Equal(t, 0, Percentage(ev.RawScore, ev.MaxScore), "clamped from -100")
	require.Len(t, ev.Violations, 1)
	assert.Equal(t, model.SeverityHigh, ev.Violations[0].Severity)
}

func TestBinaryRules(t *testing.T) {
	e := New(testDomains)
	tests := []struct {
		name      string
		correct   string
		answer    model.AnswerValue
		score     float64
		compliant bool
	}{
		{"true alias of yes", "yes", model.TokenAnswer("true"), 2, true},
		{"false alias of no", "no", model.TokenAnswer("false"), 2, true},
		{"correct given as alias", "true", model.TokenAnswer("yes"), 2, true},
		{"other valid value", "no", model.TokenAnswer("yes"), -2, false},
		{"partial", "yes", model.TokenAnswer("partial"), -1, false},
		{"partially", "yes", model.TokenAnswer("partially"), -1, false},
		{"garbage", "yes", model.TokenAnswer("maybe"), -0.5, false},
		{"non-token", "yes", model.ChecklistAnswer(map[string]bool{"x": true}), -0.5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := binaryQ("q", "a", 2, tt.correct)
			f := e.Score(q, tt.answer, "")
			assert.Equal(t, tt.score, f.Score)
			assert.Equal(t, tt.compliant, f.IsCompliant)
		})
	}
}

func TestBinaryMessagesAreDistinct(t *testing.T) {
	e := New(testDomains)
	q := binaryQ("q", "a", 1, "yes")

	no := e.Score(q, model.TokenAnswer("no"), "")
	partial := e.Score(q, model.TokenAnswer("partial"), "")
	garbage := e.Score(q, model.TokenAnswer("???"), "")

	assert.Contains(t, no.Message, "Not compliant with Art. q")
	assert.Contains(t, partial.Message, "Partially compliant")
	assert.Contains(t, garbage.Message, "could not be determined")
	assert.NotEqual(t, no.Message, partial.Message)
}

func TestChoiceRules(t *testing.T) {
	e := New(testDomains)
	q := choiceQ("c1")

	correct := e.Score(q, model.TokenAnswer("a"), "")
	assert.Equal(t, model.Finding{IsCompliant: true, Score: 2, Message: "Compliant with Art. c1."}, correct)

	wrong := e.Score(q, model.TokenAnswer("b"), "")
	assert.False(t, wrong.IsCompliant)
	assert.Equal(t, -2.0, wrong.Score)
	assert.Contains(t, wrong.Message, `"Never"`)
	assert.Contains(t, wrong.Message, "Medium risk")
}

// An unknown CHOICE value is unscored while unknown BINARY input is penalized.
// The asymmetry is inherited scoring behaviour and is pinned here on purpose.
func TestChoiceInvalidValueIsNeutralButCountsTowardMax(t *testing.T) {
	e := New(testDomains)
	q := choiceQ("c1")
	ok := question("b1", "b", 2, model.SeverityMedium, model.BinaryBody{CorrectAnswer: "yes"})

	ev := e.Evaluate(model.Answers{
		"c1": model.TokenAnswer("zzz"),
		"b1": model.TokenAnswer("yes"),
	}, []*model.PoolQuestion{q, ok}, "")

	assert.Equal(t, model.Finding{Score: 0, IsCompliant: false, Message: MsgInvalidAnswer}, ev.Findings["c1"])
	assert.Equal(t, 2.0, ev.RawScore)
	assert.Equal(t, 4.0, ev.MaxScore)
	assert.Equal(t, 50, Percentage(ev.RawScore, ev.MaxScore))
	require.Len(t, ev.Violations, 1)
	assert.Equal(t, MsgInvalidAnswer, ev.Violations[0].Message)

	garbage := e.Score(binaryQ("g", "a", 2, "yes"), model.TokenAnswer("zzz"), "")
	assert.Less(t, garbage.Score, 0.0)
}

func TestMultiCheckPartial(t *testing.T) {
	e := New(testDomains)
	q := multiQ("m1")
	q.Weight = 3

	f := e.Score(q, model.ChecklistAnswer(map[string]bool{"x": true, "y": true}), "")
	assert.Equal(t, 1.5, f.Score)
	assert.False(t, f.IsCompliant)
	assert.Contains(t, f.Message, "Partially compliant")
	assert.NotContains(t, f.Message, "risk")
}

func TestMultiCheckBands(t *testing.T) {
	e := New(testDomains)
	q := multiQ("m1")

	full := e.Score(q, model.ChecklistAnswer(map[string]bool{"x": true, "y": true, "z": true}), "")
	assert.True(t, full.IsCompliant)
	assert.Equal(t, 3.0, full.Score)
	assert.Contains(t, full.Message, "Fully compliant")

	low := e.Score(q, model.ChecklistAnswer(map[string]bool{"x": true, "unknown": true}), "")
	assert.False(t, low.IsCompliant)
	assert.Equal(t, 0.0, low.Score)
	assert.Contains(t, low.Message, "Mostly non-compliant")
	assert.Contains(t, low.Message, "Possible penalty: fine of 2000 EUR")

	none := e.Score(q, model.ChecklistAnswer(nil), "")
	assert.Equal(t, -1.5, none.Score)
}

func TestMultiCheckInvalidFormat(t *testing.T) {
	e := New(testDomains)
	f := e.Score(multiQ("m1"), model.TokenAnswer("yes"), "")
	assert.Equal(t, model.Finding{Score: 0, IsCompliant: false, Message: MsgInvalidFormat}, f)
}

func TestMixedDomainBreakdown(t *testing.T) {
	e := New(testDomains)
	questions := []*model.PoolQuestion{
		binaryQ("a1", "a", 2, "yes"),
		binaryQ("a2", "a", 1, "yes"),
		binaryQ("b1", "b", 1, "no"),
	}
	answers := model.Answers{
		"a1": model.TokenAnswer("yes"),
		"a2": model.TokenAnswer("no"),
		"b1": model.TokenAnswer("no"),
	}

	ev := e.Evaluate(answers, questions, "")

	a := ev.Breakdown["a"]
	assert.Equal(t, 1.0, a.Score)
	assert.Equal(t, 3.0, a.MaxScore)
	assert.Equal(t, 33, a.Percentage)
	assert.Equal(t, 1, a.ViolationCount)
	assert.Equal(t, 2, a.TotalAnswered)

	b := ev.Breakdown["b"]
	assert.Equal(t, 1.0, b.Score)
	assert.Equal(t, 1.0, b.MaxScore)
	assert.Equal(t, 100, b.Percentage)

	assert.Equal(t, model.CategoryScore{Name: "Domain C"}, ev.Breakdown["c"], "empty domains still appear")

	assert.Equal(t, 2.0, ev.RawScore)
	assert.Equal(t, 4.0, ev.MaxScore)
	assert.Equal(t, 50, Percentage(ev.RawScore, ev.MaxScore))
}

func TestSkipNeutrality(t *testing.T) {
	e := New(testDomains)
	questions := []*model.PoolQuestion{
		binaryQ("q1", "a", 2, "yes"),
		binaryQ("q2", "a", 1, "yes"),
		binaryQ("q3", "b", 5, "yes"),
		multiQ("q4"),
	}
	base := model.Answers{
		"q1": model.TokenAnswer("yes"),
		"q2": model.TokenAnswer("no"),
	}
	withSkips := model.Answers{
		"q1": model.TokenAnswer("yes"),
		"q2": model.TokenAnswer("no"),
		"q3": model.TokenAnswer("not_applicable"),
		"q4": model.TokenAnswer("NA"),
	}

	a := e.Evaluate(base, questions, "")
	b := e.Evaluate(withSkips, questions, "")

	assert.Equal(t, a.RawScore, b.RawScore)
	assert.Equal(t, a.MaxScore, b.MaxScore)
	assert.Equal(t, a.Breakdown, b.Breakdown)
	assert.Equal(t, 2, b.AnsweredCount)
	assert.Equal(t, 2, b.SkippedCount)
	assert.NotContains(t, b.Findings, "q3")
}

func TestWeightConservation(t *testing.T) {
	e := New(testDomains)
	questions := []*model.PoolQuestion{
		binaryQ("q1", "a", 2, "yes"),
		binaryQ("q2", "b", 1.5, "no"),
		choiceQ("q3"),
		multiQ("q4"),
	}
	answers := model.Answers{
		"q1": model.TokenAnswer("yes"),
		"q2": model.TokenAnswer("false"),
		"q3": model.TokenAnswer("a"),
		"q4": model.ChecklistAnswer(map[string]bool{"x": true, "y": true, "z": true}),
	}

	ev := e.Evaluate(answers, questions, "")
	assert.Equal(t, ev.MaxScore, ev.RawScore)
	assert.Equal(t, 100, Percentage(ev.RawScore, ev.MaxScore))
	assert.Empty(t, ev.Violations)
}

func TestClamping(t *testing.T) {
	e := New(testDomains)
	questions := []*model.PoolQuestion{
		binaryQ("q1", "a", 2, "yes"),
		binaryQ("q2", "b", 1, "yes"),
		choiceQ("q3"),
		multiQ("q4"),
	}
	answerSets := []model.Answers{
		{"q1": model.TokenAnswer("no"), "q2": model.TokenAnswer("partial"), "q3": model.TokenAnswer("b"), "q4": model.ChecklistAnswer(nil)},
		{"q1": model.TokenAnswer("?"), "q2": model.TokenAnswer("no"), "q3": model.TokenAnswer("x"), "q4": model.TokenAnswer("x")},
		{"q1": model.TokenAnswer("yes"), "q4": model.ChecklistAnswer(map[string]bool{"x": true, "y": true, "z": true})},
	}
	for _, answers := range answerSets {
		ev := e.Evaluate(answers, questions, "")
		p := Percentage(ev.RawScore, ev.MaxScore)
		assert.GreaterOrEqual(t, p, 0)
		assert.LessOrEqual(t, p, 100)
		for id, cat := range ev.Breakdown {
			assert.GreaterOrEqual(t, cat.Percentage, 0, id)
			assert.LessOrEqual(t, cat.Percentage, 100, id)
		}
	}
}

func TestRecommendationsFollowViolations(t *testing.T) {
	e := New(testDomains)
	q1 := binaryQ("q1", "a", 1, "yes")
	q1.RecommendationText = "Sign written contracts."
	q2 := binaryQ("q2", "a", 1, "yes")
	q3 := binaryQ("q3", "a", 1, "yes")
	q3.RecommendationText = "Unused."

	ev := e.Evaluate(model.Answers{
		"q1": model.TokenAnswer("no"),
		"q2": model.TokenAnswer("no"),
		"q3": model.TokenAnswer("yes"),
	}, []*model.PoolQuestion{q1, q2, q3}, "")

	require.Len(t, ev.Recommendations, 1)
	assert.Equal(t, model.Recommendation{
		Text:               "Sign written contracts.",
		SourceCategory:     "a",
		SourceCategoryName: "Domain a",
	}, ev.Recommendations[0])
}

func TestSeverityClause(t *testing.T) {
	e := New(testDomains)

	q := binaryQ("q", "a", 1, "yes")
	assert.Contains(t, e.Score(q, model.TokenAnswer("no"), model.SizeTierMicro).Message, "fine of 500 EUR")
	assert.Contains(t, e.Score(q, model.TokenAnswer("no"), model.SizeTierLarge).Message, "fine of 2000 EUR")

	low := binaryQ("q", "a", 1, "yes")
	low.SanctionToken = "sanction2"
	low.Severity = model.SeverityLow
	assert.Contains(t, e.Score(low, model.TokenAnswer("no"), "").Message, "Low risk")

	none := question("n", "a", 1, model.SeverityNone, model.BinaryBody{CorrectAnswer: "yes"})
	assert.Contains(t, e.Score(none, model.TokenAnswer("no"), "").Message, "No statutory penalty")
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0, Percentage(5, 0))
	assert.Equal(t, 33, Percentage(1, 3))
	assert.Equal(t, 67, Percentage(2, 3))
	assert.Equal(t, 0, Percentage(-3, 1))
	assert.Equal(t, 100, Percentage(7, 5))
}

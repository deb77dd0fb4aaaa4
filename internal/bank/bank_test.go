package bank

import (
	"lawhealth/internal/model"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedBanks(t *testing.T) {
	banks, err := Load()
	require.NoError(t, err)

	ids := make([]string, 0, len(banks))
	for _, b := range banks {
		ids = append(ids, b.Domain.ID)
		assert.NotEmpty(t, b.Questions, "domain %s has no questions", b.Domain.ID)
	}
	assert.Equal(t, []string{"consumer_protection", "data_protection", "employment", "health_safety"}, ids)
}

func TestEmbeddedVocabulariesDiffer(t *testing.T) {
	banks, err := Load()
	require.NoError(t, err)

	byID := map[string]model.Domain{}
	for _, b := range banks {
		byID[b.Domain.ID] = b.Domain
	}

	empDomain := byID["employment"]
	dpDomain := byID["data_protection"]
	emp, _ := empDomain.Normalize("sanction1")
	dp, _ := dpDomain.Normalize("sanction1")
	assert.Equal(t, model.SeverityHigh, emp)
	assert.Equal(t, model.SeverityLow, dp)
}

func TestLoadGrading(t *testing.T) {
	g, err := LoadGrading()
	require.NoError(t, err)
	require.NotEmpty(t, g.Tiers)
	assert.Equal(t, 0, g.Tiers[len(g.Tiers)-1].Min)
	for _, tier := range g.Tiers {
		assert.Contains(t, g.Descriptions, tier.Label)
	}
}

func TestParseRejectsInvalidBanks(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		errPart string
	}{
		{
			name:    "missing domain id",
			yaml:    "domain: {name: X}\n",
			errPart: "domain.id is required",
		},
		{
			name: "unknown severity level",
			yaml: `
domain: {id: d, name: D}
sanctions: {s1: catastrophic}
`,
			errPart: "unknown level",
		},
		{
			name: "binary without correct answer",
			yaml: `
domain: {id: d, name: D}
sanctions: {s1: high}
questions:
  - {id: q1, text: T, type: BINARY, weight: 1, sanction: s1}
`,
			errPart: "correctAnswer",
		},
		{
			name: "choice without correct option",
			yaml: `
domain: {id: d, name: D}
sanctions: {s1: high}
questions:
  - id: q1
    text: T
    type: CHOICE
    weight: 1
    sanction: s1
    options:
      - {value: a, text: A}
`,
			errPart: "at least one correct option",
		},
		{
			name: "multi check with duplicate items",
			yaml: `
domain: {id: d, name: D}
sanctions: {s1: high}
questions:
  - id: q1
    text: T
    type: MULTI_CHECK
    weight: 1
    sanction: s1
    checklist:
      - {id: a, label: A, weight: 1}
      - {id: a, label: B, weight: 1}
`,
			errPart: "unique",
		},
		{
			name: "multi check items not summing to question weight",
			yaml: `
domain: {id: d, name: D}
sanctions: {s1: high}
questions:
  - id: q1
    text: T
    type: MULTI_CHECK
    weight: 2
    sanction: s1
    checklist:
      - {id: a, label: A, weight: 1}
      - {id: b, label: B, weight: 2}
`,
			errPart: "sum to 3",
		},
		{
			name: "unknown type",
			yaml: `
domain: {id: d, name: D}
questions:
  - {id: q1, text: T, type: ESSAY, weight: 1, sanction: none}
`,
			errPart: "unknown question type",
		},
		{
			name: "non-positive weight",
			yaml: `
domain: {id: d, name: D}
questions:
  - {id: q1, text: T, type: BINARY, weight: 0, correctAnswer: "yes", sanction: none}
`,
			errPart: "weight must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestLoadFSSkipsGrading(t *testing.T) {
	fsys := fstest.MapFS{
		"grading.yaml": {Data: []byte("tiers: [{label: A, min: 0}]\n")},
		"one.yaml": {Data: []byte(`
domain: {id: one, name: One}
questions:
  - {id: q1, text: T, type: BINARY, weight: 1, correctAnswer: "no", sanction: none}
`)},
	}

	banks, err := LoadFS(fsys)
	require.NoError(t, err)
	require.Len(t, banks, 1)
	assert.Equal(t, "one", banks[0].Domain.ID)
	assert.Equal(t, model.QuestionTypeBinary, banks[0].Questions[0].Type())
}

func TestParseGradingRequiresDescendingTiers(t *testing.T) {
	_, err := ParseGrading([]byte("tiers: [{label: Low, min: 0}, {label: High, min: 50}]\n"))
	assert.Error(t, err)

	_, err = ParseGrading([]byte("tiers: [{label: High, min: 50}, {label: Low, min: 10}]\n"))
	assert.ErrorContains(t, err, "must start at 0")
}

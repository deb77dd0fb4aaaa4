// Package bank loads the domain question banks and grading configuration that
// ship embedded in the binary.
package bank

import (
	"embed"
	"fmt"
	"io/fs"
	"lawhealth/internal/model"
	"math"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embedded embed.FS

const (
	gradingFile     = "grading.yaml"
	weightTolerance = 1e-9
)

// bankFile is the on-disk shape of one domain bank
type bankFile struct {
	Domain struct {
		ID    string `yaml:"id"`
		Name  string `yaml:"name"`
		Icon  string `yaml:"icon"`
		Color string `yaml:"color"`
	} `yaml:"domain"`
	Sanctions map[string]string            `yaml:"sanctions"`
	Penalties map[string]map[string]string `yaml:"penalties"`
	Questions []questionFile               `yaml:"questions"`
}

type questionFile struct {
	ID             string                `yaml:"id"`
	Category       string                `yaml:"category"`
	Text           string                `yaml:"text"`
	LegalReference string                `yaml:"legalReference"`
	Type           string                `yaml:"type"`
	Weight         float64               `yaml:"weight"`
	CorrectAnswer  string                `yaml:"correctAnswer"`
	Options        []model.Option        `yaml:"options"`
	Checklist      []model.ChecklistItem `yaml:"checklist"`
	Sanction       string                `yaml:"sanction"`
	Recommendation string                `yaml:"recommendation"`
}

// Load parses every embedded domain bank.
func Load() ([]model.DomainBank, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub)
}

// LoadGrading parses the embedded grading configuration.
func LoadGrading() (model.Grading, error) {
	data, err := embedded.ReadFile(path.Join("data", gradingFile))
	if err != nil {
		return model.Grading{}, err
	}
	return ParseGrading(data)
}

// LoadFS parses every *.yaml bank in fsys except the grading file, in file
// name order.
func LoadFS(fsys fs.FS) ([]model.DomainBank, error) {
	names, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	var banks []model.DomainBank
	for _, name := range names {
		if name == gradingFile {
			continue
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read bank %s: %w", name, err)
		}
		b, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("bank %s: %w", name, err)
		}
		banks = append(banks, b)
	}
	if len(banks) == 0 {
		return nil, fmt.Errorf("no question banks found")
	}
	return banks, nil
}

// Parse decodes and validates one domain bank.
func Parse(data []byte) (model.DomainBank, error) {
	var f bankFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return model.DomainBank{}, fmt.Errorf("decode: %w", err)
	}
	if f.Domain.ID == "" {
		return model.DomainBank{}, fmt.Errorf("domain.id is required")
	}
	if f.Domain.Name == "" {
		return model.DomainBank{}, fmt.Errorf("domain %s: name is required", f.Domain.ID)
	}

	sanctions := make(map[string]model.Severity, len(f.Sanctions))
	for token, level := range f.Sanctions {
		sev := model.Severity(level)
		if !sev.Valid() {
			return model.DomainBank{}, fmt.Errorf("domain %s: sanction %s maps to unknown level %q", f.Domain.ID, token, level)
		}
		sanctions[token] = sev
	}

	b := model.DomainBank{
		Domain: model.Domain{
			ID:          f.Domain.ID,
			Name:        f.Domain.Name,
			Icon:        f.Domain.Icon,
			Color:       f.Domain.Color,
			SanctionMap: sanctions,
			Penalties:   f.Penalties,
		},
		Questions: make([]model.Question, 0, len(f.Questions)),
	}

	for token := range f.Penalties {
		if _, ok := b.Domain.Normalize(token); !ok {
			return model.DomainBank{}, fmt.Errorf("domain %s: penalty for unknown sanction %s", f.Domain.ID, token)
		}
	}

	for i, qf := range f.Questions {
		q, err := qf.toQuestion()
		if err != nil {
			return model.DomainBank{}, fmt.Errorf("domain %s: question #%d: %w", f.Domain.ID, i+1, err)
		}
		b.Questions = append(b.Questions, q)
	}
	return b, nil
}

func (qf questionFile) toQuestion() (model.Question, error) {
	if qf.ID == "" {
		return model.Question{}, fmt.Errorf("id is required")
	}
	if qf.Text == "" {
		return model.Question{}, fmt.Errorf("%s: text is required", qf.ID)
	}
	if qf.Weight <= 0 {
		return model.Question{}, fmt.Errorf("%s: weight must be positive", qf.ID)
	}
	if qf.Sanction == "" {
		return model.Question{}, fmt.Errorf("%s: sanction is required", qf.ID)
	}

	body, err := qf.body()
	if err != nil {
		return model.Question{}, fmt.Errorf("%s: %w", qf.ID, err)
	}

	return model.Question{
		ID:                 qf.ID,
		DomainCategory:     qf.Category,
		Text:               qf.Text,
		LegalReference:     qf.LegalReference,
		Weight:             qf.Weight,
		SanctionToken:      qf.Sanction,
		RecommendationText: strings.TrimSpace(qf.Recommendation),
		Body:               body,
	}, nil
}

func (qf questionFile) body() (model.QuestionBody, error) {
	switch model.QuestionType(qf.Type) {
	case model.QuestionTypeBinary:
		switch strings.ToLower(qf.CorrectAnswer) {
		case "yes", "no", "true", "false":
			return model.BinaryBody{CorrectAnswer: qf.CorrectAnswer}, nil
		}
		return nil, fmt.Errorf("BINARY correctAnswer must be yes or no, got %q", qf.CorrectAnswer)

	case model.QuestionTypeChoice:
		if len(qf.Options) == 0 {
			return nil, fmt.Errorf("CHOICE requires options")
		}
		seen := make(map[string]bool, len(qf.Options))
		correct := 0
		for _, o := range qf.Options {
			if o.Value == "" || seen[o.Value] {
				return nil, fmt.Errorf("CHOICE option values must be unique and non-empty")
			}
			seen[o.Value] = true
			if o.IsCorrect {
				correct++
			}
		}
		if correct == 0 {
			return nil, fmt.Errorf("CHOICE requires at least one correct option")
		}
		return model.ChoiceBody{Options: qf.Options}, nil

	case model.QuestionTypeMultiCheck:
		if len(qf.Checklist) == 0 {
			return nil, fmt.Errorf("MULTI_CHECK requires checklist items")
		}
		seen := make(map[string]bool, len(qf.Checklist))
		sum := 0.0
		for _, item := range qf.Checklist {
			if item.ID == "" || seen[item.ID] {
				return nil, fmt.Errorf("MULTI_CHECK item ids must be unique and non-empty")
			}
			if item.Weight <= 0 {
				return nil, fmt.Errorf("MULTI_CHECK item %s: weight must be positive", item.ID)
			}
			seen[item.ID] = true
			sum += item.Weight
		}
		// A fully checked list must earn exactly the question weight.
		if math.Abs(sum-qf.Weight) > weightTolerance {
			return nil, fmt.Errorf("MULTI_CHECK item weights sum to %g, question weight is %g", sum, qf.Weight)
		}
		return model.MultiCheckBody{Items: qf.Checklist}, nil
	}
	return nil, fmt.Errorf("unknown question type %q", qf.Type)
}

// ParseGrading decodes and validates a grading configuration.
func ParseGrading(data []byte) (model.Grading, error) {
	var g model.Grading
	if err := yaml.Unmarshal(data, &g); err != nil {
		return model.Grading{}, fmt.Errorf("decode grading: %w", err)
	}
	if len(g.Tiers) == 0 {
		return model.Grading{}, fmt.Errorf("grading: at least one tier is required")
	}
	for i := 1; i < len(g.Tiers); i++ {
		if g.Tiers[i].Min >= g.Tiers[i-1].Min {
			return model.Grading{}, fmt.Errorf("grading: tiers must be ordered by descending min (%s after %s)", g.Tiers[i].Label, g.Tiers[i-1].Label)
		}
	}
	if last := g.Tiers[len(g.Tiers)-1]; last.Min > 0 {
		return model.Grading{}, fmt.Errorf("grading: lowest tier %s must start at 0", last.Label)
	}
	return g, nil
}

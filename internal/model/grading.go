package model

// GradeTier is one grade and the minimum percentage that earns it
type GradeTier struct {
	Label string `yaml:"label"`
	Min   int    `yaml:"min"`
}

// Grading configures grade tiers and their description templates. Templates
// use the {company} placeholder for the subject's display name.
type Grading struct {
	Tiers              []GradeTier       `yaml:"tiers"`
	Descriptions       map[string]string `yaml:"descriptions"`
	DefaultDisplayName string            `yaml:"defaultDisplayName"`
}

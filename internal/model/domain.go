package model

// SizeTier is the company-size bracket some domains price penalties by
type SizeTier string

const (
	SizeTierMicro  SizeTier = "micro"
	SizeTierSmall  SizeTier = "small"
	SizeTierMedium SizeTier = "medium"
	SizeTierLarge  SizeTier = "large"
)

// PenaltyDefaultKey is the tier-independent entry of a domain penalty table.
const PenaltyDefaultKey = "default"

// Domain is the static metadata of one legal domain bank
type Domain struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`

	// SanctionMap translates this domain's own severity tokens to the shared scale.
	SanctionMap map[string]Severity `json:"-"`

	// Penalties optionally describes the concrete penalty for an original token,
	// keyed by size tier or PenaltyDefaultKey.
	Penalties map[string]map[string]string `json:"-"`
}

// Normalize maps a domain-specific token to the shared severity scale.
// "none" is the same in every domain.
func (d *Domain) Normalize(token string) (Severity, bool) {
	if token == SanctionNone {
		return SeverityNone, true
	}
	sev, ok := d.SanctionMap[token]
	return sev, ok
}

// PenaltyText returns the domain's concrete penalty description for token and
// tier, falling back to the token's default entry.
func (d *Domain) PenaltyText(token string, tier SizeTier) (string, bool) {
	byTier, ok := d.Penalties[token]
	if !ok {
		return "", false
	}
	if text, ok := byTier[string(tier)]; ok && text != "" {
		return text, true
	}
	if text, ok := byTier[PenaltyDefaultKey]; ok && text != "" {
		return text, true
	}
	return "", false
}

// DomainBank is one domain's metadata and its question list
type DomainBank struct {
	Domain    Domain
	Questions []Question
}

package enums

import "fmt"

// RiskTier classifies a third-party profile by assessed exposure.
type RiskTier string

const (
	RiskTierHigh   RiskTier = "high"
	RiskTierMedium RiskTier = "medium"
	RiskTierLow    RiskTier = "low"
)

var validRiskTiers = []RiskTier{RiskTierHigh, RiskTierMedium, RiskTierLow}

// IsValid reports whether the value matches a known tier.
func (r RiskTier) IsValid() bool {
	for _, candidate := range validRiskTiers {
		if candidate == r {
			return true
		}
	}
	return false
}

// Rank orders tiers for threshold comparisons; higher is riskier.
func (r RiskTier) Rank() int {
	switch r {
	case RiskTierHigh:
		return 3
	case RiskTierMedium:
		return 2
	case RiskTierLow:
		return 1
	default:
		return 0
	}
}

// MeetsThreshold reports whether the tier is at or above the given floor.
func (r RiskTier) MeetsThreshold(floor RiskTier) bool {
	return r.Rank() >= floor.Rank() && r.Rank() > 0
}

// ParseRiskTier converts raw input into a RiskTier.
func ParseRiskTier(value string) (RiskTier, error) {
	for _, candidate := range validRiskTiers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid risk tier %q", value)
}

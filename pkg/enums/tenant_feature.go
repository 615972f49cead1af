package enums

import "fmt"

// TenantFeature is a coarse capability flag stored per tenant.
type TenantFeature string

const (
	// FeatureScreeningLegacy and FeatureCaseworkLegacy together formed the
	// original workflow entitlement; FeatureWorkflowV2 supersedes the pair but
	// both combinations stay valid during migration.
	FeatureScreeningLegacy TenantFeature = "screening_legacy"
	FeatureCaseworkLegacy  TenantFeature = "casework_legacy"
	FeatureWorkflowV2      TenantFeature = "workflow_v2"
	FeatureCountryLanguage TenantFeature = "country_language"
	FeatureBatchReview     TenantFeature = "batch_review"
)

var validTenantFeatures = []TenantFeature{
	FeatureScreeningLegacy,
	FeatureCaseworkLegacy,
	FeatureWorkflowV2,
	FeatureCountryLanguage,
	FeatureBatchReview,
}

// IsValid reports whether the value matches a known tenant feature.
func (f TenantFeature) IsValid() bool {
	for _, candidate := range validTenantFeatures {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseTenantFeature converts raw input into a TenantFeature.
func ParseTenantFeature(value string) (TenantFeature, error) {
	for _, candidate := range validTenantFeatures {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tenant feature %q", value)
}

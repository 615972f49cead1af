package enums

// NotificationPurpose selects which recipient list a workflow notice targets.
type NotificationPurpose string

const (
	PurposeSpecialistReview     NotificationPurpose = "specialist_review"
	PurposeComplianceFlag       NotificationPurpose = "compliance_flag"
	PurposeSecondaryStakeholder NotificationPurpose = "secondary_stakeholder"
)

// IsValid reports whether the value matches a known purpose.
func (p NotificationPurpose) IsValid() bool {
	switch p {
	case PurposeSpecialistReview, PurposeComplianceFlag, PurposeSecondaryStakeholder:
		return true
	default:
		return false
	}
}

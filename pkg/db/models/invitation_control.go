package models

import (
	"github.com/google/uuid"

	"github.com/oharrington/thirdline-backend/pkg/enums"
)

// InvitationControl maps a form type onto the legacy case type, template
// version and form code used when issuing an invitation. A nil TenantID row
// is the global default.
type InvitationControl struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID       *uuid.UUID     `gorm:"column:tenant_id;type:uuid;index"`
	FormType       enums.FormType `gorm:"column:form_type;type:text;not null"`
	CaseType       enums.CaseType `gorm:"column:case_type;not null"`
	Version        int            `gorm:"column:version;not null;default:1"`
	LegacyFormCode string         `gorm:"column:legacy_form_code;type:text;not null"`
}

// InvitationLanguage configures the invitation email language. Resolution
// walks (tenant, exact case type), (tenant, default case type), then the
// global default-case-type row before the baseline language applies.
type InvitationLanguage struct {
	ID       uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID *uuid.UUID      `gorm:"column:tenant_id;type:uuid;index"`
	CaseType *enums.CaseType `gorm:"column:case_type"`
	Language string          `gorm:"column:language;type:text;not null"`
}

// CountryLanguage maps a profile country to an invitation language, applied
// only when the country_language feature is enabled for the tenant.
type CountryLanguage struct {
	Country  string `gorm:"column:country;type:text;primaryKey"`
	Language string `gorm:"column:language;type:text;not null"`
}

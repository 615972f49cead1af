package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/oharrington/thirdline-backend/pkg/enums"
)

// Questionnaire is a pending or submitted form instance linked 1:1 to a case
// and optionally to a profile.
type Questionnaire struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID       uuid.UUID      `gorm:"column:tenant_id;type:uuid;not null;index"`
	CaseID         uuid.UUID      `gorm:"column:case_id;type:uuid;not null;uniqueIndex"`
	ProfileID      *uuid.UUID     `gorm:"column:profile_id;type:uuid;index"`
	FormType       enums.FormType `gorm:"column:form_type;type:text;not null"`
	Internal       bool           `gorm:"column:internal;not null;default:false"`
	Language       string         `gorm:"column:language;type:text;not null;default:'en'"`
	RecipientEmail string         `gorm:"column:recipient_email;type:text"`
	SubmittedAt    *time.Time     `gorm:"column:submitted_at;type:timestamptz"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
}

// IsSubmitted reports whether the questionnaire has been completed.
func (q Questionnaire) IsSubmitted() bool {
	return q.SubmittedAt != nil
}

// QuestionnaireAnswer is one submitted answer value keyed by question id.
type QuestionnaireAnswer struct {
	QuestionnaireID uuid.UUID `gorm:"column:questionnaire_id;type:uuid;primaryKey"`
	QuestionID      string    `gorm:"column:question_id;type:text;primaryKey"`
	Value           string    `gorm:"column:value;type:text;not null"`
}

package models

import "github.com/google/uuid"

// FlaggedQuestion configures one trigger condition: a submitted answer equal
// to ExpectedValue for QuestionID fires the tenant's flag handling.
type FlaggedQuestion struct {
	TenantID      uuid.UUID `gorm:"column:tenant_id;type:uuid;primaryKey"`
	QuestionID    string    `gorm:"column:question_id;type:text;primaryKey"`
	ExpectedValue string    `gorm:"column:expected_value;type:text;not null"`
}

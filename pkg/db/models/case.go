package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/oharrington/thirdline-backend/pkg/enums"
)

// Case groups one in-flight review cycle for a profile.
type Case struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID  uuid.UUID      `gorm:"column:tenant_id;type:uuid;not null;index"`
	ProfileID *uuid.UUID     `gorm:"column:profile_id;type:uuid;index"`
	CaseType  enums.CaseType `gorm:"column:case_type;not null"`
	Version   int            `gorm:"column:version;not null;default:1"`
	Status    string         `gorm:"column:status;type:text;not null;default:'open'"`
	CreatedBy uuid.UUID      `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
}

func (Case) TableName() string { return "cases" }

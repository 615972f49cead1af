package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/oharrington/thirdline-backend/pkg/enums"
)

// RiskAssessment holds the derived risk tier for a profile. The newest row
// per profile wins.
type RiskAssessment struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID   uuid.UUID      `gorm:"column:tenant_id;type:uuid;not null;index"`
	ProfileID  uuid.UUID      `gorm:"column:profile_id;type:uuid;not null;index"`
	Tier       enums.RiskTier `gorm:"column:tier;type:text;not null"`
	AssessedAt time.Time      `gorm:"column:assessed_at;type:timestamptz;not null"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime"`
}

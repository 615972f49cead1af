package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/oharrington/thirdline-backend/pkg/enums"
)

// CaseElement is a cross-reference row linking two records. Upstream batch
// imports sometimes skip these rows; the invitation relink repair pass
// recreates the missing ones.
type CaseElement struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID   uuid.UUID        `gorm:"column:tenant_id;type:uuid;not null;index"`
	ParentType enums.EntityType `gorm:"column:parent_type;type:text;not null"`
	ParentID   uuid.UUID        `gorm:"column:parent_id;type:uuid;not null"`
	ChildType  enums.EntityType `gorm:"column:child_type;type:text;not null"`
	ChildID    uuid.UUID        `gorm:"column:child_id;type:uuid;not null"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
}

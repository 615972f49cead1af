package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkflowRecord marks that a profile's workflow has been started. At most
// one row exists per (tenant, profile); the unique index backs the
// insert-on-conflict claim in the ledger service.
type WorkflowRecord struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID  uuid.UUID `gorm:"column:tenant_id;type:uuid;not null;uniqueIndex:ux_workflow_records_tenant_profile"`
	ProfileID uuid.UUID `gorm:"column:profile_id;type:uuid;not null;uniqueIndex:ux_workflow_records_tenant_profile"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/oharrington/thirdline-backend/pkg/enums"
)

// Tenant is a customer organization. Feature and event flags live in their
// own rows and are read-only to the workflow subsystem.
type Tenant struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TenantFeature grants a coarse capability to a tenant.
type TenantFeature struct {
	TenantID uuid.UUID           `gorm:"column:tenant_id;type:uuid;primaryKey"`
	Feature  enums.TenantFeature `gorm:"column:feature;type:text;primaryKey"`
}

// TenantWorkflowEvent enables one numbered workflow event for a tenant.
type TenantWorkflowEvent struct {
	TenantID uuid.UUID           `gorm:"column:tenant_id;type:uuid;primaryKey"`
	Event    enums.WorkflowEvent `gorm:"column:event;primaryKey"`
}

// StrategyBinding maps a tenant to its workflow strategy implementation.
type StrategyBinding struct {
	TenantID    uuid.UUID `gorm:"column:tenant_id;type:uuid;primaryKey"`
	StrategyKey string    `gorm:"column:strategy_key;type:text;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

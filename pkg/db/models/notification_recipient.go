package models

import (
	"github.com/google/uuid"

	"github.com/oharrington/thirdline-backend/pkg/enums"
)

// NotificationRecipient configures who receives a workflow notice for a
// given purpose. A nil Region row is the tenant-wide fallback.
type NotificationRecipient struct {
	ID       uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID uuid.UUID                 `gorm:"column:tenant_id;type:uuid;not null;index"`
	Purpose  enums.NotificationPurpose `gorm:"column:purpose;type:text;not null"`
	Region   *string                   `gorm:"column:region;type:text"`
	Email    string                    `gorm:"column:email;type:text;not null"`
}

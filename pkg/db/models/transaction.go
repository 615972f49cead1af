package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/oharrington/thirdline-backend/pkg/enums"
)

// Transaction is one pending cross-system sync unit in the outbox queue.
// This service only writes PEND rows; terminal transitions, retry counting
// and reprocess scheduling belong to the downstream consumer.
type Transaction struct {
	ID                uuid.UUID                  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID          uuid.UUID                  `gorm:"column:tenant_id;type:uuid;not null;index"`
	Operation         enums.TransactionOperation `gorm:"column:operation;type:text;not null"`
	Type              enums.TransactionType      `gorm:"column:type;type:text;not null"`
	Status            enums.TransactionStatus    `gorm:"column:status;type:text;not null;default:'PEND'"`
	EntityID          uuid.UUID                  `gorm:"column:entity_id;type:uuid;not null"`
	EntityType        enums.EntityType           `gorm:"column:entity_type;type:text;not null"`
	TriggerEntityID   *uuid.UUID                 `gorm:"column:trigger_entity_id;type:uuid"`
	TriggerEntityType *enums.EntityType          `gorm:"column:trigger_entity_type;type:text"`
	RetryCount        int                        `gorm:"column:retry_count;not null;default:0"`
	ReprocessAt       *time.Time                 `gorm:"column:reprocess_at;type:timestamptz"`
	Log               string                     `gorm:"column:log;type:text"`
	CreatedAt         time.Time                  `gorm:"column:created_at;autoCreateTime"`
}

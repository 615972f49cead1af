package notifications

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oharrington/thirdline-backend/pkg/db/models"
	"github.com/oharrington/thirdline-backend/pkg/enums"
)

// Repository loads notification recipient configuration and selectable-list
// labels.
type Repository interface {
	ListRecipients(ctx context.Context, tenantID uuid.UUID, purpose enums.NotificationPurpose, region *string) ([]models.NotificationRecipient, error)
	LabelFor(ctx context.Context, tenantID uuid.UUID, listKey, code string) (string, error)
	CodeInList(ctx context.Context, tenantID uuid.UUID, listKey, code string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a notification repository bound to the database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// ListRecipients returns the configured recipients for a purpose. When a
// region is given, region-specific rows win; the tenant-wide nil-region rows
// apply only when no regional row matches.
func (r *repository) ListRecipients(ctx context.Context, tenantID uuid.UUID, purpose enums.NotificationPurpose, region *string) ([]models.NotificationRecipient, error) {
	var rows []models.NotificationRecipient
	if region != nil {
		err := r.db.WithContext(ctx).
			Where("tenant_id = ? AND purpose = ? AND region = ?", tenantID, purpose, *region).
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			return rows, nil
		}
	}
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND purpose = ? AND region IS NULL", tenantID, purpose).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// LabelFor resolves a selectable-list answer code to its display label. The
// raw code is returned unchanged when no list item matches, so notices stay
// sendable even with stale list configuration.
func (r *repository) LabelFor(ctx context.Context, tenantID uuid.UUID, listKey, code string) (string, error) {
	var item models.SelectableListItem
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND list_key = ? AND code = ?", tenantID, listKey, code).
		First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return code, nil
	}
	if err != nil {
		return "", err
	}
	return item.Label, nil
}

// CodeInList reports whether a code is a member of the tenant's selectable
// list. An unconfigured list simply contains nothing.
func (r *repository) CodeInList(ctx context.Context, tenantID uuid.UUID, listKey, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SelectableListItem{}).
		Where("tenant_id = ? AND list_key = ? AND code = ?", tenantID, listKey, code).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

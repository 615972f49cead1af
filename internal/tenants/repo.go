package tenants

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oharrington/thirdline-backend/pkg/db/models"
	"github.com/oharrington/thirdline-backend/pkg/enums"
)

// Repository exposes read-only access to tenant workflow configuration.
type Repository interface {
	ListFeatures(ctx context.Context, tenantID uuid.UUID) ([]enums.TenantFeature, error)
	ListEvents(ctx context.Context, tenantID uuid.UUID) ([]enums.WorkflowEvent, error)
	StrategyBinding(ctx context.Context, tenantID uuid.UUID) (*models.StrategyBinding, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a tenant configuration repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListFeatures(ctx context.Context, tenantID uuid.UUID) ([]enums.TenantFeature, error) {
	var rows []models.TenantFeature
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	features := make([]enums.TenantFeature, 0, len(rows))
	for _, row := range rows {
		features = append(features, row.Feature)
	}
	return features, nil
}

func (r *repository) ListEvents(ctx context.Context, tenantID uuid.UUID) ([]enums.WorkflowEvent, error) {
	var rows []models.TenantWorkflowEvent
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	events := make([]enums.WorkflowEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.Event)
	}
	return events, nil
}

func (r *repository) StrategyBinding(ctx context.Context, tenantID uuid.UUID) (*models.StrategyBinding, error) {
	var binding models.StrategyBinding
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&binding).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &binding, nil
}

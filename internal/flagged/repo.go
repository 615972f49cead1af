package flagged

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oharrington/thirdline-backend/pkg/db/models"
)

// ConfigRepository loads flag trigger conditions for a tenant.
type ConfigRepository interface {
	ListConditions(ctx context.Context, tenantID uuid.UUID) ([]models.FlaggedQuestion, error)
}

type configRepository struct {
	db *gorm.DB
}

// NewConfigRepository returns a flag-condition repository bound to the database.
func NewConfigRepository(db *gorm.DB) ConfigRepository {
	return &configRepository{db: db}
}

func (r *configRepository) ListConditions(ctx context.Context, tenantID uuid.UUID) ([]models.FlaggedQuestion, error) {
	var conditions []models.FlaggedQuestion
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Find(&conditions).Error
	if err != nil {
		return nil, err
	}
	return conditions, nil
}

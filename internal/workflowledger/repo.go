package workflowledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oharrington/thirdline-backend/pkg/db/models"
)

// Repository manages persistence for workflow existence records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Exists(ctx context.Context, tenantID, profileID uuid.UUID) (bool, error)
	Insert(ctx context.Context, record *models.WorkflowRecord) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Exists(ctx context.Context, tenantID, profileID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WorkflowRecord{}).
		Where("tenant_id = ? AND profile_id = ?", tenantID, profileID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Insert writes the existence record, relying on the unique index over
// (tenant_id, profile_id) to serialize racers. It reports whether this
// caller created the row.
func (r *repository) Insert(ctx context.Context, record *models.WorkflowRecord) (bool, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "profile_id"}},
			DoNothing: true,
		}).
		Create(record)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

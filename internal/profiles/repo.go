package profiles

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oharrington/thirdline-backend/pkg/db/models"
	"github.com/oharrington/thirdline-backend/pkg/enums"
	pkgerrors "github.com/oharrington/thirdline-backend/pkg/errors"
)

// ContactUpdate carries point-of-contact fields synced from a submission.
type ContactUpdate struct {
	Name  string
	Email string
	Phone string
}

// Repository reads third-party profiles and their derived risk tier.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Get(ctx context.Context, tenantID, profileID uuid.UUID) (*models.ThirdPartyProfile, error)
	RiskTier(ctx context.Context, tenantID, profileID uuid.UUID) (enums.RiskTier, error)
	AllAssessed(ctx context.Context, tenantID uuid.UUID) (bool, error)
	UpdateContact(ctx context.Context, tenantID, profileID uuid.UUID, update ContactUpdate) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a profile repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Get(ctx context.Context, tenantID, profileID uuid.UUID) (*models.ThirdPartyProfile, error) {
	var record models.ThirdPartyProfile
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, profileID).
		First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// RiskTier resolves the profile's tier from the newest assessment row. A
// profile with no assessments yet has no tier.
func (r *repository) RiskTier(ctx context.Context, tenantID, profileID uuid.UUID) (enums.RiskTier, error) {
	var assessment models.RiskAssessment
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND profile_id = ?", tenantID, profileID).
		Order("assessed_at DESC").
		First(&assessment).Error
	if err == gorm.ErrRecordNotFound {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "profile has no risk assessment")
	}
	if err != nil {
		return "", err
	}
	return assessment.Tier, nil
}

// AllAssessed reports whether every profile of the tenant carries at least
// one risk assessment. Batch review launches require full coverage.
func (r *repository) AllAssessed(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	var unassessed int64
	err := r.db.WithContext(ctx).
		Model(&models.ThirdPartyProfile{}).
		Where("tenant_id = ?", tenantID).
		Where("id NOT IN (?)", r.db.
			Model(&models.RiskAssessment{}).
			Select("profile_id").
			Where("tenant_id = ?", tenantID)).
		Count(&unassessed).Error
	if err != nil {
		return false, err
	}
	return unassessed == 0, nil
}

func (r *repository) UpdateContact(ctx context.Context, tenantID, profileID uuid.UUID, update ContactUpdate) error {
	return r.db.WithContext(ctx).
		Model(&models.ThirdPartyProfile{}).
		Where("tenant_id = ? AND id = ?", tenantID, profileID).
		Updates(map[string]any{
			"contact_name":  update.Name,
			"contact_email": update.Email,
			"contact_phone": update.Phone,
		}).Error
}

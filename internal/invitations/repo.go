package invitations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oharrington/thirdline-backend/pkg/db/models"
	"github.com/oharrington/thirdline-backend/pkg/enums"
)

// Repository loads invitation control and language configuration.
type Repository interface {
	Control(ctx context.Context, tenantID uuid.UUID, formType enums.FormType) (*models.InvitationControl, error)
	Language(ctx context.Context, tenantID uuid.UUID, caseType enums.CaseType) (string, error)
	CountryLanguage(ctx context.Context, country string) (string, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an invitation configuration repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Control returns the tenant's control row for the form type, falling back
// to the global row. Nil means no control is configured at all.
func (r *repository) Control(ctx context.Context, tenantID uuid.UUID, formType enums.FormType) (*models.InvitationControl, error) {
	var control models.InvitationControl
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND form_type = ?", tenantID, formType).
		First(&control).Error
	if err == nil {
		return &control, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	err = r.db.WithContext(ctx).
		Where("tenant_id IS NULL AND form_type = ?", formType).
		First(&control).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &control, nil
}

// Language walks the configured fallback chain: tenant row for the exact
// case type, tenant row for the default case type, then the global
// default-case-type row. Empty means nothing is configured.
func (r *repository) Language(ctx context.Context, tenantID uuid.UUID, caseType enums.CaseType) (string, error) {
	lookups := []struct {
		tenantID *uuid.UUID
		caseType enums.CaseType
	}{
		{&tenantID, caseType},
		{&tenantID, enums.CaseTypeDefault},
		{nil, enums.CaseTypeDefault},
	}
	for _, lookup := range lookups {
		var row models.InvitationLanguage
		query := r.db.WithContext(ctx).Where("case_type = ?", lookup.caseType)
		if lookup.tenantID != nil {
			query = query.Where("tenant_id = ?", *lookup.tenantID)
		} else {
			query = query.Where("tenant_id IS NULL")
		}
		err := query.First(&row).Error
		if err == nil {
			return row.Language, nil
		}
		if err != gorm.ErrRecordNotFound {
			return "", err
		}
	}
	return "", nil
}

func (r *repository) CountryLanguage(ctx context.Context, country string) (string, error) {
	var row models.CountryLanguage
	err := r.db.WithContext(ctx).
		Where("country = ?", country).
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return row.Language, nil
}

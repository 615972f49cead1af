package cases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oharrington/thirdline-backend/pkg/db/models"
	"github.com/oharrington/thirdline-backend/pkg/enums"
)

// Repository manages cases, questionnaires and their cross-reference rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateCase(ctx context.Context, record *models.Case) error
	GetCase(ctx context.Context, tenantID, caseID uuid.UUID) (*models.Case, error)
	UpdateCaseProfile(ctx context.Context, caseID, profileID uuid.UUID) error

	CreateQuestionnaire(ctx context.Context, record *models.Questionnaire) error
	GetQuestionnaire(ctx context.Context, tenantID, questionnaireID uuid.UUID) (*models.Questionnaire, error)
	LatestSubmitted(ctx context.Context, tenantID, profileID uuid.UUID, formTypes []enums.FormType, since time.Time) (*models.Questionnaire, error)

	AnswerValues(ctx context.Context, questionnaireID uuid.UUID, questionIDs []string) (map[string]string, error)

	ElementExists(ctx context.Context, tenantID uuid.UUID, parentType enums.EntityType, parentID uuid.UUID, childType enums.EntityType, childID uuid.UUID) (bool, error)
	CreateElement(ctx context.Context, record *models.CaseElement) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a case repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateCase(ctx context.Context, record *models.Case) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) GetCase(ctx context.Context, tenantID, caseID uuid.UUID) (*models.Case, error) {
	var record models.Case
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, caseID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) UpdateCaseProfile(ctx context.Context, caseID, profileID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Case{}).
		Where("id = ?", caseID).
		Update("profile_id", profileID).Error
}

func (r *repository) CreateQuestionnaire(ctx context.Context, record *models.Questionnaire) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) GetQuestionnaire(ctx context.Context, tenantID, questionnaireID uuid.UUID) (*models.Questionnaire, error) {
	var record models.Questionnaire
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, questionnaireID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// LatestSubmitted returns the newest submitted questionnaire of the given
// form types for the profile within the lookback window, or nil when none
// qualifies.
func (r *repository) LatestSubmitted(ctx context.Context, tenantID, profileID uuid.UUID, formTypes []enums.FormType, since time.Time) (*models.Questionnaire, error) {
	var record models.Questionnaire
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND profile_id = ?", tenantID, profileID).
		Where("submitted_at IS NOT NULL").
		Where("submitted_at >= ?", since).
		Order("submitted_at DESC")
	if len(formTypes) > 0 {
		query = query.Where("form_type IN ?", formTypes)
	}
	err := query.First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// AnswerValues projects only the requested question ids from a submission.
func (r *repository) AnswerValues(ctx context.Context, questionnaireID uuid.UUID, questionIDs []string) (map[string]string, error) {
	if len(questionIDs) == 0 {
		return map[string]string{}, nil
	}
	var rows []models.QuestionnaireAnswer
	err := r.db.WithContext(ctx).
		Where("questionnaire_id = ? AND question_id IN ?", questionnaireID, questionIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.QuestionID] = row.Value
	}
	return values, nil
}

func (r *repository) ElementExists(ctx context.Context, tenantID uuid.UUID, parentType enums.EntityType, parentID uuid.UUID, childType enums.EntityType, childID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CaseElement{}).
		Where("tenant_id = ? AND parent_type = ? AND parent_id = ? AND child_type = ? AND child_id = ?",
			tenantID, parentType, parentID, childType, childID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) CreateElement(ctx context.Context, record *models.CaseElement) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(record).Error
}

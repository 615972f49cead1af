package invitations

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/oharrington/thirdline-backend/internal/cases"
	"github.com/oharrington/thirdline-backend/internal/tenants"
	"github.com/oharrington/thirdline-backend/pkg/config"
	"github.com/oharrington/thirdline-backend/pkg/db/models"
	"github.com/oharrington/thirdline-backend/pkg/enums"
	pkgerrors "github.com/oharrington/thirdline-backend/pkg/errors"
	"github.com/oharrington/thirdline-backend/pkg/logger"
	"github.com/oharrington/thirdline-backend/pkg/mail"
	"github.com/oharrington/thirdline-backend/pkg/metrics"
)

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// SendParams describes one invitation to issue.
type SendParams struct {
	Profile      *models.ThirdPartyProfile
	FormType     enums.FormType
	ActingUserID uuid.UUID
	Renewal      bool
}

// SendResult reports what an invitation attempt produced. Skipped results
// are successes: the workflow deliberately issued nothing.
type SendResult struct {
	CaseID          uuid.UUID
	QuestionnaireID uuid.UUID
	Language        string
	Skipped         bool
	SkipReason      string
}

// Service issues questionnaire invitations: it creates the case and the
// questionnaire in one transaction, repairs missing cross-reference rows,
// and dispatches the invitation email for external form types.
type Service interface {
	Send(ctx context.Context, params SendParams) (*SendResult, error)
}

type service struct {
	runner   TxRunner
	repo     Repository
	cases    cases.Repository
	gate     tenants.Gate
	sender   mail.Sender
	logg     *logger.Logger
	metrics  *metrics.WorkflowMetrics
	workflow config.WorkflowConfig
}

// NewService wires an invitation service.
func NewService(
	runner TxRunner,
	repo Repository,
	caseRepo cases.Repository,
	gate tenants.Gate,
	sender mail.Sender,
	logg *logger.Logger,
	workflowMetrics *metrics.WorkflowMetrics,
	workflowCfg config.WorkflowConfig,
) (Service, error) {
	if runner == nil || repo == nil || caseRepo == nil || gate == nil || sender == nil || logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "invitation service dependencies incomplete")
	}
	return &service{
		runner:   runner,
		repo:     repo,
		cases:    caseRepo,
		gate:     gate,
		sender:   sender,
		logg:     logg,
		metrics:  workflowMetrics,
		workflow: workflowCfg,
	}, nil
}

func (s *service) Send(ctx context.Context, params SendParams) (*SendResult, error) {
	if params.Profile == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile required")
	}
	if !params.FormType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid form type")
	}
	profile := params.Profile
	ctx = s.logg.WithTenantID(ctx, profile.TenantID.String())
	ctx = s.logg.WithProfileID(ctx, profile.ID.String())

	// An external invitation with nobody to invite is a deliberate no-op,
	// not a failure: the workflow proceeds and the invitation can be sent
	// manually once a contact exists.
	if params.FormType.IsExternal() && !profile.HasContactEmail() {
		s.logg.Info(ctx, "skipping invitation: profile has no contact email")
		return &SendResult{Skipped: true, SkipReason: "no contact email"}, nil
	}

	actingUser := params.ActingUserID
	if actingUser == uuid.Nil {
		actingUser = profile.OwnerUserID
	}

	control, err := s.resolveControl(ctx, profile.TenantID, params.FormType)
	if err != nil {
		return nil, err
	}
	language, err := s.resolveLanguage(ctx, profile, control.CaseType, params.FormType)
	if err != nil {
		return nil, err
	}

	var (
		caseRecord models.Case
		ddq        models.Questionnaire
	)
	err = s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		txCases := s.cases.WithTx(tx)
		caseRecord = models.Case{
			TenantID:  profile.TenantID,
			ProfileID: &profile.ID,
			CaseType:  control.CaseType,
			Version:   control.Version,
			CreatedBy: actingUser,
		}
		if err := txCases.CreateCase(ctx, &caseRecord); err != nil {
			return fmt.Errorf("creating case: %w", err)
		}
		ddq = models.Questionnaire{
			TenantID:  profile.TenantID,
			CaseID:    caseRecord.ID,
			ProfileID: &profile.ID,
			FormType:  params.FormType,
			Internal:  !params.FormType.IsExternal(),
			Language:  language,
		}
		if params.FormType.IsExternal() {
			ddq.RecipientEmail = profile.ContactEmail
		}
		if err := txCases.CreateQuestionnaire(ctx, &ddq); err != nil {
			return fmt.Errorf("creating questionnaire: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting invitation")
	}
	ctx = s.logg.WithCaseID(ctx, caseRecord.ID.String())

	s.repairLinks(ctx, profile, caseRecord.ID, ddq.ID)

	if params.FormType.IsExternal() {
		if err := s.dispatch(ctx, profile, ddq, language, params.Renewal); err != nil {
			// Records already exist; the invitation counts as issued and
			// the email can be resent out of band.
			s.logg.Error(ctx, "invitation email dispatch failed", err)
		}
	}
	s.metrics.IncInvitation(string(params.FormType))
	s.logg.Info(ctx, "invitation issued")

	return &SendResult{
		CaseID:          caseRecord.ID,
		QuestionnaireID: ddq.ID,
		Language:        language,
	}, nil
}

func (s *service) resolveControl(ctx context.Context, tenantID uuid.UUID, formType enums.FormType) (*models.InvitationControl, error) {
	control, err := s.repo.Control(ctx, tenantID, formType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading invitation control")
	}
	if control == nil {
		control = &models.InvitationControl{
			FormType: formType,
			CaseType: enums.CaseTypeDefault,
			Version:  1,
		}
	}
	return control, nil
}

// resolveLanguage picks the invitation language. When the tenant uses
// country-based languages and the profile has a mapped country, that wins;
// otherwise the configured fallback chain applies, then the baseline.
func (s *service) resolveLanguage(ctx context.Context, profile *models.ThirdPartyProfile, caseType enums.CaseType, formType enums.FormType) (string, error) {
	if formType.IsExternal() && profile.Country != "" {
		enabled, err := s.gate.TenantHasFeature(ctx, profile.TenantID, enums.FeatureCountryLanguage)
		if err != nil {
			return "", err
		}
		if enabled {
			language, err := s.repo.CountryLanguage(ctx, profile.Country)
			if err != nil {
				return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading country language")
			}
			if language != "" {
				return language, nil
			}
		}
	}
	language, err := s.repo.Language(ctx, profile.TenantID, caseType)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading invitation language")
	}
	if language != "" {
		return language, nil
	}
	return s.workflow.BaselineLanguage, nil
}

// repairLinks recreates cross-reference rows that upstream batch imports
// sometimes skip. The repair is best effort; failures are logged and never
// fail the invitation.
func (s *service) repairLinks(ctx context.Context, profile *models.ThirdPartyProfile, caseID, ddqID uuid.UUID) {
	var errs error
	links := []struct {
		parentType enums.EntityType
		parentID   uuid.UUID
		childType  enums.EntityType
		childID    uuid.UUID
	}{
		{enums.EntityTypeProfile, profile.ID, enums.EntityTypeCase, caseID},
		{enums.EntityTypeCase, caseID, enums.EntityTypeQuestionnaire, ddqID},
	}
	for _, link := range links {
		exists, err := s.cases.ElementExists(ctx, profile.TenantID, link.parentType, link.parentID, link.childType, link.childID)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if exists {
			continue
		}
		err = s.cases.CreateElement(ctx, &models.CaseElement{
			TenantID:   profile.TenantID,
			ParentType: link.parentType,
			ParentID:   link.parentID,
			ChildType:  link.childType,
			ChildID:    link.childID,
		})
		if err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		s.logg.Error(ctx, "relink repair incomplete", errs)
	}
}

func (s *service) dispatch(ctx context.Context, profile *models.ThirdPartyProfile, ddq models.Questionnaire, language string, renewal bool) error {
	subject := fmt.Sprintf("Due diligence questionnaire for %s", profile.Name)
	if renewal {
		subject = fmt.Sprintf("Due diligence renewal for %s", profile.Name)
	}
	link := fmt.Sprintf("%s/%s?lang=%s", s.workflow.InvitationLink, ddq.ID, language)
	return s.sender.Send(ctx, mail.Message{
		ToEmail:  profile.ContactEmail,
		ToName:   profile.ContactName,
		Subject:  subject,
		HTMLBody: fmt.Sprintf(`<p>You have been invited to complete a questionnaire.</p><p><a href="%s">Open questionnaire</a></p>`, link),
		TextBody: fmt.Sprintf("You have been invited to complete a questionnaire: %s", link),
	})
}

package workflow

import (
	"context"

	"github.com/google/uuid"

	"github.com/oharrington/thirdline-backend/internal/invitations"
	"github.com/oharrington/thirdline-backend/pkg/db/models"
	"github.com/oharrington/thirdline-backend/pkg/enums"
	pkgerrors "github.com/oharrington/thirdline-backend/pkg/errors"
)

// KeyCategoryGated identifies the category-gated strategy.
const KeyCategoryGated = "category_gated"

// Selectable lists holding the tenant's category allow-lists. First-time and
// renewal issuance are gated by separate lists.
const (
	categoryListNew     = "workflow_categories_new"
	categoryListRenewal = "workflow_categories_renewal"
)

// CategoryGated launches questionnaires only for profiles whose category
// code is on the tenant's allow-list. Uncategorized and unlisted profiles
// are recorded but not invited until they qualify.
type CategoryGated struct {
	*Base
}

// NewCategoryGated constructs the category-gated strategy for a tenant.
func NewCategoryGated(ctx context.Context, tenantID uuid.UUID, deps Deps) (Strategy, error) {
	base, err := NewBase(ctx, KeyCategoryGated, tenantID, deps)
	if err != nil {
		return nil, err
	}
	return &CategoryGated{Base: base}, nil
}

func (s *CategoryGated) StartProfileWorkflow(ctx context.Context, in StartProfileWorkflowInput) Result {
	return s.launch(ctx, in, func(ctx context.Context, profile *models.ThirdPartyProfile) (launchDecision, error) {
		if s.Entitlements().HasEvent(enums.EventCategoryGate) {
			allowed, err := s.categoryAllowed(ctx, profile, categoryListNew)
			if err != nil {
				return launchDecision{}, err
			}
			if !allowed {
				return launchDecision{}, nil
			}
		}
		return launchDecision{Send: true, FormType: enums.FormTypeFull}, nil
	})
}

// categoryAllowed checks the profile's category against one of the tenant's
// allow-lists. Uncategorized profiles never qualify.
func (s *CategoryGated) categoryAllowed(ctx context.Context, profile *models.ThirdPartyProfile, listKey string) (bool, error) {
	if profile.CategoryCode == "" {
		return false, nil
	}
	allowed, err := s.deps.Notifications.CodeInList(ctx, profile.TenantID, listKey, profile.CategoryCode)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking category allow-list")
	}
	return allowed, nil
}

func (s *CategoryGated) DDQSubmitted(ctx context.Context, in DDQSubmittedInput) Result {
	return s.submitted(ctx, in, s.notifyFlagDefault(in))
}

func (s *CategoryGated) CaseFolderReview(ctx context.Context, in CaseFolderReviewInput) Result {
	return s.reviewed(ctx, in)
}

func (s *CategoryGated) ProfileApproval(ctx context.Context, in ProfileApprovalInput) Result {
	return s.approved(ctx, in)
}

// ScorecardSubmitted adds renewal issuance on top of the standard scorecard
// handling: a completed scorecard triggers a renewal questionnaire when the
// profile's category is on the renewal allow-list.
func (s *CategoryGated) ScorecardSubmitted(ctx context.Context, in ScorecardSubmittedInput) Result {
	result := s.scorecardDone(ctx, in)
	if result.Outcome != OutcomeCompleted || !s.Entitlements().HasEvent(enums.EventCategoryGate) {
		return result
	}
	allowed, err := s.categoryAllowed(ctx, in.Profile, categoryListRenewal)
	if err != nil {
		s.logg().Error(ctx, "renewal category check failed", err)
		return result
	}
	if !allowed {
		return result
	}
	_, err = s.deps.Invitations.Send(ctx, invitations.SendParams{
		Profile:  in.Profile,
		FormType: enums.FormTypeFull,
		Renewal:  true,
	})
	if err != nil {
		s.logg().Error(ctx, "renewal invitation failed", err)
	}
	return result
}

func (s *CategoryGated) UserCanLaunchBatchReview(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.canLaunchBatch(userID)
}

func (s *CategoryGated) ReviewBatchLaunchAvailable(ctx context.Context) (bool, error) {
	return s.batchAvailable(ctx)
}

func (s *CategoryGated) InitialReviewBatchLaunch(ctx context.Context, in InitialReviewBatchLaunchInput) Result {
	return s.launchBatch(ctx, in)
}

package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/oharrington/thirdline-backend/internal/notifications"
	"github.com/oharrington/thirdline-backend/pkg/db/models"
	"github.com/oharrington/thirdline-backend/pkg/enums"
)

// KeyFlagNotify identifies the flag-notify strategy.
const KeyFlagNotify = "flag_notify"

// questionIndustry holds a selectable-list answer whose label enriches the
// flag notice for compliance reviewers.
const (
	questionIndustry = "q.company.industry"
	industryListKey  = "industries"
)

// FlagNotify specializes flagged-answer handling: the notice carries the
// resolved industry label and goes to the recipients configured for the
// profile's region.
type FlagNotify struct {
	*Base
}

// NewFlagNotify constructs the flag-notify strategy for a tenant.
func NewFlagNotify(ctx context.Context, tenantID uuid.UUID, deps Deps) (Strategy, error) {
	base, err := NewBase(ctx, KeyFlagNotify, tenantID, deps)
	if err != nil {
		return nil, err
	}
	return &FlagNotify{Base: base}, nil
}

func (s *FlagNotify) StartProfileWorkflow(ctx context.Context, in StartProfileWorkflowInput) Result {
	return s.launch(ctx, in, func(ctx context.Context, profile *models.ThirdPartyProfile) (launchDecision, error) {
		return launchDecision{Send: true, FormType: enums.FormTypeFull}, nil
	})
}

func (s *FlagNotify) DDQSubmitted(ctx context.Context, in DDQSubmittedInput) Result {
	return s.submitted(ctx, in, func(ctx context.Context) error {
		subject := fmt.Sprintf("Flagged answer on submission for %s", in.Profile.Name)
		body := fmt.Sprintf("A submission for %s contains at least one flagged answer.", in.Profile.Name)

		values, err := s.deps.Cases.AnswerValues(ctx, in.Questionnaire.ID, []string{questionIndustry})
		if err != nil {
			return err
		}
		if code, ok := values[questionIndustry]; ok && code != "" {
			label, err := s.deps.Notifications.ResolveLabel(ctx, in.Profile.TenantID, industryListKey, code)
			if err != nil {
				return err
			}
			body = fmt.Sprintf("%s Industry: %s.", body, label)
		}

		notice := notifications.Notice{
			TenantID: in.Profile.TenantID,
			Purpose:  enums.PurposeComplianceFlag,
			Subject:  subject,
			TextBody: body,
		}
		if in.Profile.Country != "" {
			region := in.Profile.Country
			notice.Region = &region
		}
		_, err = s.deps.Notifications.Notify(ctx, notice)
		return err
	})
}

func (s *FlagNotify) CaseFolderReview(ctx context.Context, in CaseFolderReviewInput) Result {
	return s.reviewed(ctx, in)
}

func (s *FlagNotify) ProfileApproval(ctx context.Context, in ProfileApprovalInput) Result {
	return s.approved(ctx, in)
}

func (s *FlagNotify) ScorecardSubmitted(ctx context.Context, in ScorecardSubmittedInput) Result {
	return s.scorecardDone(ctx, in)
}

func (s *FlagNotify) UserCanLaunchBatchReview(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.canLaunchBatch(userID)
}

func (s *FlagNotify) ReviewBatchLaunchAvailable(ctx context.Context) (bool, error) {
	return s.batchAvailable(ctx)
}

func (s *FlagNotify) InitialReviewBatchLaunch(ctx context.Context, in InitialReviewBatchLaunchInput) Result {
	return s.launchBatch(ctx, in)
}

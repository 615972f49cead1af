package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/oharrington/thirdline-backend/internal/invitations"
	"github.com/oharrington/thirdline-backend/pkg/db/models"
	"github.com/oharrington/thirdline-backend/pkg/enums"
	pkgerrors "github.com/oharrington/thirdline-backend/pkg/errors"
)

// KeyRenewalAlternation identifies the renewal-alternation strategy.
const KeyRenewalAlternation = "renewal_alternation"

// RenewalAlternation schedules questionnaires by risk tier: high-tier
// profiles are always due, medium-tier profiles renew yearly and low-tier
// profiles every two years. Renewals alternate between the full form and
// the lighter attestation when alternation is enabled.
type RenewalAlternation struct {
	*Base
	now func() time.Time
}

// NewRenewalAlternation constructs the renewal-alternation strategy.
func NewRenewalAlternation(ctx context.Context, tenantID uuid.UUID, deps Deps) (Strategy, error) {
	base, err := NewBase(ctx, KeyRenewalAlternation, tenantID, deps)
	if err != nil {
		return nil, err
	}
	return &RenewalAlternation{Base: base, now: time.Now}, nil
}

// renewalWindow maps a tier to how long a submission stays fresh. Zero means
// the tier is always due.
func renewalWindow(tier enums.RiskTier) time.Duration {
	switch tier {
	case enums.RiskTierMedium:
		return 365 * 24 * time.Hour
	case enums.RiskTierLow:
		return 2 * 365 * 24 * time.Hour
	default:
		return 0
	}
}

func (s *RenewalAlternation) StartProfileWorkflow(ctx context.Context, in StartProfileWorkflowInput) Result {
	return s.launch(ctx, in, func(ctx context.Context, profile *models.ThirdPartyProfile) (launchDecision, error) {
		return s.decideNext(ctx, profile)
	})
}

// decideNext picks the next external questionnaire for a profile based on
// risk tier and submission history.
func (s *RenewalAlternation) decideNext(ctx context.Context, profile *models.ThirdPartyProfile) (launchDecision, error) {
	tier, err := s.deps.Profiles.RiskTier(ctx, profile.TenantID, profile.ID)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			// Unassessed profiles start on the full questionnaire.
			return launchDecision{Send: true, FormType: enums.FormTypeFull}, nil
		}
		return launchDecision{}, err
	}

	externalForms := []enums.FormType{enums.FormTypeFull, enums.FormTypeAttestation}
	window := renewalWindow(tier)
	if window > 0 {
		fresh, err := s.deps.Cases.LatestSubmitted(ctx, profile.TenantID, profile.ID, externalForms, s.now().Add(-window))
		if err != nil {
			return launchDecision{}, err
		}
		if fresh != nil {
			// Still inside the renewal window, nothing to send.
			return launchDecision{}, nil
		}
	}

	formType := enums.FormTypeFull
	renewal := false
	last, err := s.deps.Cases.LatestSubmitted(ctx, profile.TenantID, profile.ID, externalForms, time.Time{})
	if err != nil {
		return launchDecision{}, err
	}
	if last != nil {
		renewal = true
		if s.alternationEnabled() && last.FormType == enums.FormTypeFull {
			formType = enums.FormTypeAttestation
		}
	}
	return launchDecision{Send: true, FormType: formType, Renewal: renewal}, nil
}

func (s *RenewalAlternation) alternationEnabled() bool {
	return s.Entitlements().HasEvents(enums.EventRenewalAlternation, enums.EventAttestationIssuance)
}

func (s *RenewalAlternation) DDQSubmitted(ctx context.Context, in DDQSubmittedInput) Result {
	return s.submitted(ctx, in, s.notifyFlagDefault(in))
}

func (s *RenewalAlternation) CaseFolderReview(ctx context.Context, in CaseFolderReviewInput) Result {
	return s.reviewed(ctx, in)
}

func (s *RenewalAlternation) ProfileApproval(ctx context.Context, in ProfileApprovalInput) Result {
	return s.approved(ctx, in)
}

// ScorecardSubmitted runs the standard scorecard handling and then issues
// the next external questionnaire if the profile is due for one.
func (s *RenewalAlternation) ScorecardSubmitted(ctx context.Context, in ScorecardSubmittedInput) Result {
	result := s.scorecardDone(ctx, in)
	if result.Outcome != OutcomeCompleted {
		return result
	}
	decision, err := s.decideNext(ctx, in.Profile)
	if err != nil {
		s.logg().Error(ctx, "renewal decision failed", err)
		return result
	}
	if !decision.Send {
		return result
	}
	_, err = s.deps.Invitations.Send(ctx, invitations.SendParams{
		Profile:  in.Profile,
		FormType: decision.FormType,
		Renewal:  decision.Renewal,
	})
	if err != nil {
		s.logg().Error(ctx, "renewal invitation failed", err)
	}
	return result
}

func (s *RenewalAlternation) UserCanLaunchBatchReview(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.canLaunchBatch(userID)
}

func (s *RenewalAlternation) ReviewBatchLaunchAvailable(ctx context.Context) (bool, error) {
	return s.batchAvailable(ctx)
}

func (s *RenewalAlternation) InitialReviewBatchLaunch(ctx context.Context, in InitialReviewBatchLaunchInput) Result {
	return s.launchBatch(ctx, in)
}

package workflow

import (
	"context"

	"github.com/google/uuid"

	"github.com/oharrington/thirdline-backend/pkg/db/models"
	"github.com/oharrington/thirdline-backend/pkg/enums"
	pkgerrors "github.com/oharrington/thirdline-backend/pkg/errors"
)

// KeyRiskTiered identifies the risk-tier gated strategy.
const KeyRiskTiered = "risk_tiered"

// riskTierFloor is the lowest tier that still receives an automatic
// questionnaire on launch.
const riskTierFloor = enums.RiskTierMedium

// RiskTiered launches questionnaires only for profiles at or above the tier
// floor. Lower-tier profiles still get their workflow record; the invitation
// is simply withheld.
type RiskTiered struct {
	*Base
}

// NewRiskTiered constructs the risk-tiered strategy for a tenant.
func NewRiskTiered(ctx context.Context, tenantID uuid.UUID, deps Deps) (Strategy, error) {
	base, err := NewBase(ctx, KeyRiskTiered, tenantID, deps)
	if err != nil {
		return nil, err
	}
	return &RiskTiered{Base: base}, nil
}

func (s *RiskTiered) StartProfileWorkflow(ctx context.Context, in StartProfileWorkflowInput) Result {
	return s.launch(ctx, in, func(ctx context.Context, profile *models.ThirdPartyProfile) (launchDecision, error) {
		if !s.Entitlements().HasEvent(enums.EventRiskTierGate) {
			return launchDecision{Send: true, FormType: enums.FormTypeFull}, nil
		}
		tier, err := s.deps.Profiles.RiskTier(ctx, profile.TenantID, profile.ID)
		if err != nil {
			// No assessment yet means the gate cannot pass.
			if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				return launchDecision{}, nil
			}
			return launchDecision{}, err
		}
		if !tier.MeetsThreshold(riskTierFloor) {
			return launchDecision{}, nil
		}
		return launchDecision{Send: true, FormType: enums.FormTypeFull}, nil
	})
}

func (s *RiskTiered) DDQSubmitted(ctx context.Context, in DDQSubmittedInput) Result {
	return s.submitted(ctx, in, s.notifyFlagDefault(in))
}

func (s *RiskTiered) CaseFolderReview(ctx context.Context, in CaseFolderReviewInput) Result {
	return s.reviewed(ctx, in)
}

func (s *RiskTiered) ProfileApproval(ctx context.Context, in ProfileApprovalInput) Result {
	return s.approved(ctx, in)
}

func (s *RiskTiered) ScorecardSubmitted(ctx context.Context, in ScorecardSubmittedInput) Result {
	return s.scorecardDone(ctx, in)
}

func (s *RiskTiered) UserCanLaunchBatchReview(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.canLaunchBatch(userID)
}

func (s *RiskTiered) ReviewBatchLaunchAvailable(ctx context.Context) (bool, error) {
	return s.batchAvailable(ctx)
}

func (s *RiskTiered) InitialReviewBatchLaunch(ctx context.Context, in InitialReviewBatchLaunchInput) Result {
	return s.launchBatch(ctx, in)
}

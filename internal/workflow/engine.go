package workflow

import (
	"context"

	"github.com/google/uuid"

	"github.com/oharrington/thirdline-backend/internal/cases"
	"github.com/oharrington/thirdline-backend/internal/profiles"
	"github.com/oharrington/thirdline-backend/pkg/enums"
	pkgerrors "github.com/oharrington/thirdline-backend/pkg/errors"
	"github.com/oharrington/thirdline-backend/pkg/logger"
)

// Engine is the entry point the transport layer talks to. It loads the
// referenced records, resolves the tenant's strategy and dispatches the
// hook. Hook failures are logged inside the strategy and reported in the
// Result; only lookup and resolution failures surface as errors.
type Engine struct {
	resolver Resolver
	profiles profiles.Repository
	cases    cases.Repository
	logg     *logger.Logger
}

// NewEngine wires a workflow engine.
func NewEngine(resolver Resolver, profileRepo profiles.Repository, caseRepo cases.Repository, logg *logger.Logger) (*Engine, error) {
	if resolver == nil || profileRepo == nil || caseRepo == nil || logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "workflow engine dependencies incomplete")
	}
	return &Engine{resolver: resolver, profiles: profileRepo, cases: caseRepo, logg: logg}, nil
}

func (e *Engine) StartProfileWorkflow(ctx context.Context, tenantID, profileID, caseID, actingUserID uuid.UUID, fromUpload bool) (Result, error) {
	strategy, err := e.resolver.ResolveForTenant(ctx, tenantID)
	if err != nil {
		return Result{}, err
	}
	profile, err := e.profiles.Get(ctx, tenantID, profileID)
	if err != nil {
		return Result{}, err
	}
	return strategy.StartProfileWorkflow(ctx, StartProfileWorkflowInput{
		Profile:      profile,
		CaseID:       caseID,
		FromUpload:   fromUpload,
		ActingUserID: actingUserID,
	}), nil
}

func (e *Engine) DDQSubmitted(ctx context.Context, tenantID, questionnaireID uuid.UUID) (Result, error) {
	strategy, err := e.resolver.ResolveForTenant(ctx, tenantID)
	if err != nil {
		return Result{}, err
	}
	ddq, err := e.cases.GetQuestionnaire(ctx, tenantID, questionnaireID)
	if err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "questionnaire not found")
	}
	if ddq.ProfileID == nil {
		return Result{}, pkgerrors.New(pkgerrors.CodeStateConflict, "questionnaire has no linked profile")
	}
	profile, err := e.profiles.Get(ctx, tenantID, *ddq.ProfileID)
	if err != nil {
		return Result{}, err
	}
	return strategy.DDQSubmitted(ctx, DDQSubmittedInput{Profile: profile, Questionnaire: ddq}), nil
}

func (e *Engine) CaseFolderReview(ctx context.Context, tenantID, caseID uuid.UUID, action enums.ReviewAction, actorID uuid.UUID) (Result, error) {
	strategy, err := e.resolver.ResolveForTenant(ctx, tenantID)
	if err != nil {
		return Result{}, err
	}
	caseRecord, err := e.cases.GetCase(ctx, tenantID, caseID)
	if err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "case not found")
	}
	in := CaseFolderReviewInput{Case: caseRecord, Action: action, ActorID: actorID}
	if caseRecord.ProfileID != nil {
		profile, err := e.profiles.Get(ctx, tenantID, *caseRecord.ProfileID)
		if err == nil {
			in.Profile = profile
		} else {
			e.logg.Warn(ctx, "case review without resolvable profile")
		}
	}
	return strategy.CaseFolderReview(ctx, in), nil
}

func (e *Engine) ProfileApproval(ctx context.Context, tenantID, profileID uuid.UUID, action enums.ReviewAction, actorID uuid.UUID) (Result, error) {
	strategy, err := e.resolver.ResolveForTenant(ctx, tenantID)
	if err != nil {
		return Result{}, err
	}
	profile, err := e.profiles.Get(ctx, tenantID, profileID)
	if err != nil {
		return Result{}, err
	}
	return strategy.ProfileApproval(ctx, ProfileApprovalInput{
		Profile: profile,
		Action:  action,
		ActorID: actorID,
	}), nil
}

func (e *Engine) ScorecardSubmitted(ctx context.Context, tenantID, questionnaireID uuid.UUID) (Result, error) {
	strategy, err := e.resolver.ResolveForTenant(ctx, tenantID)
	if err != nil {
		return Result{}, err
	}
	ddq, err := e.cases.GetQuestionnaire(ctx, tenantID, questionnaireID)
	if err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "questionnaire not found")
	}
	if ddq.ProfileID == nil {
		return Result{}, pkgerrors.New(pkgerrors.CodeStateConflict, "questionnaire has no linked profile")
	}
	profile, err := e.profiles.Get(ctx, tenantID, *ddq.ProfileID)
	if err != nil {
		return Result{}, err
	}
	return strategy.ScorecardSubmitted(ctx, ScorecardSubmittedInput{Profile: profile, Questionnaire: ddq}), nil
}

func (e *Engine) ManualSend(ctx context.Context, tenantID, profileID uuid.UUID, formType enums.FormType, actingUserID uuid.UUID, renewal bool) (Result, error) {
	strategy, err := e.resolver.ResolveForTenant(ctx, tenantID)
	if err != nil {
		return Result{}, err
	}
	profile, err := e.profiles.Get(ctx, tenantID, profileID)
	if err != nil {
		return Result{}, err
	}
	return strategy.ManualSend(ctx, ManualSendInput{
		Profile:      profile,
		FormType:     formType,
		ActingUserID: actingUserID,
		Renewal:      renewal,
	}), nil
}

func (e *Engine) UserCanLaunchBatchReview(ctx context.Context, tenantID, userID uuid.UUID) (bool, error) {
	strategy, err := e.resolver.ResolveForTenant(ctx, tenantID)
	if err != nil {
		return false, err
	}
	return strategy.UserCanLaunchBatchReview(ctx, userID)
}

func (e *Engine) ReviewBatchLaunchAvailable(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	strategy, err := e.resolver.ResolveForTenant(ctx, tenantID)
	if err != nil {
		return false, err
	}
	return strategy.ReviewBatchLaunchAvailable(ctx)
}

func (e *Engine) InitialReviewBatchLaunch(ctx context.Context, tenantID, launchedBy uuid.UUID) (Result, error) {
	strategy, err := e.resolver.ResolveForTenant(ctx, tenantID)
	if err != nil {
		return Result{}, err
	}
	return strategy.InitialReviewBatchLaunch(ctx, InitialReviewBatchLaunchInput{LaunchedBy: launchedBy}), nil
}

package workflow

import (
	"context"

	"github.com/google/uuid"

	"github.com/oharrington/thirdline-backend/pkg/db/models"
	"github.com/oharrington/thirdline-backend/pkg/enums"
)

// Outcome classifies what a hook execution did.
type Outcome string

const (
	// OutcomeCompleted means the hook ran its side effects.
	OutcomeCompleted Outcome = "completed"
	// OutcomeSkipped means the hook had nothing to do (already done, lock
	// lost, or nothing configured).
	OutcomeSkipped Outcome = "skipped"
	// OutcomeDeclined means a variant gate decided against acting.
	OutcomeDeclined Outcome = "declined"
	// OutcomeFailed means the hook hit an error; the error is carried in
	// Result.Err and has already been logged.
	OutcomeFailed Outcome = "failed"
)

// Result is the verdict of one hook execution. Callers on the write path may
// discard it: failures never block the triggering operation.
type Result struct {
	Outcome Outcome
	Err     error
}

func completed() Result       { return Result{Outcome: OutcomeCompleted} }
func skipped() Result         { return Result{Outcome: OutcomeSkipped} }
func declined() Result        { return Result{Outcome: OutcomeDeclined} }
func failed(err error) Result { return Result{Outcome: OutcomeFailed, Err: err} }

// StartProfileWorkflowInput triggers workflow launch for a profile. CaseID
// is set when the launch was triggered by linking a case; FromUpload marks
// profiles arriving through batch import.
type StartProfileWorkflowInput struct {
	Profile      *models.ThirdPartyProfile
	CaseID       uuid.UUID
	FromUpload   bool
	ActingUserID uuid.UUID
}

// DDQSubmittedInput reports a completed questionnaire submission.
type DDQSubmittedInput struct {
	Profile       *models.ThirdPartyProfile
	Questionnaire *models.Questionnaire
}

// CaseFolderReviewInput reports a human review decision on a case folder.
type CaseFolderReviewInput struct {
	Case    *models.Case
	Profile *models.ThirdPartyProfile
	Action  enums.ReviewAction
	ActorID uuid.UUID
}

// ProfileApprovalInput reports a review decision on the profile itself.
type ProfileApprovalInput struct {
	Profile *models.ThirdPartyProfile
	Action  enums.ReviewAction
	ActorID uuid.UUID
}

// ScorecardSubmittedInput reports a completed internal scorecard.
type ScorecardSubmittedInput struct {
	Profile       *models.ThirdPartyProfile
	Questionnaire *models.Questionnaire
}

// ManualSendInput is an operator-requested invitation for a chosen form
// type, outside the automated launch gates.
type ManualSendInput struct {
	Profile      *models.ThirdPartyProfile
	FormType     enums.FormType
	ActingUserID uuid.UUID
	Renewal      bool
}

// InitialReviewBatchLaunchInput triggers the first batch review run.
type InitialReviewBatchLaunchInput struct {
	LaunchedBy uuid.UUID
}

// Strategy is a per-tenant workflow behavior bundle. Instances are
// constructed for one tenant and carry that tenant's entitlement snapshot,
// so hooks never take a tenant id.
type Strategy interface {
	Key() string
	TenantID() uuid.UUID

	StartProfileWorkflow(ctx context.Context, in StartProfileWorkflowInput) Result
	DDQSubmitted(ctx context.Context, in DDQSubmittedInput) Result
	CaseFolderReview(ctx context.Context, in CaseFolderReviewInput) Result
	ProfileApproval(ctx context.Context, in ProfileApprovalInput) Result
	ScorecardSubmitted(ctx context.Context, in ScorecardSubmittedInput) Result
	ManualSend(ctx context.Context, in ManualSendInput) Result

	UserCanLaunchBatchReview(ctx context.Context, userID uuid.UUID) (bool, error)
	ReviewBatchLaunchAvailable(ctx context.Context) (bool, error)
	InitialReviewBatchLaunch(ctx context.Context, in InitialReviewBatchLaunchInput) Result
}
